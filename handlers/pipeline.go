// ABOUTME: Pipeline MCP tool handlers
// ABOUTME: Implements get_pipeline_board and move_stage
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PipelineHandlers struct {
	db *sql.DB
}

func NewPipelineHandlers(database *sql.DB) *PipelineHandlers {
	return &PipelineHandlers{db: database}
}

type GetBoardInput struct {
	Pipeline string `json:"pipeline" jsonschema:"Evangelism or Support Raising (required)"`
}

type BoardColumnOutput struct {
	Stage  string         `json:"stage"`
	People []PersonOutput `json:"people"`
}

type BoardOutput struct {
	Pipeline string              `json:"pipeline"`
	Columns  []BoardColumnOutput `json:"columns"`
}

func (h *PipelineHandlers) GetBoard(_ context.Context, request *mcp.CallToolRequest, input GetBoardInput) (*mcp.CallToolResult, BoardOutput, error) {
	pipeline := models.FindPipeline(input.Pipeline)
	if pipeline == nil {
		return nil, BoardOutput{}, fmt.Errorf("unknown pipeline %q", input.Pipeline)
	}

	people, err := db.ListPeople(h.db)
	if err != nil {
		return nil, BoardOutput{}, fmt.Errorf("failed to list people: %w", err)
	}

	out := BoardOutput{Pipeline: pipeline.Name}
	for _, column := range models.BuildBoard(pipeline, people) {
		col := BoardColumnOutput{Stage: column.Stage, People: make([]PersonOutput, len(column.People))}
		for i := range column.People {
			col.People[i] = personToOutput(&column.People[i])
		}
		out.Columns = append(out.Columns, col)
	}

	return nil, out, nil
}

type MoveStageInput struct {
	PersonID int64  `json:"person_id" jsonschema:"Person ID (required)"`
	Pipeline string `json:"pipeline,omitempty" jsonschema:"Pipeline (default: the person's current one)"`
	Stage    string `json:"stage" jsonschema:"Target stage (required)"`
}

func (h *PipelineHandlers) MoveStage(_ context.Context, request *mcp.CallToolRequest, input MoveStageInput) (*mcp.CallToolResult, PersonOutput, error) {
	if input.Stage == "" {
		return nil, PersonOutput{}, fmt.Errorf("stage is required")
	}

	person, err := db.GetPerson(h.db, input.PersonID)
	if err != nil {
		return nil, PersonOutput{}, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return nil, PersonOutput{}, fmt.Errorf("person not found: %d", input.PersonID)
	}

	if input.Pipeline != "" {
		person.PipelineType = input.Pipeline
	}
	if person.PipelineType == "" {
		return nil, PersonOutput{}, fmt.Errorf("%s is not in a pipeline", person.Name)
	}
	person.PipelineStage = input.Stage
	if err := models.ValidateStage(person.PipelineType, person.PipelineStage); err != nil {
		return nil, PersonOutput{}, err
	}

	if err := db.UpdatePerson(h.db, person); err != nil {
		return nil, PersonOutput{}, fmt.Errorf("failed to update person: %w", err)
	}

	return nil, personToOutput(person), nil
}
