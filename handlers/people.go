// ABOUTME: Person MCP tool handlers
// ABOUTME: Implements add_person, list_people, get_person, update_person and delete_person
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PeopleHandlers struct {
	db *sql.DB
}

func NewPeopleHandlers(database *sql.DB) *PeopleHandlers {
	return &PeopleHandlers{db: database}
}

type AddPersonInput struct {
	Name           string `json:"name" jsonschema:"Full name (required)"`
	Status         string `json:"status" jsonschema:"Partner, Friend, Family, Mentor or Disciple (required)"`
	PrivateNotes   string `json:"private_notes,omitempty" jsonschema:"Private notes"`
	PipelineType   string `json:"pipeline_type,omitempty" jsonschema:"Evangelism or Support Raising"`
	PipelineStage  string `json:"pipeline_stage,omitempty" jsonschema:"Stage within the pipeline"`
	Email          string `json:"email,omitempty" jsonschema:"Email address"`
	Phone          string `json:"phone,omitempty" jsonschema:"Phone number"`
	Address        string `json:"address,omitempty" jsonschema:"Postal address"`
	Birthday       string `json:"birthday,omitempty" jsonschema:"Birthday as YYYY-MM-DD"`
	SpouseName     string `json:"spouse_name,omitempty" jsonschema:"Spouse name"`
	ChildrenNames  string `json:"children_names,omitempty" jsonschema:"Children names, comma separated"`
	PrayerRequests string `json:"prayer_requests,omitempty" jsonschema:"Prayer requests"`
	Interests      string `json:"interests,omitempty" jsonschema:"Interests"`
}

func (h *PeopleHandlers) AddPerson(_ context.Context, request *mcp.CallToolRequest, input AddPersonInput) (*mcp.CallToolResult, PersonOutput, error) {
	if input.Name == "" {
		return nil, PersonOutput{}, fmt.Errorf("name is required")
	}
	if err := validateStatus(input.Status); err != nil {
		return nil, PersonOutput{}, err
	}
	if err := models.ValidateStage(input.PipelineType, input.PipelineStage); err != nil {
		return nil, PersonOutput{}, err
	}

	person := &models.Person{
		Name:           input.Name,
		Status:         models.Status(input.Status),
		PrivateNotes:   input.PrivateNotes,
		PipelineType:   input.PipelineType,
		PipelineStage:  input.PipelineStage,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
		SpouseName:     input.SpouseName,
		ChildrenNames:  input.ChildrenNames,
		PrayerRequests: input.PrayerRequests,
		Interests:      input.Interests,
	}
	if input.Birthday != "" {
		bd, err := models.ParseDate(input.Birthday)
		if err != nil {
			return nil, PersonOutput{}, fmt.Errorf("invalid birthday: %w", err)
		}
		person.Birthday = &bd
	}

	if _, err := db.CreatePerson(h.db, person); err != nil {
		return nil, PersonOutput{}, fmt.Errorf("failed to create person: %w", err)
	}

	return nil, personToOutput(person), nil
}

type ListPeopleInput struct {
	Status   string `json:"status,omitempty" jsonschema:"Only people with this status"`
	Pipeline string `json:"pipeline,omitempty" jsonschema:"Only people in this pipeline"`
}

type ListPeopleOutput struct {
	People []PersonOutput `json:"people"`
}

func (h *PeopleHandlers) ListPeople(_ context.Context, request *mcp.CallToolRequest, input ListPeopleInput) (*mcp.CallToolResult, ListPeopleOutput, error) {
	people, err := db.ListPeople(h.db)
	if err != nil {
		return nil, ListPeopleOutput{}, fmt.Errorf("failed to list people: %w", err)
	}

	result := []PersonOutput{}
	for i := range people {
		p := &people[i]
		if input.Status != "" && string(p.Status) != input.Status {
			continue
		}
		if input.Pipeline != "" && p.PipelineType != input.Pipeline {
			continue
		}
		result = append(result, personToOutput(p))
	}

	return nil, ListPeopleOutput{People: result}, nil
}

type GetPersonInput struct {
	ID int64 `json:"id" jsonschema:"Person ID (required)"`
}

type PersonDetailOutput struct {
	Person       PersonOutput        `json:"person"`
	Interactions []InteractionOutput `json:"interactions"`
	Tasks        []TaskOutput        `json:"tasks"`
}

func (h *PeopleHandlers) GetPerson(_ context.Context, request *mcp.CallToolRequest, input GetPersonInput) (*mcp.CallToolResult, PersonDetailOutput, error) {
	person, err := db.GetPerson(h.db, input.ID)
	if err != nil {
		return nil, PersonDetailOutput{}, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return nil, PersonDetailOutput{}, fmt.Errorf("person not found: %d", input.ID)
	}

	interactions, err := db.ListInteractions(h.db, input.ID)
	if err != nil {
		return nil, PersonDetailOutput{}, fmt.Errorf("failed to list interactions: %w", err)
	}
	tasks, err := db.ListTasksForPerson(h.db, input.ID)
	if err != nil {
		return nil, PersonDetailOutput{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := PersonDetailOutput{
		Person:       personToOutput(person),
		Interactions: make([]InteractionOutput, len(interactions)),
		Tasks:        tasksToOutput(tasks),
	}
	for i := range interactions {
		out.Interactions[i] = interactionToOutput(&interactions[i])
	}

	return nil, out, nil
}

// UpdatePersonInput uses pointers so that omitted fields stay unchanged and
// an explicit empty string clears a field.
type UpdatePersonInput struct {
	ID             int64   `json:"id" jsonschema:"Person ID (required)"`
	Name           *string `json:"name,omitempty" jsonschema:"New name"`
	Status         *string `json:"status,omitempty" jsonschema:"New status"`
	PrivateNotes   *string `json:"private_notes,omitempty" jsonschema:"Private notes"`
	PipelineType   *string `json:"pipeline_type,omitempty" jsonschema:"Pipeline; empty string leaves the pipeline"`
	PipelineStage  *string `json:"pipeline_stage,omitempty" jsonschema:"Pipeline stage"`
	Email          *string `json:"email,omitempty" jsonschema:"Email address"`
	Phone          *string `json:"phone,omitempty" jsonschema:"Phone number"`
	Address        *string `json:"address,omitempty" jsonschema:"Postal address"`
	Birthday       *string `json:"birthday,omitempty" jsonschema:"Birthday as YYYY-MM-DD; empty string clears it"`
	SpouseName     *string `json:"spouse_name,omitempty" jsonschema:"Spouse name"`
	ChildrenNames  *string `json:"children_names,omitempty" jsonschema:"Children names"`
	PrayerRequests *string `json:"prayer_requests,omitempty" jsonschema:"Prayer requests"`
	Interests      *string `json:"interests,omitempty" jsonschema:"Interests"`
}

func (h *PeopleHandlers) UpdatePerson(_ context.Context, request *mcp.CallToolRequest, input UpdatePersonInput) (*mcp.CallToolResult, PersonOutput, error) {
	person, err := db.GetPerson(h.db, input.ID)
	if err != nil {
		return nil, PersonOutput{}, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return nil, PersonOutput{}, fmt.Errorf("person not found: %d", input.ID)
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&person.Name, input.Name)
	set(&person.PrivateNotes, input.PrivateNotes)
	set(&person.PipelineType, input.PipelineType)
	set(&person.PipelineStage, input.PipelineStage)
	set(&person.Email, input.Email)
	set(&person.Phone, input.Phone)
	set(&person.Address, input.Address)
	set(&person.SpouseName, input.SpouseName)
	set(&person.ChildrenNames, input.ChildrenNames)
	set(&person.PrayerRequests, input.PrayerRequests)
	set(&person.Interests, input.Interests)

	if input.Status != nil {
		if err := validateStatus(*input.Status); err != nil {
			return nil, PersonOutput{}, err
		}
		person.Status = models.Status(*input.Status)
	}
	if input.PipelineType != nil && *input.PipelineType == "" && input.PipelineStage == nil {
		person.PipelineStage = ""
	}
	if input.Birthday != nil {
		person.Birthday = nil
		if *input.Birthday != "" {
			bd, err := models.ParseDate(*input.Birthday)
			if err != nil {
				return nil, PersonOutput{}, fmt.Errorf("invalid birthday: %w", err)
			}
			person.Birthday = &bd
		}
	}

	if person.Name == "" {
		return nil, PersonOutput{}, fmt.Errorf("name cannot be empty")
	}
	if err := models.ValidateStage(person.PipelineType, person.PipelineStage); err != nil {
		return nil, PersonOutput{}, err
	}

	if err := db.UpdatePerson(h.db, person); err != nil {
		return nil, PersonOutput{}, fmt.Errorf("failed to update person: %w", err)
	}

	return nil, personToOutput(person), nil
}

type DeletePersonInput struct {
	ID int64 `json:"id" jsonschema:"Person ID (required)"`
}

func (h *PeopleHandlers) DeletePerson(_ context.Context, request *mcp.CallToolRequest, input DeletePersonInput) (*mcp.CallToolResult, DeleteOutput, error) {
	person, err := db.GetPerson(h.db, input.ID)
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return nil, DeleteOutput{}, fmt.Errorf("person not found: %d", input.ID)
	}

	if err := db.DeletePerson(h.db, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete person: %w", err)
	}

	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}
