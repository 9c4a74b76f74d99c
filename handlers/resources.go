// ABOUTME: MCP resource handlers for exposing relationship data
// ABOUTME: Provides read-only access to people, the agenda and pipeline boards via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResourceScheme prefixes every resource URI.
const ResourceScheme = "careo://"

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, ResourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", ResourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, ResourceScheme), "/")

	switch parts[0] {
	case "people":
		if len(parts) == 1 || parts[1] == "" {
			return h.readAllPeople(uri)
		}
		return h.readPerson(uri, parts[1])

	case "agenda":
		return h.readAgenda(uri)

	case "pipelines":
		if len(parts) < 2 {
			return nil, fmt.Errorf("pipeline name required")
		}
		name, err := url.PathUnescape(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid pipeline name: %w", err)
		}
		return h.readPipeline(uri, name)

	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllPeople(uri string) (*mcp.ReadResourceResult, error) {
	people, err := db.ListPeople(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	out := make([]PersonOutput, len(people))
	for i := range people {
		out[i] = personToOutput(&people[i])
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readPerson(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid person ID: %w", err)
	}

	person, err := db.GetPerson(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch person: %w", err)
	}
	if person == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	return jsonResource(uri, personToOutput(person))
}

func (h *ResourceHandlers) readAgenda(uri string) (*mcp.ReadResourceResult, error) {
	today := models.Today()
	tasks, err := db.ListDueTasks(h.db, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agenda: %w", err)
	}

	return jsonResource(uri, AgendaOutput{Date: models.FormatDate(today), Tasks: tasksToOutput(tasks)})
}

func (h *ResourceHandlers) readPipeline(uri, name string) (*mcp.ReadResourceResult, error) {
	pipeline := models.FindPipeline(name)
	if pipeline == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	people, err := db.ListPeople(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	out := BoardOutput{Pipeline: pipeline.Name}
	for _, column := range models.BuildBoard(pipeline, people) {
		col := BoardColumnOutput{Stage: column.Stage, People: make([]PersonOutput, len(column.People))}
		for i := range column.People {
			col.People[i] = personToOutput(&column.People[i])
		}
		out.Columns = append(out.Columns, col)
	}
	return jsonResource(uri, out)
}

// Register adds the resources and resource templates to server.
func (h *ResourceHandlers) Register(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         ResourceScheme + "people",
		Name:        "people",
		Description: "Everyone being tracked",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         ResourceScheme + "agenda",
		Name:        "agenda",
		Description: "Today's tasks plus open overdue tasks",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: ResourceScheme + "people/{id}",
		Name:        "person",
		Description: "One person by ID",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: ResourceScheme + "pipelines/{name}",
		Name:        "pipeline",
		Description: "A pipeline board by name",
		MIMEType:    "application/json",
	}, h.ReadResource)
}
