// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server so agents can read and update the store over stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/harperreed/careo/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds the MCP server with every tool registered.
func NewMCPServer(db *sql.DB, version string) *mcp.Server {
	people := handlers.NewPeopleHandlers(db)
	interactions := handlers.NewInteractionHandlers(db)
	tasks := handlers.NewTaskHandlers(db)
	pipelines := handlers.NewPipelineHandlers(db)
	vizHandlers := handlers.NewVizHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "careo",
		Version: version,
	}, nil)

	// People
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_person",
		Description: "Add a person to track (name and status required)",
	}, people.AddPerson)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_people",
		Description: "List everyone, optionally filtered by status or pipeline",
	}, people.ListPeople)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_person",
		Description: "Get one person with their interactions and tasks",
	}, people.GetPerson)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_person",
		Description: "Update fields of a person; fields not given are left unchanged",
	}, people.UpdatePerson)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_person",
		Description: "Delete a person and their interactions; their tasks are kept but unlinked",
	}, people.DeletePerson)

	// Interactions
	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Record a call, coffee, prayer, meeting, text or email with a person",
	}, interactions.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_interactions",
		Description: "List a person's interactions, newest first",
	}, interactions.ListInteractions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_interaction",
		Description: "Change the date, type or notes of an interaction",
	}, interactions.UpdateInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_interaction",
		Description: "Delete an interaction",
	}, interactions.DeleteInteraction)

	// Tasks
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Create a task with a due date, optionally linked to a person",
	}, tasks.AddTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_agenda",
		Description: "Tasks due on a day plus open overdue tasks",
	}, tasks.GetAgenda)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_task_completed",
		Description: "Mark a task done or not done",
	}, tasks.SetTaskCompleted)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_birthday_tasks",
		Description: "Create birthday reminder tasks for everyone celebrating on a day",
	}, tasks.GenerateBirthdayTasks)

	// Pipelines
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pipeline_board",
		Description: "Show who is in each stage of a pipeline",
	}, pipelines.GetBoard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_stage",
		Description: "Move a person to a pipeline stage",
	}, pipelines.MoveStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate GraphViz DOT source for a pipeline board or a person's history",
	}, vizHandlers.GenerateGraph)

	handlers.NewResourceHandlers(db).Register(server)
	handlers.NewPromptHandlers(db).Register(server)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB, logger *log.Logger, version string) error {
	logger.Info("Starting careo MCP server")

	server := NewMCPServer(db, version)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
