// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements add_task, get_agenda, set_task_completed and generate_birthday_tasks
package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TaskHandlers struct {
	db *sql.DB
}

func NewTaskHandlers(database *sql.DB) *TaskHandlers {
	return &TaskHandlers{db: database}
}

type AddTaskInput struct {
	Title           string `json:"title" jsonschema:"Task title (required)"`
	Description     string `json:"description,omitempty" jsonschema:"Details"`
	DueDate         string `json:"due_date,omitempty" jsonschema:"Due date as YYYY-MM-DD (default: today)"`
	RelatedPersonID *int64 `json:"related_person_id,omitempty" jsonschema:"Person this task is about"`
}

func (h *TaskHandlers) AddTask(_ context.Context, request *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.Title == "" {
		return nil, TaskOutput{}, fmt.Errorf("title is required")
	}
	due, err := parseDay(input.DueDate)
	if err != nil {
		return nil, TaskOutput{}, err
	}

	task := &models.Task{
		Title:           input.Title,
		Description:     input.Description,
		DueDate:         due,
		RelatedPersonID: input.RelatedPersonID,
		Type:            models.TaskManual,
	}
	if _, err := db.CreateTask(h.db, task); err != nil {
		if errors.Is(err, db.ErrDanglingReference) {
			return nil, TaskOutput{}, fmt.Errorf("person not found: %d", *input.RelatedPersonID)
		}
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	return nil, taskToOutput(task), nil
}

type GetAgendaInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD (default: today)"`
}

type AgendaOutput struct {
	Date  string       `json:"date"`
	Tasks []TaskOutput `json:"tasks"`
}

func (h *TaskHandlers) GetAgenda(_ context.Context, request *mcp.CallToolRequest, input GetAgendaInput) (*mcp.CallToolResult, AgendaOutput, error) {
	day, err := parseDay(input.Date)
	if err != nil {
		return nil, AgendaOutput{}, err
	}

	tasks, err := db.ListDueTasks(h.db, day)
	if err != nil {
		return nil, AgendaOutput{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return nil, AgendaOutput{Date: models.FormatDate(day), Tasks: tasksToOutput(tasks)}, nil
}

type SetTaskCompletedInput struct {
	ID          int64 `json:"id" jsonschema:"Task ID (required)"`
	IsCompleted bool  `json:"is_completed" jsonschema:"True to mark done, false to reopen"`
}

func (h *TaskHandlers) SetTaskCompleted(_ context.Context, request *mcp.CallToolRequest, input SetTaskCompletedInput) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := db.GetTask(h.db, input.ID)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, TaskOutput{}, fmt.Errorf("task not found: %d", input.ID)
	}

	if err := db.ToggleTask(h.db, input.ID, input.IsCompleted); err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to update task: %w", err)
	}
	task.IsCompleted = input.IsCompleted

	return nil, taskToOutput(task), nil
}

type GenerateBirthdayTasksInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD (default: today)"`
}

type GenerateBirthdayTasksOutput struct {
	Created []TaskOutput `json:"created"`
}

func (h *TaskHandlers) GenerateBirthdayTasks(_ context.Context, request *mcp.CallToolRequest, input GenerateBirthdayTasksInput) (*mcp.CallToolResult, GenerateBirthdayTasksOutput, error) {
	day, err := parseDay(input.Date)
	if err != nil {
		return nil, GenerateBirthdayTasksOutput{}, err
	}

	created, err := db.GenerateBirthdayTasks(h.db, day)
	if err != nil {
		return nil, GenerateBirthdayTasksOutput{}, fmt.Errorf("failed to generate birthday tasks: %w", err)
	}

	return nil, GenerateBirthdayTasksOutput{Created: tasksToOutput(created)}, nil
}
