// ABOUTME: MCP prompt handlers for reusable relationship workflows
// ABOUTME: Provides person summaries, follow-up suggestions and a weekly review
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "person-summary":
		return h.getPersonSummaryPrompt(arguments)
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt()
	case "weekly-review":
		return h.getWeeklyReviewPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) getPersonSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["person_id"]
	if !ok {
		return nil, fmt.Errorf("person_id is required")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid person_id: %w", err)
	}

	person, err := db.GetPerson(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch person: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("person not found: %d", id)
	}

	interactions, err := db.ListInteractions(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	var text strings.Builder
	text.WriteString("Please summarise my relationship with this person:\n\n")
	text.WriteString(fmt.Sprintf("Name: %s\n", person.Name))
	text.WriteString(fmt.Sprintf("Status: %s\n", person.Status))
	if person.PipelineType != "" {
		text.WriteString(fmt.Sprintf("Pipeline: %s (stage: %s)\n", person.PipelineType, person.PipelineStage))
	}
	if person.SpouseName != "" {
		text.WriteString(fmt.Sprintf("Spouse: %s\n", person.SpouseName))
	}
	if person.ChildrenNames != "" {
		text.WriteString(fmt.Sprintf("Children: %s\n", person.ChildrenNames))
	}
	if person.Interests != "" {
		text.WriteString(fmt.Sprintf("Interests: %s\n", person.Interests))
	}
	if person.PrayerRequests != "" {
		text.WriteString(fmt.Sprintf("Prayer requests: %s\n", person.PrayerRequests))
	}
	if person.PrivateNotes != "" {
		text.WriteString(fmt.Sprintf("Notes: %s\n", person.PrivateNotes))
	}

	text.WriteString(fmt.Sprintf("\nInteractions (%d, newest first):\n", len(interactions)))
	for i, in := range interactions {
		if i == 10 {
			text.WriteString("  ...\n")
			break
		}
		text.WriteString(fmt.Sprintf("  - %s %s: %s\n", models.FormatDate(in.Date.Local()), in.Type, in.Notes))
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. A short summary of where this relationship stands")
	text.WriteString("\n2. Suggested next steps")
	text.WriteString("\n3. Anything worth remembering before we next talk")

	return userPrompt(fmt.Sprintf("Summary for %s", person.Name), text.String()), nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt() (*mcp.GetPromptResult, error) {
	people, err := db.ListPeople(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	now := time.Now()
	var text strings.Builder
	text.WriteString("Here is when I last connected with each person:\n\n")
	for _, p := range people {
		interactions, err := db.ListInteractions(h.db, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch interactions: %w", err)
		}
		if len(interactions) == 0 {
			text.WriteString(fmt.Sprintf("- %s (%s): never\n", p.Name, p.Status))
			continue
		}
		days := int(now.Sub(interactions[0].Date).Hours() / 24)
		text.WriteString(fmt.Sprintf("- %s (%s): %d days ago by %s\n", p.Name, p.Status, days, interactions[0].Type))
	}

	text.WriteString("\nWho should I reach out to this week, and how? Prioritise people I have not contacted in a while.")

	return userPrompt("Follow-up suggestions", text.String()), nil
}

func (h *PromptHandlers) getWeeklyReviewPrompt() (*mcp.GetPromptResult, error) {
	today := models.Today()
	tasks, err := db.ListDueTasks(h.db, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agenda: %w", err)
	}

	people, err := db.ListPeople(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Weekly review for %s\n\n", models.FormatDate(today)))

	text.WriteString(fmt.Sprintf("Open agenda (%d tasks):\n", len(tasks)))
	for _, t := range tasks {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		text.WriteString(fmt.Sprintf("  - [%s] %s (due %s)\n", mark, t.Title, models.FormatDate(t.DueDate)))
	}

	for i := range models.Pipelines {
		p := &models.Pipelines[i]
		text.WriteString(fmt.Sprintf("\n%s pipeline:\n", p.Name))
		for _, column := range models.BuildBoard(p, people) {
			text.WriteString(fmt.Sprintf("  %s: %d\n", column.Stage, len(column.People)))
		}
	}

	text.WriteString("\nHelp me plan the coming week: what should I finish, who should I move forward, and who needs care?")

	return userPrompt("Weekly review", text.String()), nil
}

// Register adds the prompts to server.
func (h *PromptHandlers) Register(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "person-summary",
		Description: "Summarise a relationship and suggest next steps",
		Arguments: []*mcp.PromptArgument{
			{Name: "person_id", Description: "Person ID", Required: true},
		},
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Suggest who to reach out to next",
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "weekly-review",
		Description: "Review the agenda and pipelines for the week",
	}, h.GetPrompt)
}
