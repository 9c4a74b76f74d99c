// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements log_interaction, list_interactions, update_interaction and delete_interaction
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

type InteractionHandlers struct {
	db *sql.DB
}

func NewInteractionHandlers(database *sql.DB) *InteractionHandlers {
	return &InteractionHandlers{db: database}
}

type LogInteractionInput struct {
	PersonID int64  `json:"person_id" jsonschema:"Person ID (required)"`
	Type     string `json:"type" jsonschema:"Call, Coffee, Prayer, Meeting, Text or Email (required)"`
	Notes    string `json:"notes,omitempty" jsonschema:"What happened"`
	Date     string `json:"date,omitempty" jsonschema:"RFC 3339 timestamp or YYYY-MM-DD (default: now)"`
}

func (h *InteractionHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	if err := validateInteractionType(input.Type); err != nil {
		return nil, InteractionOutput{}, err
	}
	date, err := parseWhen(input.Date)
	if err != nil {
		return nil, InteractionOutput{}, err
	}

	interaction := &models.Interaction{
		PersonID: input.PersonID,
		Type:     models.InteractionType(input.Type),
		Notes:    input.Notes,
		Date:     date,
	}
	if _, err := db.CreateInteraction(h.db, interaction); err != nil {
		if errors.Is(err, db.ErrDanglingReference) {
			return nil, InteractionOutput{}, fmt.Errorf("person not found: %d", input.PersonID)
		}
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	return nil, interactionToOutput(interaction), nil
}

type ListInteractionsInput struct {
	PersonID int64 `json:"person_id" jsonschema:"Person ID (required)"`
	Limit    int   `json:"limit,omitempty" jsonschema:"Maximum number of results (default: all)"`
}

type ListInteractionsOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
}

func (h *InteractionHandlers) ListInteractions(_ context.Context, request *mcp.CallToolRequest, input ListInteractionsInput) (*mcp.CallToolResult, ListInteractionsOutput, error) {
	interactions, err := db.ListInteractions(h.db, input.PersonID)
	if err != nil {
		return nil, ListInteractionsOutput{}, fmt.Errorf("failed to list interactions: %w", err)
	}
	if input.Limit > 0 && len(interactions) > input.Limit {
		interactions = interactions[:input.Limit]
	}

	result := make([]InteractionOutput, len(interactions))
	for i := range interactions {
		result[i] = interactionToOutput(&interactions[i])
	}

	return nil, ListInteractionsOutput{Interactions: result}, nil
}

type UpdateInteractionInput struct {
	ID    int64   `json:"id" jsonschema:"Interaction ID (required)"`
	Type  *string `json:"type,omitempty" jsonschema:"New interaction type"`
	Notes *string `json:"notes,omitempty" jsonschema:"New notes"`
	Date  *string `json:"date,omitempty" jsonschema:"New date"`
}

func (h *InteractionHandlers) UpdateInteraction(_ context.Context, request *mcp.CallToolRequest, input UpdateInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	interaction, err := db.GetInteraction(h.db, input.ID)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to get interaction: %w", err)
	}
	if interaction == nil {
		return nil, InteractionOutput{}, fmt.Errorf("interaction not found: %d", input.ID)
	}

	if input.Type != nil {
		if err := validateInteractionType(*input.Type); err != nil {
			return nil, InteractionOutput{}, err
		}
		interaction.Type = models.InteractionType(*input.Type)
	}
	if input.Notes != nil {
		interaction.Notes = *input.Notes
	}
	if input.Date != nil {
		date, err := parseWhen(*input.Date)
		if err != nil {
			return nil, InteractionOutput{}, err
		}
		interaction.Date = date
	}

	if err := db.UpdateInteraction(h.db, interaction); err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to update interaction: %w", err)
	}

	return nil, interactionToOutput(interaction), nil
}

type DeleteInteractionInput struct {
	ID int64 `json:"id" jsonschema:"Interaction ID (required)"`
}

func (h *InteractionHandlers) DeleteInteraction(_ context.Context, request *mcp.CallToolRequest, input DeleteInteractionInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := db.DeleteInteraction(h.db, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete interaction: %w", err)
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}
