// ABOUTME: Output types and conversions shared by the MCP tool handlers
// ABOUTME: Renders models as flat JSON-friendly structs and validates enumerations
package handlers

import (
	"fmt"
	"time"

	"github.com/harperreed/careo/models"
)

type PersonOutput struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	PrivateNotes   string `json:"private_notes,omitempty"`
	PipelineType   string `json:"pipeline_type,omitempty"`
	PipelineStage  string `json:"pipeline_stage,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Birthday       string `json:"birthday,omitempty"`
	SpouseName     string `json:"spouse_name,omitempty"`
	ChildrenNames  string `json:"children_names,omitempty"`
	PrayerRequests string `json:"prayer_requests,omitempty"`
	Interests      string `json:"interests,omitempty"`
}

type InteractionOutput struct {
	ID       int64  `json:"id"`
	PersonID int64  `json:"person_id"`
	Type     string `json:"type"`
	Notes    string `json:"notes,omitempty"`
	Date     string `json:"date"`
}

type TaskOutput struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DueDate         string `json:"due_date"`
	IsCompleted     bool   `json:"is_completed"`
	RelatedPersonID *int64 `json:"related_person_id,omitempty"`
	Type            string `json:"type"`
}

type DeleteOutput struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func personToOutput(p *models.Person) PersonOutput {
	out := PersonOutput{
		ID:             p.ID,
		Name:           p.Name,
		Status:         string(p.Status),
		PrivateNotes:   p.PrivateNotes,
		PipelineType:   p.PipelineType,
		PipelineStage:  p.PipelineStage,
		Email:          p.Email,
		Phone:          p.Phone,
		Address:        p.Address,
		SpouseName:     p.SpouseName,
		ChildrenNames:  p.ChildrenNames,
		PrayerRequests: p.PrayerRequests,
		Interests:      p.Interests,
	}
	if p.Birthday != nil {
		out.Birthday = models.FormatDate(*p.Birthday)
	}
	return out
}

func interactionToOutput(in *models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:       in.ID,
		PersonID: in.PersonID,
		Type:     string(in.Type),
		Notes:    in.Notes,
		Date:     models.FormatTimestamp(in.Date),
	}
}

func taskToOutput(t *models.Task) TaskOutput {
	return TaskOutput{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		DueDate:         models.FormatDate(t.DueDate),
		IsCompleted:     t.IsCompleted,
		RelatedPersonID: t.RelatedPersonID,
		Type:            string(t.Type),
	}
}

func tasksToOutput(tasks []models.Task) []TaskOutput {
	out := make([]TaskOutput, len(tasks))
	for i := range tasks {
		out[i] = taskToOutput(&tasks[i])
	}
	return out
}

func validateStatus(status string) error {
	if !models.Status(status).Known() {
		return fmt.Errorf("unknown status %q (valid: %v)", status, models.Statuses)
	}
	return nil
}

func validateInteractionType(kind string) error {
	if !models.InteractionType(kind).Known() {
		return fmt.Errorf("unknown interaction type %q (valid: %v)", kind, models.InteractionTypes)
	}
	return nil
}

// parseDay parses YYYY-MM-DD; empty means today.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return models.Today(), nil
	}
	day, err := time.ParseInLocation(models.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return day, nil
}

// parseWhen accepts RFC 3339 or YYYY-MM-DD; empty means now.
func parseWhen(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := models.ParseTimestamp(value); err == nil {
		return t, nil
	}
	return parseDay(value)
}
