// ABOUTME: Data models for relationship tracking entities
// ABOUTME: Defines Person, Interaction, and Task structs plus their string enumerations
package models

import (
	"time"
)

// DateLayout is the calendar-only format used for birthdays and due dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the fixed-width UTC format used for interaction dates.
// Fixed width keeps lexical ordering in SQL equal to chronological ordering.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Person struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Status        Status     `json:"status"`
	PrivateNotes  string     `json:"private_notes,omitempty"`
	PipelineType  string     `json:"pipeline_type,omitempty"`
	PipelineStage string     `json:"pipeline_stage,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	SpouseName    string     `json:"spouse_name,omitempty"`
	// ChildrenNames is comma-joined free text.
	ChildrenNames  string `json:"children_names,omitempty"`
	PrayerRequests string `json:"prayer_requests,omitempty"`
	Interests      string `json:"interests,omitempty"`
}

type Interaction struct {
	ID       int64           `json:"id"`
	PersonID int64           `json:"person_id"`
	Type     InteractionType `json:"type"`
	Notes    string          `json:"notes,omitempty"`
	Date     time.Time       `json:"date"`
}

type Task struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DueDate         time.Time `json:"due_date"`
	IsCompleted     bool      `json:"is_completed"`
	RelatedPersonID *int64    `json:"related_person_id,omitempty"`
	Type            TaskType  `json:"type"`
}

// Status classifies a relationship. Persisted as free text.
type Status string

const (
	StatusPartner  Status = "Partner"
	StatusFriend   Status = "Friend"
	StatusFamily   Status = "Family"
	StatusMentor   Status = "Mentor"
	StatusDisciple Status = "Disciple"
)

// Statuses lists the statuses offered by the UI, in display order.
var Statuses = []Status{StatusPartner, StatusFriend, StatusFamily, StatusMentor, StatusDisciple}

// Known reports whether s is one of the statuses offered by the UI.
func (s Status) Known() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// InteractionType categorises an interaction. Persisted as free text.
type InteractionType string

const (
	InteractionCall    InteractionType = "Call"
	InteractionCoffee  InteractionType = "Coffee"
	InteractionPrayer  InteractionType = "Prayer"
	InteractionMeeting InteractionType = "Meeting"
	InteractionText    InteractionType = "Text"
	InteractionEmail   InteractionType = "Email"
)

var InteractionTypes = []InteractionType{
	InteractionCall, InteractionCoffee, InteractionPrayer,
	InteractionMeeting, InteractionText, InteractionEmail,
}

func (t InteractionType) Known() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TaskType records where a task came from.
type TaskType string

const (
	TaskManual   TaskType = "manual"
	TaskSystem   TaskType = "system"
	TaskBirthday TaskType = "birthday"
)

func (t TaskType) Known() bool {
	switch t {
	case TaskManual, TaskSystem, TaskBirthday:
		return true
	}
	return false
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders the calendar date of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseTimestamp accepts TimestampLayout as well as any RFC 3339 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Today returns midnight of the current local day.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
