package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// maxDetailInteractions caps the history shown on the detail screen
const maxDetailInteractions = 10

func (m Model) renderDetailView() string {
	var s strings.Builder

	person, err := db.GetPerson(m.db, m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if person == nil {
		return fmt.Sprintf("Person %d not found\n\n%s", m.selectedID, m.renderDetailHelp())
	}

	// Title
	s.WriteString(titleStyle.Render(strings.ToUpper(person.Name)))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Status", string(person.Status)))
	if person.PipelineType != "" {
		s.WriteString(m.renderField("Pipeline", person.PipelineType+" / "+person.PipelineStage))
	}
	s.WriteString(m.renderField("Email", person.Email))
	s.WriteString(m.renderField("Phone", person.Phone))
	s.WriteString(m.renderField("Address", person.Address))
	if person.Birthday != nil {
		s.WriteString(m.renderField("Birthday", models.FormatDate(*person.Birthday)))
	}
	s.WriteString(m.renderField("Spouse", person.SpouseName))
	s.WriteString(m.renderField("Children", person.ChildrenNames))
	s.WriteString(m.renderField("Interests", person.Interests))
	s.WriteString(m.renderField("Prayer Requests", person.PrayerRequests))
	s.WriteString(m.renderField("Notes", person.PrivateNotes))

	// Related entities
	s.WriteString("\n")
	s.WriteString(m.renderInteractions(person.ID))
	s.WriteString("\n")
	s.WriteString(m.renderPersonTasks(person.ID))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	s.WriteString("\n")

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		return ""
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderInteractions(personID int64) string {
	interactions, err := db.ListInteractions(m.db, personID)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	var s strings.Builder
	s.WriteString(fieldLabelStyle.Render(fmt.Sprintf("Interactions (%d)", len(interactions))))
	s.WriteString("\n")
	for i, interaction := range interactions {
		if i == maxDetailInteractions {
			s.WriteString("  ...\n")
			break
		}
		line := fmt.Sprintf("  %s  %-8s %s", models.FormatDate(interaction.Date.Local()), interaction.Type, interaction.Notes)
		s.WriteString(line)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderPersonTasks(personID int64) string {
	tasks, err := db.ListTasksForPerson(m.db, personID)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	var s strings.Builder
	s.WriteString(fieldLabelStyle.Render(fmt.Sprintf("Tasks (%d)", len(tasks))))
	s.WriteString("\n")
	for _, task := range tasks {
		line := fmt.Sprintf("  %s %s  %s", checkbox(task.IsCompleted), models.FormatDate(task.DueDate), task.Title)
		switch {
		case task.IsCompleted:
			line = doneStyle.Render(line)
		case task.DueDate.Before(m.day):
			line = overdueStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"e: Edit",
		"d: Delete",
		"g: Graph",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.err = nil
	case "e":
		m.initFormInputs()
		m.viewMode = ViewEdit
	case "d":
		m.viewMode = ViewConfirmDelete
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
		} else {
			m.viewMode = ViewGraph
		}
	}

	return m, nil
}
