// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms removing a person, which also removes their interactions
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/careo/db"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	person, err := db.GetPerson(m.db, m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error loading person: %v", err)
	}
	if person == nil {
		return fmt.Sprintf("Person %d not found", m.selectedID)
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := "Are you sure you want to delete this person?"
	entityInfo := fmt.Sprintf("\nPERSON: %s\n", person.Name)
	warning := "\nTheir interactions are deleted too. Their tasks are kept.\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := db.DeletePerson(m.db, m.selectedID); err != nil {
			m.err = err
			m.message = ""
		} else {
			m.err = nil
			m.message = "Successfully deleted"
		}
		m.selectedID = 0
		m.viewMode = ViewList
		m.reload()
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
