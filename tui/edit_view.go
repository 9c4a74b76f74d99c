package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// Form field positions
const (
	fieldName = iota
	fieldStatus
	fieldEmail
	fieldPhone
	fieldBirthday
	fieldPipeline
	fieldStage
	fieldNotes
	fieldCount
)

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	if m.selectedID == 0 {
		s.WriteString(titleStyle.Render("NEW PERSON"))
	} else {
		s.WriteString(titleStyle.Render("EDIT PERSON"))
	}
	s.WriteString("\n\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString("\n")

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Shift+Tab: Previous field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		if m.selectedID == 0 {
			m.viewMode = ViewList
		} else {
			m.viewMode = ViewDetail
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		id, err := m.savePerson()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.selectedID = id
		m.viewMode = ViewDetail
		m.reload()
		return m, nil
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initFormInputs() {
	inputs := make([]textinput.Model, fieldCount)

	placeholders := map[int]string{
		fieldName:     "Name",
		fieldStatus:   "Status (Partner/Friend/Family/Mentor/Disciple)",
		fieldEmail:    "Email",
		fieldPhone:    "Phone",
		fieldBirthday: "Birthday (YYYY-MM-DD)",
		fieldPipeline: "Pipeline (Evangelism/Support Raising)",
		fieldStage:    "Stage",
		fieldNotes:    "Notes",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 100
	}
	inputs[fieldNotes].CharLimit = 500
	inputs[fieldStatus].SetValue(string(models.StatusFriend))

	// If editing, populate fields
	if m.selectedID != 0 {
		person, _ := db.GetPerson(m.db, m.selectedID)
		if person != nil {
			inputs[fieldName].SetValue(person.Name)
			inputs[fieldStatus].SetValue(string(person.Status))
			inputs[fieldEmail].SetValue(person.Email)
			inputs[fieldPhone].SetValue(person.Phone)
			if person.Birthday != nil {
				inputs[fieldBirthday].SetValue(models.FormatDate(*person.Birthday))
			}
			inputs[fieldPipeline].SetValue(person.PipelineType)
			inputs[fieldStage].SetValue(person.PipelineStage)
			inputs[fieldNotes].SetValue(person.PrivateNotes)
		}
	}

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) value(field int) string {
	return strings.TrimSpace(m.formInputs[field].Value())
}

// savePerson writes the form into a new or existing person and returns its ID.
// Fields the form does not show are left as they were.
func (m Model) savePerson() (int64, error) {
	person := &models.Person{}
	if m.selectedID != 0 {
		existing, err := db.GetPerson(m.db, m.selectedID)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return 0, fmt.Errorf("person %d not found", m.selectedID)
		}
		person = existing
	}

	person.Name = m.value(fieldName)
	if person.Name == "" {
		return 0, errors.New("name is required")
	}

	person.Status = models.Status(m.value(fieldStatus))
	if !person.Status.Known() {
		return 0, fmt.Errorf("unknown status %q", person.Status)
	}

	person.Email = m.value(fieldEmail)
	person.Phone = m.value(fieldPhone)
	person.PrivateNotes = m.value(fieldNotes)

	person.Birthday = nil
	if raw := m.value(fieldBirthday); raw != "" {
		birthday, err := models.ParseDate(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid birthday %q (want YYYY-MM-DD)", raw)
		}
		person.Birthday = &birthday
	}

	person.PipelineType = m.value(fieldPipeline)
	person.PipelineStage = m.value(fieldStage)
	if err := models.ValidateStage(person.PipelineType, person.PipelineStage); err != nil {
		return 0, err
	}

	if m.selectedID == 0 {
		return db.CreatePerson(m.db, person)
	}
	return person.ID, db.UpdatePerson(m.db, person)
}
