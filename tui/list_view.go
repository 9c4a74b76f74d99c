package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(18)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("CAREO"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.tab {
	case TabAgenda:
		s.WriteString(m.renderAgendaTable())
	case TabPeople:
		s.WriteString(m.renderPeopleTable())
	case TabPipelines:
		s.WriteString(m.renderBoard())
	}
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	} else if m.message != "" {
		s.WriteString(m.message)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) tableHeight() int {
	return max(m.height-12, 3)
}

func (m Model) renderAgendaTable() string {
	if len(m.tasks) == 0 {
		return fmt.Sprintf("Nothing due on %s.\n", models.FormatDate(m.day))
	}

	columns := []table.Column{
		{Title: "Done", Width: 5},
		{Title: "Due", Width: 12},
		{Title: "Task", Width: 36},
		{Title: "Person", Width: 20},
	}

	var rows []table.Row
	for _, task := range m.tasks {
		due := models.FormatDate(task.DueDate)
		if !task.IsCompleted && task.DueDate.Before(m.day) {
			due += " !"
		}
		rows = append(rows, table.Row{
			checkbox(task.IsCompleted),
			due,
			task.Title,
			m.personName(task.RelatedPersonID),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderPeopleTable() string {
	if len(m.people) == 0 {
		return "No people yet. Press n to add someone.\n"
	}

	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Pipeline", Width: 16},
		{Title: "Stage", Width: 12},
		{Title: "Phone", Width: 14},
	}

	var rows []table.Row
	for _, person := range m.people {
		rows = append(rows, table.Row{
			person.Name,
			string(person.Status),
			person.PipelineType,
			person.PipelineStage,
			person.Phone,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) currentPipeline() *models.Pipeline {
	return &models.Pipelines[m.pipeline]
}

// boardPeople flattens the board in column order so the cursor can walk it
func (m Model) boardPeople() []models.Person {
	var out []models.Person
	for _, column := range models.BuildBoard(m.currentPipeline(), m.people) {
		out = append(out, column.People...)
	}
	return out
}

func (m Model) renderBoard() string {
	pipeline := m.currentPipeline()
	selected := int64(0)
	if people := m.boardPeople(); m.selectedRow < len(people) {
		selected = people[m.selectedRow].ID
	}

	var columns []string
	for _, column := range models.BuildBoard(pipeline, m.people) {
		var body strings.Builder
		body.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%s (%d)", column.Stage, len(column.People))))
		for _, person := range column.People {
			body.WriteString("\n")
			if person.ID == selected {
				body.WriteString(selectedStyle.Render(person.Name))
			} else {
				body.WriteString(person.Name)
			}
		}
		columns = append(columns, columnStyle.Render(body.String()))
	}

	return pipeline.Name + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, columns...) + "\n"
}

func (m Model) renderListHelp() string {
	var help []string
	switch m.tab {
	case TabAgenda:
		help = []string{"↑/↓: Navigate", "Space: Toggle done", "Enter: Person"}
	case TabPeople:
		help = []string{"↑/↓: Navigate", "Enter: View details", "n: New", "d: Delete"}
	case TabPipelines:
		help = []string{"↑/↓: Navigate", "←/→: Move stage", "p: Next pipeline", "Enter: View details"}
	}
	help = append(help, "Tab: Switch tabs", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabAgenda:
		return len(m.tasks)
	case TabPeople:
		return len(m.people)
	case TabPipelines:
		return len(m.boardPeople())
	}
	return 0
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "p":
		if m.tab == TabPipelines {
			m.pipeline = (m.pipeline + 1) % len(models.Pipelines)
			m.selectedRow = 0
		}
	case " ", "x":
		if m.tab == TabAgenda {
			m.toggleSelectedTask()
		}
	case "left", "h":
		if m.tab == TabPipelines {
			m.moveSelectedPerson(-1)
		}
	case "right", "l":
		if m.tab == TabPipelines {
			m.moveSelectedPerson(1)
		}
	case "enter":
		if id := m.getSelectedPersonID(); id != 0 {
			m.viewMode = ViewDetail
			m.selectedID = id
		}
	case "n":
		if m.tab == TabPeople {
			m.selectedID = 0
			m.initFormInputs()
			m.viewMode = ViewEdit
		}
	case "d":
		if m.tab == TabPeople {
			if id := m.getSelectedPersonID(); id != 0 {
				m.selectedID = id
				m.viewMode = ViewConfirmDelete
			}
		}
	}

	return m, nil
}

func (m *Model) toggleSelectedTask() {
	if m.selectedRow >= len(m.tasks) {
		return
	}
	task := m.tasks[m.selectedRow]
	if err := db.ToggleTask(m.db, task.ID, !task.IsCompleted); err != nil {
		m.err = err
		return
	}
	m.reload()
}

// moveSelectedPerson shifts the selected board card by delta stages
func (m *Model) moveSelectedPerson(delta int) {
	people := m.boardPeople()
	if m.selectedRow >= len(people) {
		return
	}
	person := people[m.selectedRow]
	pipeline := m.currentPipeline()

	current := 0
	for i, stage := range pipeline.Stages {
		if stage == person.PipelineStage {
			current = i
		}
	}
	next := current + delta
	if next < 0 || next >= len(pipeline.Stages) {
		return
	}

	person.PipelineStage = pipeline.Stages[next]
	if err := db.UpdatePerson(m.db, &person); err != nil {
		m.err = err
		return
	}
	m.message = fmt.Sprintf("Moved %s to %s", person.Name, person.PipelineStage)
	m.reload()

	// Follow the card to its new column
	for i, p := range m.boardPeople() {
		if p.ID == person.ID {
			m.selectedRow = i
		}
	}
}

func (m Model) getSelectedPersonID() int64 {
	switch m.tab {
	case TabAgenda:
		if m.selectedRow < len(m.tasks) && m.tasks[m.selectedRow].RelatedPersonID != nil {
			return *m.tasks[m.selectedRow].RelatedPersonID
		}
	case TabPeople:
		if m.selectedRow < len(m.people) {
			return m.people[m.selectedRow].ID
		}
	case TabPipelines:
		if people := m.boardPeople(); m.selectedRow < len(people) {
			return people[m.selectedRow].ID
		}
	}
	return 0
}

func (m Model) personName(id *int64) string {
	if id == nil {
		return ""
	}
	for _, person := range m.people {
		if person.ID == *id {
			return person.Name
		}
	}
	return ""
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
