// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides an interactive full-screen agenda, people list and pipeline board
package tui

import (
	"database/sql"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Tab selects what the list view shows
type Tab int

const (
	TabAgenda Tab = iota
	TabPeople
	TabPipelines
)

var tabNames = []string{"Agenda", "People", "Pipelines"}

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	viewMode ViewMode
	tab      Tab
	day      time.Time

	// List view state
	selectedRow int
	tasks       []models.Task
	people      []models.Person
	pipeline    int

	// Detail view state
	selectedID int64

	// Edit view state
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT string

	// Status line shown under the list
	message string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model showing the agenda for today
func NewModel(database *sql.DB) Model {
	m := Model{
		db:       database,
		viewMode: ViewList,
		tab:      TabAgenda,
		day:      models.Today(),
		width:    80,
		height:   24,
	}
	if _, err := db.GenerateBirthdayTasks(database, m.day); err != nil {
		m.err = err
	}
	m.reload()
	return m
}

// reload refreshes the cached agenda and people list from the store
func (m *Model) reload() {
	tasks, err := db.ListDueTasks(m.db, m.day)
	if err != nil {
		m.err = err
		return
	}
	people, err := db.ListPeople(m.db)
	if err != nil {
		m.err = err
		return
	}
	m.tasks = tasks
	m.people = people

	if n := m.rowCount(); m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// q types into form fields
	if msg.String() == "q" && m.viewMode != ViewEdit {
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Run starts the full-screen program
func Run(database *sql.DB) error {
	p := tea.NewProgram(NewModel(database), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)
)
