package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCLI(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// captureOutput runs fn with stdout redirected and returns what it printed.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := fn()
	_ = w.Close()
	return <-done, runErr
}

func TestAddAndShowPerson(t *testing.T) {
	database := setupTestCLI(t)

	out, err := captureOutput(t, func() error {
		return AddPersonCommand(database, []string{
			"--name", "Alice", "--status", "Partner",
			"--pipeline", models.PipelineSupportRaising, "--stage", "Ask",
			"--birthday", "1985-04-12", "--email", "alice@example.com",
		})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Person added: Alice")

	people, err := db.ListPeople(database)
	require.NoError(t, err)
	require.Len(t, people, 1)
	alice := people[0]
	assert.Equal(t, models.StatusPartner, alice.Status)
	require.NotNil(t, alice.Birthday)

	out, err = captureOutput(t, func() error {
		return ShowPersonCommand(database, []string{itoa(alice.ID)})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "1985-04-12")
	assert.Contains(t, out, "INTERACTIONS (0)")
}

func TestAddPersonValidation(t *testing.T) {
	database := setupTestCLI(t)

	assert.Error(t, AddPersonCommand(database, []string{"--status", "Friend"}))
	assert.Error(t, AddPersonCommand(database, []string{"--name", "A", "--status", "Boss"}))
	assert.Error(t, AddPersonCommand(database, []string{"--name", "A", "--stage", "Ask"}))
	assert.Error(t, AddPersonCommand(database, []string{"--name", "A", "--birthday", "soon"}))

	count, err := db.CountPeople(database)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdatePersonOnlyChangesGivenFlags(t *testing.T) {
	database := setupTestCLI(t)

	person := &models.Person{Name: "Bob", Status: models.StatusFriend, Email: "bob@example.com", Phone: "555-0100"}
	_, err := db.CreatePerson(database, person)
	require.NoError(t, err)

	_, err = captureOutput(t, func() error {
		return UpdatePersonCommand(database, []string{"--phone", "555-0199", itoa(person.ID)})
	})
	require.NoError(t, err)

	updated, err := db.GetPerson(database, person.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "bob@example.com", updated.Email)

	_, err = captureOutput(t, func() error {
		return UpdatePersonCommand(database, []string{"--email", "", itoa(person.ID)})
	})
	require.NoError(t, err)
	updated, err = db.GetPerson(database, person.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Email)

	assert.Error(t, UpdatePersonCommand(database, []string{itoa(person.ID)}), "no flags")
	assert.Error(t, UpdatePersonCommand(database, []string{"--name", "X", "999"}))
}

func TestInteractionCommands(t *testing.T) {
	database := setupTestCLI(t)
	person := &models.Person{Name: "Carol", Status: models.StatusFamily}
	_, err := db.CreatePerson(database, person)
	require.NoError(t, err)

	_, err = captureOutput(t, func() error {
		return LogInteractionCommand(database, []string{
			"--person", itoa(person.ID), "--type", "Coffee", "--notes", "Catch up", "--date", "2024-05-01",
		})
	})
	require.NoError(t, err)

	err = LogInteractionCommand(database, []string{"--person", "999", "--type", "Call"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "person not found")

	assert.Error(t, LogInteractionCommand(database, []string{"--person", itoa(person.ID), "--type", "Fax"}))

	out, err := captureOutput(t, func() error {
		return ListInteractionsCommand(database, []string{itoa(person.ID)})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Catch up")

	interactions, err := db.ListInteractions(database, person.ID)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	id := interactions[0].ID

	_, err = captureOutput(t, func() error {
		return UpdateInteractionCommand(database, []string{"--type", "Prayer", itoa(id)})
	})
	require.NoError(t, err)
	updated, err := db.GetInteraction(database, id)
	require.NoError(t, err)
	assert.Equal(t, models.InteractionPrayer, updated.Type)
	assert.Equal(t, "Catch up", updated.Notes)

	_, err = captureOutput(t, func() error {
		return DeleteInteractionCommand(database, []string{itoa(id)})
	})
	require.NoError(t, err)
	gone, err := db.GetInteraction(database, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTaskCommandsAndAgenda(t *testing.T) {
	database := setupTestCLI(t)

	birthday := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)
	person := &models.Person{Name: "Dana", Status: models.StatusFriend, Birthday: &birthday}
	_, err := db.CreatePerson(database, person)
	require.NoError(t, err)

	_, err = captureOutput(t, func() error {
		return AddTaskCommand(database, []string{"--title", "Send card", "--due", "2024-03-15", "--person", itoa(person.ID)})
	})
	require.NoError(t, err)
	_, err = captureOutput(t, func() error {
		return AddTaskCommand(database, []string{"--title", "Old thing", "--due", "2024-03-01"})
	})
	require.NoError(t, err)

	out, err := captureOutput(t, func() error {
		return AgendaCommand(database, []string{"--date", "2024-03-15"})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Send card")
	assert.Contains(t, out, "Old thing")
	assert.Contains(t, out, "(overdue)")
	assert.Contains(t, out, "Birthday: Dana")
	assert.Contains(t, out, "Dana")

	tasks, err := db.ListDueTasks(database, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	old := tasks[0]
	require.Equal(t, "Old thing", old.Title)
	_, err = captureOutput(t, func() error {
		return CompleteTaskCommand(database, []string{itoa(old.ID)})
	})
	require.NoError(t, err)

	tasks, err = db.ListDueTasks(database, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "completed overdue task leaves the agenda")

	_, err = captureOutput(t, func() error {
		return ReopenTaskCommand(database, []string{itoa(old.ID)})
	})
	require.NoError(t, err)
	reopened, err := db.GetTask(database, old.ID)
	require.NoError(t, err)
	assert.False(t, reopened.IsCompleted)

	assert.Error(t, CompleteTaskCommand(database, []string{"999"}))
	assert.Error(t, AddTaskCommand(database, []string{"--title", "x", "--person", "999"}))
}

func TestBirthdaysCommandIsIdempotent(t *testing.T) {
	database := setupTestCLI(t)

	birthday := time.Date(1990, 7, 4, 0, 0, 0, 0, time.UTC)
	_, err := db.CreatePerson(database, &models.Person{Name: "Eve", Status: models.StatusFriend, Birthday: &birthday})
	require.NoError(t, err)

	out, err := captureOutput(t, func() error {
		return BirthdaysCommand(database, []string{"--date", "2024-07-04"})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Birthday: Eve")

	out, err = captureOutput(t, func() error {
		return BirthdaysCommand(database, []string{"--date", "2024-07-04"})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No new birthday reminders")
}

func TestPipelineCommands(t *testing.T) {
	database := setupTestCLI(t)
	person := &models.Person{Name: "Frank", Status: models.StatusDisciple, PipelineType: models.PipelineEvangelism}
	_, err := db.CreatePerson(database, person)
	require.NoError(t, err)

	_, err = captureOutput(t, func() error {
		return MoveStageCommand(database, []string{"--stage", "Share", itoa(person.ID)})
	})
	require.NoError(t, err)

	moved, err := db.GetPerson(database, person.ID)
	require.NoError(t, err)
	assert.Equal(t, "Share", moved.PipelineStage)

	assert.Error(t, MoveStageCommand(database, []string{"--stage", "Ask", itoa(person.ID)}))

	out, err := captureOutput(t, func() error {
		return PipelineCommand(database, []string{"--name", models.PipelineEvangelism})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "EVANGELISM")
	assert.Contains(t, out, "Frank")

	assert.Error(t, PipelineCommand(database, []string{"--name", "Sales"}))
}

func TestDeletePersonCommand(t *testing.T) {
	database := setupTestCLI(t)
	person := &models.Person{Name: "Gina", Status: models.StatusFriend}
	_, err := db.CreatePerson(database, person)
	require.NoError(t, err)

	out, err := captureOutput(t, func() error {
		return DeletePersonCommand(database, []string{itoa(person.ID)})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Person deleted: Gina")

	assert.Error(t, DeletePersonCommand(database, []string{itoa(person.ID)}))
	assert.Error(t, DeletePersonCommand(database, []string{"abc"}))
}

func TestDashboardAndVizCommands(t *testing.T) {
	database := setupTestCLI(t)
	person := &models.Person{Name: "Hank", Status: models.StatusMentor, PipelineType: models.PipelineEvangelism}
	_, err := db.CreatePerson(database, person)
	require.NoError(t, err)

	out, err := captureOutput(t, func() error { return DashboardCommand(database, nil) })
	require.NoError(t, err)
	assert.Contains(t, out, "CAREO DASHBOARD")

	out, err = captureOutput(t, func() error { return VizPipelineCommand(database, nil) })
	require.NoError(t, err)
	assert.Contains(t, out, "Hank")

	file := filepath.Join(t.TempDir(), "person.dot")
	_, err = captureOutput(t, func() error {
		return VizPersonCommand(database, []string{"--output", file, itoa(person.ID)})
	})
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hank")
}

func TestMCPServerListsTools(t *testing.T) {
	database := setupTestCLI(t)
	ctx := context.Background()

	server := NewMCPServer(database, "test")
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"add_person", "list_people", "get_person", "update_person", "delete_person",
		"log_interaction", "list_interactions", "update_interaction", "delete_interaction",
		"add_task", "get_agenda", "set_task_completed", "generate_birthday_tasks",
		"get_pipeline_board", "move_stage", "generate_graph",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_person",
		Arguments: map[string]any{"name": "Ivy", "status": "Friend"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	count, err := db.CountPeople(database)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
