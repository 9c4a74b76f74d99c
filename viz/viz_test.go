package viz

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "viz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seed(t *testing.T, database *sql.DB, now time.Time) (alice, bob *models.Person) {
	t.Helper()

	birthday := time.Date(1990, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 3)
	alice = &models.Person{
		Name:          "Alice",
		Status:        models.StatusPartner,
		PipelineType:  models.PipelineSupportRaising,
		PipelineStage: "Ask",
		Birthday:      &birthday,
	}
	_, err := db.CreatePerson(database, alice)
	require.NoError(t, err)

	bob = &models.Person{Name: "Bob", Status: models.StatusFriend, PipelineType: models.PipelineEvangelism}
	_, err = db.CreatePerson(database, bob)
	require.NoError(t, err)

	_, err = db.CreateInteraction(database, &models.Interaction{
		PersonID: alice.ID, Type: models.InteractionCoffee, Date: now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	for _, task := range []models.Task{
		{Title: "Today", DueDate: now, Type: models.TaskManual, RelatedPersonID: &alice.ID},
		{Title: "Late", DueDate: now.AddDate(0, 0, -2), Type: models.TaskManual},
		{Title: "Late but done", DueDate: now.AddDate(0, 0, -2), IsCompleted: true, Type: models.TaskManual},
	} {
		task := task
		_, err := db.CreateTask(database, &task)
		require.NoError(t, err)
	}
	return alice, bob
}

func TestGenerateDashboardStats(t *testing.T) {
	database := setupTestDB(t)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	seed(t, database, now)

	stats, err := GenerateDashboardStats(database, now)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalPeople)
	assert.Equal(t, 1, stats.PeopleByStatus[models.StatusPartner])
	assert.Equal(t, 1, stats.PeopleByStatus[models.StatusFriend])
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 1, stats.Overdue)

	support := stats.Pipelines[models.PipelineSupportRaising]
	require.Len(t, support, 5)
	assert.Equal(t, StageCount{Stage: "Ask", Count: 1}, support[2])

	// Bob has no stage, so he lands in the first Evangelism stage.
	evangelism := stats.Pipelines[models.PipelineEvangelism]
	assert.Equal(t, StageCount{Stage: "Identify", Count: 1}, evangelism[0])

	require.Len(t, stats.UpcomingBirthdays, 1)
	assert.Equal(t, "Alice", stats.UpcomingBirthdays[0].Name)
	assert.Equal(t, 3, stats.UpcomingBirthdays[0].InDays)

	require.Len(t, stats.StalePeople, 1)
	assert.Equal(t, StalePerson{Name: "Bob", DaysSince: -1}, stats.StalePeople[0])
}

func TestNextBirthday(t *testing.T) {
	today := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

	next, days := nextBirthday(time.Date(1980, 3, 1, 0, 0, 0, 0, time.UTC), today)
	assert.Equal(t, 0, days)
	assert.Equal(t, today, next)

	next, days = nextBirthday(time.Date(1980, 2, 28, 0, 0, 0, 0, time.UTC), today)
	assert.Equal(t, 2024, next.Year())
	assert.Equal(t, 364, days)

	leap := time.Date(1992, 2, 29, 0, 0, 0, 0, time.UTC)
	next, _ = nextBirthday(leap, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), next)
	next, _ = nextBirthday(leap, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), next)
}

func TestRenderDashboard(t *testing.T) {
	database := setupTestDB(t)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	seed(t, database, now)

	stats, err := GenerateDashboardStats(database, now)
	require.NoError(t, err)

	out := RenderDashboard(stats)
	assert.Contains(t, out, "CAREO DASHBOARD")
	assert.Contains(t, out, "1 due today")
	assert.Contains(t, out, "1 overdue")
	assert.Contains(t, out, "SUPPORT RAISING")
	assert.Contains(t, out, "Alice in 3 days")
	assert.Contains(t, out, "NEEDS ATTENTION")
}

func TestGeneratePipelineGraph(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database, time.Now())

	gen := NewGraphGenerator(database)
	dot, err := gen.GeneratePipelineGraph(context.Background(), models.PipelineSupportRaising)
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Alice")
	assert.NotContains(t, dot, "Bob", "Bob is in another pipeline")

	all, err := gen.GeneratePipelineGraph(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, all, "Bob")

	_, err = gen.GeneratePipelineGraph(context.Background(), "Nope")
	assert.Error(t, err)
}

func TestGeneratePersonGraph(t *testing.T) {
	database := setupTestDB(t)
	alice, _ := seed(t, database, time.Now())

	gen := NewGraphGenerator(database)
	dot, err := gen.GeneratePersonGraph(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Contains(t, dot, "Alice")
	assert.Contains(t, dot, "Coffee")
	assert.Contains(t, dot, "Today")

	_, err = gen.GeneratePersonGraph(context.Background(), 9999)
	assert.Error(t, err)
}
