package db

import (
	"testing"
	"time"

	"github.com/harperreed/careo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBirthdayFallsOn(t *testing.T) {
	leapDay := time.Date(1992, time.February, 29, 0, 0, 0, 0, time.UTC)
	july := time.Date(1980, time.July, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birthday time.Time
		day      time.Time
		want     bool
	}{
		{"same month and day", july, time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), true},
		{"different day", july, time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), false},
		{"leap day in leap year", leapDay, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"leap day not on 28th in leap year", leapDay, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), false},
		{"leap day on 28th in common year", leapDay, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), true},
		{"leap day in century common year", leapDay, time.Date(2100, 2, 28, 0, 0, 0, 0, time.UTC), true},
		{"leap day in 2000", leapDay, time.Date(2000, 2, 28, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, birthdayFallsOn(tt.birthday, tt.day))
		})
	}
}

func TestGenerateBirthdayTasks(t *testing.T) {
	db := setupTestDB(t)

	july := time.Date(1980, time.July, 4, 0, 0, 0, 0, time.UTC)
	march := time.Date(1975, time.March, 9, 0, 0, 0, 0, time.UTC)

	alice := &models.Person{Name: "Alice", Status: models.StatusFriend, Birthday: &july}
	_, err := CreatePerson(db, alice)
	require.NoError(t, err)
	_, err = CreatePerson(db, &models.Person{Name: "Bob", Status: models.StatusFamily, Birthday: &march})
	require.NoError(t, err)
	_, err = CreatePerson(db, &models.Person{Name: "Carol", Status: models.StatusFriend})
	require.NoError(t, err)

	day := time.Date(2024, time.July, 4, 8, 0, 0, 0, time.UTC)
	created, err := GenerateBirthdayTasks(db, day)
	require.NoError(t, err)
	require.Len(t, created, 1)

	task := created[0]
	assert.Equal(t, "Birthday: Alice", task.Title)
	assert.Equal(t, models.TaskBirthday, task.Type)
	require.NotNil(t, task.RelatedPersonID)
	assert.Equal(t, alice.ID, *task.RelatedPersonID)
	assert.Equal(t, "2024-07-04", models.FormatDate(task.DueDate))

	stored, err := GetTask(db, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, task, *stored)

	agenda, err := ListDueTasks(db, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"Birthday: Alice"}, taskTitles(agenda))
}

func TestGenerateBirthdayTasksIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	july := time.Date(1980, time.July, 4, 0, 0, 0, 0, time.UTC)
	_, err := CreatePerson(db, &models.Person{Name: "Alice", Status: models.StatusFriend, Birthday: &july})
	require.NoError(t, err)

	day := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)
	first, err := GenerateBirthdayTasks(db, day)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := GenerateBirthdayTasks(db, day)
	require.NoError(t, err)
	assert.Empty(t, second)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&count))
	assert.Equal(t, 1, count)

	// Next year's birthday is a new task.
	next, err := GenerateBirthdayTasks(db, day.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, next, 1)
}

func TestGenerateBirthdayTasksLeapDay(t *testing.T) {
	db := setupTestDB(t)

	leapDay := time.Date(1992, time.February, 29, 0, 0, 0, 0, time.UTC)
	_, err := CreatePerson(db, &models.Person{Name: "Leap", Status: models.StatusFriend, Birthday: &leapDay})
	require.NoError(t, err)

	created, err := GenerateBirthdayTasks(db, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, created, 1)

	created, err = GenerateBirthdayTasks(db, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGenerateBirthdayTasksSkipsUnparseableBirthdays(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`INSERT INTO people (name, status, birthday) VALUES ('Garbled', 'Friend', 'July fourth')`)
	require.NoError(t, err)

	july := time.Date(1980, time.July, 4, 0, 0, 0, 0, time.UTC)
	_, err = CreatePerson(db, &models.Person{Name: "Alice", Status: models.StatusFriend, Birthday: &july})
	require.NoError(t, err)

	created, err := GenerateBirthdayTasks(db, time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "Birthday: Alice", created[0].Title)
}
