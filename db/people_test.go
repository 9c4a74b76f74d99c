// ABOUTME: Tests for person database operations
// ABOUTME: Covers round trips, full-replace updates and the delete cascade
package db

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/careo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPerson() *models.Person {
	birthday := time.Date(1988, time.July, 14, 0, 0, 0, 0, time.UTC)
	return &models.Person{
		Name:           "Alice Johnson",
		Status:         models.StatusPartner,
		PrivateNotes:   "Met at the retreat",
		PipelineType:   models.PipelineSupportRaising,
		PipelineStage:  "Ask",
		Email:          "alice@example.com",
		Phone:          "555-0100",
		Address:        "1 Main St",
		Birthday:       &birthday,
		SpouseName:     "Tom",
		ChildrenNames:  "Ann, Ben",
		PrayerRequests: "New job",
		Interests:      "Climbing",
	}
}

func TestCreateAndGetPerson(t *testing.T) {
	db := setupTestDB(t)

	person := fullPerson()
	id, err := CreatePerson(db, person)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, person.ID)

	found, err := GetPerson(db, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *person, *found)
}

func TestCreatePersonMinimal(t *testing.T) {
	db := setupTestDB(t)

	person := &models.Person{Name: "Bob", Status: models.StatusFriend}
	id, err := CreatePerson(db, person)
	require.NoError(t, err)

	found, err := GetPerson(db, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *person, *found)
	assert.Nil(t, found.Birthday)

	// Absent optional fields are stored as NULL, not empty strings.
	var nulls int
	err = db.QueryRow(`SELECT COUNT(*) FROM people WHERE id = ? AND email IS NULL AND birthday IS NULL`, id).Scan(&nulls)
	require.NoError(t, err)
	assert.Equal(t, 1, nulls)
}

func TestCreatePersonRequiresNameAndStatus(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreatePerson(db, &models.Person{Status: models.StatusFriend})
	assert.True(t, errors.Is(err, ErrRequiredField))

	_, err = CreatePerson(db, &models.Person{Name: "No Status"})
	assert.True(t, errors.Is(err, ErrRequiredField))

	count, err := CountPeople(db)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetPersonNotFound(t *testing.T) {
	db := setupTestDB(t)

	found, err := GetPerson(db, 42)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListPeople(t *testing.T) {
	db := setupTestDB(t)

	people, err := ListPeople(db)
	require.NoError(t, err)
	assert.Empty(t, people)

	for _, name := range []string{"carol", "Alice", "bob"} {
		_, err := CreatePerson(db, &models.Person{Name: name, Status: models.StatusFriend})
		require.NoError(t, err)
	}

	people, err = ListPeople(db)
	require.NoError(t, err)
	require.Len(t, people, 3)
	assert.Equal(t, "Alice", people[0].Name)
	assert.Equal(t, "bob", people[1].Name)
	assert.Equal(t, "carol", people[2].Name)

	count, err := CountPeople(db)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdatePersonSingleFieldPreservesOthers(t *testing.T) {
	db := setupTestDB(t)

	person := fullPerson()
	_, err := CreatePerson(db, person)
	require.NoError(t, err)

	// Read-modify-write one field.
	current, err := GetPerson(db, person.ID)
	require.NoError(t, err)
	current.Phone = "555-0199"
	require.NoError(t, UpdatePerson(db, current))

	found, err := GetPerson(db, person.ID)
	require.NoError(t, err)

	want := *person
	want.Phone = "555-0199"
	assert.Equal(t, want, *found)
}

func TestUpdatePersonIsFullReplace(t *testing.T) {
	db := setupTestDB(t)

	person := fullPerson()
	_, err := CreatePerson(db, person)
	require.NoError(t, err)

	replacement := &models.Person{ID: person.ID, Name: "Alice J.", Status: models.StatusMentor}
	require.NoError(t, UpdatePerson(db, replacement))

	found, err := GetPerson(db, person.ID)
	require.NoError(t, err)
	assert.Equal(t, *replacement, *found, "fields omitted from the update are cleared")
}

func TestUpdatePersonMissingIsNoop(t *testing.T) {
	db := setupTestDB(t)

	err := UpdatePerson(db, &models.Person{ID: 999, Name: "Ghost", Status: models.StatusFriend})
	require.NoError(t, err)

	count, err := CountPeople(db)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeletePersonCascades(t *testing.T) {
	db := setupTestDB(t)

	alice := &models.Person{Name: "Alice", Status: models.StatusFriend}
	_, err := CreatePerson(db, alice)
	require.NoError(t, err)
	bob := &models.Person{Name: "Bob", Status: models.StatusFriend}
	_, err = CreatePerson(db, bob)
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := CreateInteraction(db, &models.Interaction{PersonID: alice.ID, Type: models.InteractionCall, Date: day.AddDate(0, 0, i)})
		require.NoError(t, err)
	}
	_, err = CreateInteraction(db, &models.Interaction{PersonID: bob.ID, Type: models.InteractionText, Date: day})
	require.NoError(t, err)

	var aliceTasks []int64
	for i := 0; i < 2; i++ {
		task := &models.Task{Title: "Follow up", DueDate: day, RelatedPersonID: &alice.ID, Type: models.TaskManual}
		_, err := CreateTask(db, task)
		require.NoError(t, err)
		aliceTasks = append(aliceTasks, task.ID)
	}

	require.NoError(t, DeletePerson(db, alice.ID))

	found, err := GetPerson(db, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	interactions, err := ListInteractions(db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, interactions)

	for _, id := range aliceTasks {
		task, err := GetTask(db, id)
		require.NoError(t, err)
		require.NotNil(t, task, "task must survive its person")
		assert.Nil(t, task.RelatedPersonID)
		assert.Equal(t, "Follow up", task.Title)
	}

	// Bob is untouched.
	bobInteractions, err := ListInteractions(db, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobInteractions, 1)
}

func TestDeletePersonMissingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, DeletePerson(db, 7))
}
