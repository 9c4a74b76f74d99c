// ABOUTME: Task database operations
// ABOUTME: Creates tasks, toggles completion and answers the daily agenda query
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/careo/models"
)

const taskColumns = `id, title, description, dueDate, isCompleted, relatedPersonId, type`

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var description sql.NullString
	var dueDate, taskType string
	var completed, relatedPersonID sql.NullInt64

	if err := row.Scan(&t.ID, &t.Title, &description, &dueDate, &completed, &relatedPersonID, &taskType); err != nil {
		return nil, err
	}

	due, err := models.ParseDate(dueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q for task %d: %w", dueDate, t.ID, err)
	}

	t.Description = description.String
	t.DueDate = due
	t.IsCompleted = completed.Valid && completed.Int64 != 0
	t.Type = models.TaskType(taskType)
	if relatedPersonID.Valid {
		id := relatedPersonID.Int64
		t.RelatedPersonID = &id
	}

	return &t, nil
}

func queryTasks(db *sql.DB, query string, args ...any) ([]models.Task, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}

	return tasks, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// ListDueTasks returns the agenda for the calendar day of ref (in ref's
// location): every task due that day whether or not it is done, plus
// overdue tasks that are still open. Completed overdue tasks never come
// back. Ordered by due date, oldest first.
func ListDueTasks(db *sql.DB, ref time.Time) ([]models.Task, error) {
	day := models.FormatDate(ref)
	return queryTasks(db, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE (dueDate = ?) OR (dueDate < ? AND isCompleted = 0)
		ORDER BY dueDate ASC, id ASC
	`, day, day)
}

// ListTasksForPerson returns all tasks linked to a person, soonest first.
func ListTasksForPerson(db *sql.DB, personID int64) ([]models.Task, error) {
	return queryTasks(db, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE relatedPersonId = ?
		ORDER BY dueDate ASC, id ASC
	`, personID)
}

// GetTask returns nil, nil when no task has the id.
func GetTask(db *sql.DB, id int64) (*models.Task, error) {
	t, err := scanTask(db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTask inserts task, assigns task.ID and returns it. A non-nil
// RelatedPersonID must name an existing person.
func CreateTask(db *sql.DB, task *models.Task) (int64, error) {
	if task.Title == "" {
		return 0, requiredField("title")
	}
	if task.Type == "" {
		return 0, requiredField("type")
	}
	if task.DueDate.IsZero() {
		return 0, requiredField("dueDate")
	}

	result, err := db.Exec(`
		INSERT INTO tasks (title, description, dueDate, isCompleted, relatedPersonId, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		task.Title,
		nullString(task.Description),
		models.FormatDate(task.DueDate),
		boolToInt(task.IsCompleted),
		nullID(task.RelatedPersonID),
		string(task.Type),
	)
	if err != nil {
		return 0, translateError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	task.ID = id
	return id, nil
}

// ToggleTask sets the completion flag of a task and touches nothing else.
func ToggleTask(db *sql.DB, id int64, isCompleted bool) error {
	_, err := db.Exec(`UPDATE tasks SET isCompleted = ? WHERE id = ?`, boolToInt(isCompleted), id)
	return err
}
