// ABOUTME: Birthday reminder generation
// ABOUTME: Creates one birthday task per person whose birthday falls on a given day
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/careo/models"
)

// birthdayFallsOn reports whether a birthday is celebrated on day. Leap day
// birthdays are celebrated on Feb 28 in common years.
func birthdayFallsOn(birthday, day time.Time) bool {
	month, date := birthday.Month(), birthday.Day()
	if month == time.February && date == 29 && !isLeapYear(day.Year()) {
		date = 28
	}
	return month == day.Month() && date == day.Day()
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// GenerateBirthdayTasks creates a birthday task due on day for every person
// celebrating that day, skipping people who already have one. It returns
// the tasks it created.
func GenerateBirthdayTasks(db *sql.DB, day time.Time) ([]models.Task, error) {
	dueDate := models.FormatDate(day)
	due := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	rows, err := tx.Query(`SELECT id, name, birthday FROM people WHERE birthday IS NOT NULL AND birthday != ''`)
	if err != nil {
		return nil, err
	}

	type celebrant struct {
		id   int64
		name string
	}
	var celebrants []celebrant
	for rows.Next() {
		var c celebrant
		var birthday string
		if err := rows.Scan(&c.id, &c.name, &birthday); err != nil {
			_ = rows.Close()
			return nil, err
		}
		bd, err := models.ParseDate(birthday)
		if err != nil {
			// Unparseable birthdays are skipped rather than blocking everyone else.
			continue
		}
		if birthdayFallsOn(bd, day) {
			celebrants = append(celebrants, c)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	created := []models.Task{}
	for _, c := range celebrants {
		var existing int
		err := tx.QueryRow(`
			SELECT COUNT(*) FROM tasks WHERE type = ? AND relatedPersonId = ? AND dueDate = ?
		`, string(models.TaskBirthday), c.id, dueDate).Scan(&existing)
		if err != nil {
			return nil, err
		}
		if existing > 0 {
			continue
		}

		personID := c.id
		task := models.Task{
			Title:           fmt.Sprintf("Birthday: %s", c.name),
			Description:     fmt.Sprintf("Wish %s a happy birthday", c.name),
			DueDate:         due,
			RelatedPersonID: &personID,
			Type:            models.TaskBirthday,
		}

		result, err := tx.Exec(`
			INSERT INTO tasks (title, description, dueDate, isCompleted, relatedPersonId, type)
			VALUES (?, ?, ?, 0, ?, ?)
		`, task.Title, task.Description, dueDate, personID, string(task.Type))
		if err != nil {
			return nil, translateError(err)
		}
		task.ID, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
		created = append(created, task)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}
