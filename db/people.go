// ABOUTME: Person database operations
// ABOUTME: Handles CRUD for people and the cascading delete of their dependents
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/careo/models"
)

const personColumns = `id, name, status, privateNotes, pipelineType, pipelineStage,
	email, phone, address, birthday, spouseName, childrenNames, prayerRequests, interests`

type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.FormatDate(*t), Valid: true}
}

func scanPerson(row scanner) (*models.Person, error) {
	var p models.Person
	var status string
	var privateNotes, pipelineType, pipelineStage sql.NullString
	var email, phone, address, birthday sql.NullString
	var spouseName, childrenNames, prayerRequests, interests sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &status, &privateNotes, &pipelineType, &pipelineStage,
		&email, &phone, &address, &birthday, &spouseName, &childrenNames,
		&prayerRequests, &interests,
	)
	if err != nil {
		return nil, err
	}

	p.Status = models.Status(status)
	p.PrivateNotes = privateNotes.String
	p.PipelineType = pipelineType.String
	p.PipelineStage = pipelineStage.String
	p.Email = email.String
	p.Phone = phone.String
	p.Address = address.String
	p.SpouseName = spouseName.String
	p.ChildrenNames = childrenNames.String
	p.PrayerRequests = prayerRequests.String
	p.Interests = interests.String

	if birthday.Valid && birthday.String != "" {
		bd, err := models.ParseDate(birthday.String)
		if err != nil {
			return nil, fmt.Errorf("invalid birthday %q for person %d: %w", birthday.String, p.ID, err)
		}
		p.Birthday = &bd
	}

	return &p, nil
}

func validatePerson(person *models.Person) error {
	if person.Name == "" {
		return requiredField("name")
	}
	if person.Status == "" {
		return requiredField("status")
	}
	return nil
}

// ListPeople returns every person, ordered by name.
func ListPeople(db *sql.DB) ([]models.Person, error) {
	rows, err := db.Query(`SELECT ` + personColumns + ` FROM people ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	people := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, *p)
	}

	return people, rows.Err()
}

// GetPerson returns nil, nil when no person has the id.
func GetPerson(db *sql.DB, id int64) (*models.Person, error) {
	p, err := scanPerson(db.QueryRow(`SELECT `+personColumns+` FROM people WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CountPeople returns the number of stored people.
func CountPeople(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM people`).Scan(&count)
	return count, err
}

// CreatePerson inserts person, assigns person.ID and returns it.
// Empty optional fields are stored as NULL.
func CreatePerson(db *sql.DB, person *models.Person) (int64, error) {
	if err := validatePerson(person); err != nil {
		return 0, err
	}

	result, err := db.Exec(`
		INSERT INTO people (
			name, status, privateNotes, pipelineType, pipelineStage,
			email, phone, address, birthday, spouseName, childrenNames, prayerRequests, interests
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		person.Name,
		string(person.Status),
		nullString(person.PrivateNotes),
		nullString(person.PipelineType),
		nullString(person.PipelineStage),
		nullString(person.Email),
		nullString(person.Phone),
		nullString(person.Address),
		nullDate(person.Birthday),
		nullString(person.SpouseName),
		nullString(person.ChildrenNames),
		nullString(person.PrayerRequests),
		nullString(person.Interests),
	)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	person.ID = id
	return id, nil
}

// UpdatePerson overwrites every column of the person with person.ID.
// Fields left empty are cleared. A missing id is a no-op.
func UpdatePerson(db *sql.DB, person *models.Person) error {
	if err := validatePerson(person); err != nil {
		return err
	}

	_, err := db.Exec(`
		UPDATE people SET
			name = ?, status = ?, privateNotes = ?, pipelineType = ?, pipelineStage = ?,
			email = ?, phone = ?, address = ?, birthday = ?, spouseName = ?,
			childrenNames = ?, prayerRequests = ?, interests = ?
		WHERE id = ?
	`,
		person.Name,
		string(person.Status),
		nullString(person.PrivateNotes),
		nullString(person.PipelineType),
		nullString(person.PipelineStage),
		nullString(person.Email),
		nullString(person.Phone),
		nullString(person.Address),
		nullDate(person.Birthday),
		nullString(person.SpouseName),
		nullString(person.ChildrenNames),
		nullString(person.PrayerRequests),
		nullString(person.Interests),
		person.ID,
	)

	return err
}

// DeletePerson removes a person together with their interactions and
// unlinks their tasks, all in one transaction.
func DeletePerson(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`DELETE FROM interactions WHERE personId = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interactions: %w", err)
	}

	_, err = tx.Exec(`UPDATE tasks SET relatedPersonId = NULL WHERE relatedPersonId = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to unlink tasks: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	return tx.Commit()
}
