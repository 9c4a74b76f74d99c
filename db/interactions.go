// ABOUTME: Interaction database operations
// ABOUTME: Logs, edits and lists timestamped contact with a person
package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/careo/models"
)

func scanInteraction(row scanner) (*models.Interaction, error) {
	var i models.Interaction
	var interactionType, date string
	var notes sql.NullString

	if err := row.Scan(&i.ID, &i.PersonID, &interactionType, &notes, &date); err != nil {
		return nil, err
	}

	ts, err := models.ParseTimestamp(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q for interaction %d: %w", date, i.ID, err)
	}

	i.Type = models.InteractionType(interactionType)
	i.Notes = notes.String
	i.Date = ts
	return &i, nil
}

func validateInteraction(interaction *models.Interaction) error {
	if interaction.Type == "" {
		return requiredField("type")
	}
	if interaction.Date.IsZero() {
		return requiredField("date")
	}
	return nil
}

// ListInteractions returns a person's interactions, newest first.
func ListInteractions(db *sql.DB, personID int64) ([]models.Interaction, error) {
	rows, err := db.Query(`
		SELECT id, personId, type, notes, date
		FROM interactions
		WHERE personId = ?
		ORDER BY date DESC, id DESC
	`, personID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	interactions := []models.Interaction{}
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *i)
	}

	return interactions, rows.Err()
}

// GetInteraction returns nil, nil when no interaction has the id.
func GetInteraction(db *sql.DB, id int64) (*models.Interaction, error) {
	i, err := scanInteraction(db.QueryRow(`
		SELECT id, personId, type, notes, date FROM interactions WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

// CreateInteraction inserts interaction, assigns interaction.ID and returns
// it. The person must exist; otherwise ErrDanglingReference is returned.
func CreateInteraction(db *sql.DB, interaction *models.Interaction) (int64, error) {
	if err := validateInteraction(interaction); err != nil {
		return 0, err
	}

	result, err := db.Exec(`
		INSERT INTO interactions (personId, type, notes, date) VALUES (?, ?, ?, ?)
	`,
		interaction.PersonID,
		string(interaction.Type),
		nullString(interaction.Notes),
		models.FormatTimestamp(interaction.Date),
	)
	if err != nil {
		return 0, translateError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	interaction.ID = id
	return id, nil
}

// UpdateInteraction rewrites date, type and notes. The owning person is
// never changed.
func UpdateInteraction(db *sql.DB, interaction *models.Interaction) error {
	if err := validateInteraction(interaction); err != nil {
		return err
	}

	_, err := db.Exec(`
		UPDATE interactions SET date = ?, type = ?, notes = ? WHERE id = ?
	`,
		models.FormatTimestamp(interaction.Date),
		string(interaction.Type),
		nullString(interaction.Notes),
		interaction.ID,
	)

	return err
}

func DeleteInteraction(db *sql.DB, id int64) error {
	_, err := db.Exec(`DELETE FROM interactions WHERE id = ?`, id)
	return err
}
