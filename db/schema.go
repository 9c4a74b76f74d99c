// ABOUTME: Database schema definitions and migrations
// ABOUTME: Forward-only migrations tracked in PRAGMA user_version
package db

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

const createPeople = `
CREATE TABLE IF NOT EXISTS people (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	privateNotes TEXT
)`

const createInteractions = `
CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	personId INTEGER NOT NULL,
	type TEXT NOT NULL,
	notes TEXT,
	date TEXT NOT NULL,
	FOREIGN KEY (personId) REFERENCES people (id) ON DELETE CASCADE
)`

const createTasks = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT,
	dueDate TEXT NOT NULL,
	isCompleted INTEGER DEFAULT 0,
	relatedPersonId INTEGER,
	type TEXT NOT NULL,
	FOREIGN KEY (relatedPersonId) REFERENCES people (id) ON DELETE SET NULL
)`

type migration struct {
	version     int
	description string
	statements  []string
}

// migrations must stay append-only; databases on user devices are at every
// version in this list.
var migrations = []migration{
	{
		version:     1,
		description: "baseline people, interactions and tasks tables",
		statements: []string{
			createPeople,
			createInteractions,
			createTasks,
			`CREATE INDEX IF NOT EXISTS idx_interactions_person_date ON interactions(personId, date DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(dueDate)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_related_person ON tasks(relatedPersonId)`,
		},
	},
	{
		version:     2,
		description: "pipeline columns",
		statements: []string{
			`ALTER TABLE people ADD COLUMN pipelineType TEXT`,
			`ALTER TABLE people ADD COLUMN pipelineStage TEXT`,
		},
	},
	{
		version:     3,
		description: "contact info columns",
		statements: []string{
			`ALTER TABLE people ADD COLUMN email TEXT`,
			`ALTER TABLE people ADD COLUMN phone TEXT`,
			`ALTER TABLE people ADD COLUMN address TEXT`,
		},
	},
	{
		version:     4,
		description: "personal detail columns",
		statements: []string{
			`ALTER TABLE people ADD COLUMN birthday TEXT`,
			`ALTER TABLE people ADD COLUMN spouseName TEXT`,
			`ALTER TABLE people ADD COLUMN childrenNames TEXT`,
		},
	},
	{
		version:     5,
		description: "ministry detail columns",
		statements: []string{
			`ALTER TABLE people ADD COLUMN prayerRequests TEXT`,
			`ALTER TABLE people ADD COLUMN interests TEXT`,
		},
	},
}

// MigrationInfo describes one schema migration.
type MigrationInfo struct {
	Version     int
	Description string
}

// LatestSchemaVersion is the version a fully migrated database reports.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the version recorded in the database.
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// PendingMigrations lists the migrations InitSchema would apply.
func PendingMigrations(db *sql.DB) ([]MigrationInfo, error) {
	current, err := SchemaVersion(db)
	if err != nil {
		return nil, err
	}

	var pending []MigrationInfo
	for _, m := range migrations {
		if m.version > current {
			pending = append(pending, MigrationInfo{Version: m.version, Description: m.description})
		}
	}
	return pending, nil
}

// InitSchema applies every migration newer than the recorded schema
// version. It is safe to call on every start.
//
// Databases written before version tracking report version 0 but may
// already carry some of the added columns, so a "duplicate column name"
// failure is accepted. Any other failure aborts.
func InitSchema(db *sql.DB, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m, logger); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		logger.Debug("applied migration", "version", m.version, "description", m.description)
	}

	return nil
}

func applyMigration(db *sql.DB, m migration, logger *log.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	for _, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			if isDuplicateColumn(err) {
				logger.Debug("column already present", "version", m.version, "error", err)
				continue
			}
			return err
		}
	}

	// PRAGMA does not take bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}
