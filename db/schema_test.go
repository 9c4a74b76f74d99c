// ABOUTME: Tests for database schema creation and migrations
// ABOUTME: Covers fresh installs, repeated starts and databases from before version tracking
package db

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open(DriverCGO, filepath.Join(t.TempDir(), "raw.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func peopleColumns(t *testing.T, database *sql.DB) []string {
	t.Helper()
	rows, err := database.Query("SELECT name FROM pragma_table_info('people') ORDER BY cid")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	return cols
}

var allPeopleColumns = []string{
	"id", "name", "status", "privateNotes", "pipelineType", "pipelineStage",
	"email", "phone", "address", "birthday", "spouseName", "childrenNames",
	"prayerRequests", "interests",
}

func TestInitSchema(t *testing.T) {
	database := openRaw(t)

	require.NoError(t, InitSchema(database, nil))

	for _, table := range []string{"people", "interactions", "tasks"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s not found", table)
	}

	indexes := []string{
		"idx_interactions_person_date",
		"idx_tasks_due",
		"idx_tasks_related_person",
	}
	for _, idx := range indexes {
		var indexName string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&indexName)
		assert.NoError(t, err, "index %s not found", idx)
	}

	assert.ElementsMatch(t, allPeopleColumns, peopleColumns(t, database))

	version, err := SchemaVersion(database)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), version)
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	database := openRaw(t)

	require.NoError(t, InitSchema(database, nil))
	_, err := database.Exec(`INSERT INTO people (name, status, email) VALUES ('Alice', 'Friend', 'a@example.com')`)
	require.NoError(t, err)

	require.NoError(t, InitSchema(database, nil), "second start must not fail")

	var email string
	require.NoError(t, database.QueryRow(`SELECT email FROM people WHERE name = 'Alice'`).Scan(&email))
	assert.Equal(t, "a@example.com", email)

	pending, err := PendingMigrations(database)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInitSchemaUpgradesUntrackedLegacyDatabase(t *testing.T) {
	database := openRaw(t)

	// A database written by the add-column-and-ignore-errors scheme: some
	// optional columns exist, nothing recorded in user_version.
	_, err := database.Exec(`
		CREATE TABLE people (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			privateNotes TEXT,
			pipelineType TEXT,
			pipelineStage TEXT,
			email TEXT
		);
		INSERT INTO people (name, status, pipelineType) VALUES ('Legacy', 'Partner', 'Evangelism');
	`)
	require.NoError(t, err)

	version, err := SchemaVersion(database)
	require.NoError(t, err)
	require.Equal(t, 0, version)

	pending, err := PendingMigrations(database)
	require.NoError(t, err)
	assert.Len(t, pending, len(migrations))

	require.NoError(t, InitSchema(database, nil))

	assert.ElementsMatch(t, allPeopleColumns, peopleColumns(t, database))

	var pipeline string
	require.NoError(t, database.QueryRow(`SELECT pipelineType FROM people WHERE name = 'Legacy'`).Scan(&pipeline))
	assert.Equal(t, "Evangelism", pipeline)

	version, err = SchemaVersion(database)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), version)
}

func TestInitSchemaResumesFromRecordedVersion(t *testing.T) {
	database := openRaw(t)

	// Apply only the first two migrations.
	for _, m := range migrations[:2] {
		require.NoError(t, applyMigration(database, m, discardLogger()))
	}

	pending, err := PendingMigrations(database)
	require.NoError(t, err)
	require.Len(t, pending, len(migrations)-2)
	assert.Equal(t, 3, pending[0].Version)

	require.NoError(t, InitSchema(database, nil))
	assert.ElementsMatch(t, allPeopleColumns, peopleColumns(t, database))
}

func TestInitSchemaSurfacesRealFailures(t *testing.T) {
	database := openRaw(t)

	// Record version 1 without creating the tables: the next ALTER TABLE
	// fails for a reason other than an existing column.
	_, err := database.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)

	err = InitSchema(database, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2")

	version, err := SchemaVersion(database)
	require.NoError(t, err)
	assert.Equal(t, 1, version, "failed migration must not advance the version")
}

func TestMigrationVersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.version)
		assert.NotEmpty(t, m.description)
		assert.NotEmpty(t, m.statements)
	}
}
