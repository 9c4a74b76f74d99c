// ABOUTME: Tests for the offline migration utility
// ABOUTME: Checks dry runs, backups and upgrades of databases from before version tracking
package main

import (
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/careo/db"
)

func legacyDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")

	database, err := sql.Open(db.DriverCGO, path)
	require.NoError(t, err)
	_, err = database.Exec(`
		CREATE TABLE people (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			privateNotes TEXT,
			email TEXT
		);
		INSERT INTO people (name, status, email) VALUES ('Legacy', 'Friend', 'legacy@example.com');
	`)
	require.NoError(t, err)
	require.NoError(t, database.Close())
	return path
}

func schemaVersionAt(t *testing.T, path string) int {
	t.Helper()
	database, err := sql.Open(db.DriverCGO, path)
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	version, err := db.SchemaVersion(database)
	require.NoError(t, err)
	return version
}

func backups(t *testing.T, path string) []string {
	t.Helper()
	matches, err := filepath.Glob(path + ".backup.*")
	require.NoError(t, err)
	return matches
}

func TestMigrateDryRunChangesNothing(t *testing.T) {
	path := legacyDatabase(t)

	require.NoError(t, migrate(path, "", true, true, log.New(io.Discard)))

	assert.Equal(t, 0, schemaVersionAt(t, path))
	assert.Empty(t, backups(t, path))
}

func TestMigrateUpgradesWithBackup(t *testing.T) {
	path := legacyDatabase(t)

	require.NoError(t, migrate(path, db.DriverCGO, false, true, log.New(io.Discard)))

	assert.Equal(t, db.LatestSchemaVersion(), schemaVersionAt(t, path))

	found := backups(t, path)
	require.Len(t, found, 1)
	// ULID suffix
	assert.Len(t, strings.TrimPrefix(found[0], path+".backup."), 26)
	assert.Equal(t, 0, schemaVersionAt(t, found[0]))

	database, err := db.OpenDatabase(path)
	require.NoError(t, err)
	defer func() { _ = database.Close() }()
	people, err := db.ListPeople(database)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "legacy@example.com", people[0].Email)
}

func TestMigrateUpToDateSkipsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "current.db")
	database, err := db.OpenDatabase(path)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	require.NoError(t, migrate(path, "", false, true, log.New(io.Discard)))
	assert.Empty(t, backups(t, path))
}

func TestMigrateMissingDatabase(t *testing.T) {
	err := migrate(filepath.Join(t.TempDir(), "missing.db"), "", false, true, log.New(io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
