// ABOUTME: Offline schema utility for careo databases
// ABOUTME: Reports the schema version and pending migrations, then upgrades after taking a backup

package main

import (
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/careo/config"
	"github.com/harperreed/careo/db"
	"github.com/oklog/ulid/v2"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (default: configured db_path)")
	driver := flag.String("driver", "", "SQLite driver: sqlite3 or sqlite (default: configured driver)")
	dryRun := flag.Bool("dry-run", false, "Show pending migrations without applying them")
	backup := flag.Bool("backup", true, "Create backup before migration")
	verbose := flag.Bool("v", false, "Log each migration step")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "migrate"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "err", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *driver != "" {
		cfg.Driver = *driver
	}

	if err := migrate(cfg.DBPath, cfg.Driver, *dryRun, *backup, logger); err != nil {
		logger.Fatal("Migration failed", "err", err)
	}
}

func migrate(dbPath, driver string, dryRun, createBackup bool, logger *log.Logger) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", dbPath)
	}
	if driver == "" {
		driver = db.DriverCGO
	}

	pending, err := inspect(dbPath, driver, logger)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		logger.Info("Schema is up to date", "version", db.LatestSchemaVersion())
		return nil
	}

	for _, m := range pending {
		prefix := "Pending"
		if dryRun {
			prefix = "[DRY RUN] Would apply"
		}
		logger.Info(prefix, "version", m.Version, "migration", m.Description)
	}
	if dryRun {
		return nil
	}

	if createBackup {
		backupPath, err := backupDatabase(dbPath)
		if err != nil {
			return err
		}
		logger.Info("Backup created", "path", backupPath)
	}

	database, err := db.Open(dbPath, db.Options{Driver: driver, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to upgrade schema: %w", err)
	}
	defer func() { _ = database.Close() }()

	version, err := db.SchemaVersion(database)
	if err != nil {
		return err
	}
	logger.Info("Migration completed successfully", "version", version)
	return nil
}

// inspect reads the schema state without changing it.
func inspect(dbPath, driver string, logger *log.Logger) ([]db.MigrationInfo, error) {
	database, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	tables, err := getCurrentTables(database)
	if err != nil {
		return nil, fmt.Errorf("failed to get current tables: %w", err)
	}
	logger.Debug("Current tables", "tables", tables)

	version, err := db.SchemaVersion(database)
	if err != nil {
		return nil, err
	}
	logger.Info("Schema version", "current", version, "latest", db.LatestSchemaVersion())

	if version == 0 && contains(tables, "people") {
		logger.Warn("Database predates version tracking; existing columns will be kept")
	}

	return db.PendingMigrations(database)
}

// backupDatabase copies the file next to itself with a time-sortable suffix.
func backupDatabase(dbPath string) (string, error) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	backupPath := fmt.Sprintf("%s.backup.%s", dbPath, id)

	in, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to read database: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	return backupPath, nil
}

func getCurrentTables(database *sql.DB) ([]string, error) {
	rows, err := database.Query("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
