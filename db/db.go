// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite with foreign keys and WAL enabled, then migrates the schema
package db

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// Options controls how the store is opened.
type Options struct {
	// Driver is DriverCGO (default) or DriverPure.
	Driver string
	// Logger receives migration progress. Nil discards it.
	Logger *log.Logger
}

// OpenDatabase opens the store at path with the default driver.
func OpenDatabase(path string) (*sql.DB, error) {
	return Open(path, Options{})
}

// Open opens the store at path and brings its schema up to date. The
// returned handle is owned by the caller, who closes it at shutdown.
func Open(path string, opts Options) (*sql.DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverCGO
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	dsn, err := buildDSN(path, opts.Driver)
	if err != nil {
		return nil, err
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: per-connection pragmas stay in effect and there is a
	// single writer.
	db.SetMaxOpenConns(1)

	if err := checkForeignKeys(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := InitSchema(db, opts.Logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	opts.Logger.Debug("database ready", "path", path, "driver", opts.Driver)
	return db, nil
}

func buildDSN(path, driver string) (string, error) {
	switch driver {
	case DriverCGO:
		return path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", nil
	case DriverPure:
		return path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func checkForeignKeys(db *sql.DB) error {
	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("failed to query foreign key enforcement: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("foreign key enforcement is not enabled")
	}
	return nil
}
