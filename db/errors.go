package db

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	ErrRequiredField     = errors.New("required field missing")
	ErrDanglingReference = errors.New("referenced person does not exist")
	ErrUnknownDriver     = errors.New("unknown database driver")
)

func requiredField(name string) error {
	return fmt.Errorf("%w: %s", ErrRequiredField, name)
}

// translateError maps driver constraint errors onto the store's sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrDanglingReference, err)
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	if fk, ok := isCgoForeignKeyViolation(err); ok {
		return fk
	}

	var pureErr *sqlite.Error
	if errors.As(err, &pureErr) {
		return pureErr.Code() == sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY
	}

	return false
}

// isDuplicateColumn recognises the one ALTER TABLE failure that means a
// column migration was already applied.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
