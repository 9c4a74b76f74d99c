//go:build cgo

package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// isCgoForeignKeyViolation reports whether err is a mattn/go-sqlite3 error;
// if so, fk says whether it is a foreign key constraint failure.
func isCgoForeignKeyViolation(err error) (fk bool, ok bool) {
	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.ExtendedCode == sqlite3.ErrConstraintForeignKey, true
	}
	return false, false
}
