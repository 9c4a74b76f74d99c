//go:build !cgo

package db

// isCgoForeignKeyViolation: without cgo, mattn/go-sqlite3 registers only a
// stub driver, so its error type never occurs.
func isCgoForeignKeyViolation(err error) (fk bool, ok bool) {
	return false, false
}
