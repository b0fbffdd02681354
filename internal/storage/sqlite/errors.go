package sqlite

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isUniqueViolation reports whether err is a unique or primary-key
// constraint failure. The constraint, not the services' pre-checks, is the
// source of truth for duplicates: two concurrent inserts both pass the
// pre-check and exactly one lands here.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// isCheckViolation reports whether err is a CHECK constraint failure
// (e.g. a reflexive follow edge).
func isCheckViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_CHECK
}

// isForeignKeyViolation reports whether err is a foreign-key failure,
// meaning a referenced row disappeared between a pre-check and the insert.
func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
