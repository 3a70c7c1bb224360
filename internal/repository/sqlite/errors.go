package sqlite

import (
	"errors"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"track-times/internal/repository"
)

const uniqueFailedPrefix = "UNIQUE constraint failed: "

// translateInsertError maps a unique violation to *repository.ConstraintError.
func translateInsertError(err error) error {
	field, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	return &repository.ConstraintError{Field: field, Err: err}
}

func uniqueViolation(err error) (string, bool) {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
			return "", false
		}
		if !strings.Contains(sqliteErr.Error(), uniqueFailedPrefix) {
			return "", false
		}
		return constraintField(sqliteErr.Error()), true
	}
	if strings.Contains(err.Error(), uniqueFailedPrefix) {
		return constraintField(err.Error()), true
	}
	return "", false
}

// constraintField extracts "username" from "... UNIQUE constraint failed: users.username (2067)".
func constraintField(msg string) string {
	_, rest, ok := strings.Cut(msg, uniqueFailedPrefix)
	if !ok {
		return ""
	}
	cols := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == ',' || r == '('
	})
	if len(cols) == 0 {
		return ""
	}
	if _, name, found := strings.Cut(cols[0], "."); found {
		return name
	}
	return cols[0]
}
