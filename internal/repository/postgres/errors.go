package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	"track-times/internal/repository"
)

const uniqueViolation pq.ErrorCode = "23505"

// translateInsertError maps SQLSTATE 23505 to *repository.ConstraintError.
func translateInsertError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	return &repository.ConstraintError{Field: constraintField(pqErr), Err: err}
}

// constraintField turns "users_username_key" into "username".
func constraintField(pqErr *pq.Error) string {
	name := strings.TrimSuffix(pqErr.Constraint, "_key")
	if pqErr.Table != "" {
		if trimmed, ok := strings.CutPrefix(name, pqErr.Table+"_"); ok {
			return trimmed
		}
	}
	if _, rest, ok := strings.Cut(name, "_"); ok {
		return rest
	}
	return name
}
