package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate matches any unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

// ConstraintError is a unique constraint violation on Field.
type ConstraintError struct {
	Field string
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("unique constraint on %s: %v", e.Field, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrDuplicate }
