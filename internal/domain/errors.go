package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrExportNotFound is returned for unknown export ids.
	ErrExportNotFound = errors.New("export not found")
)

// UsernameTakenError is returned when a username is already in use.
type UsernameTakenError struct {
	Username string
}

func (e *UsernameTakenError) Error() string {
	return fmt.Sprintf("The username has already been taken: %s", e.Username)
}

// UserIDTakenError is returned when a caller-supplied external user id already exists.
type UserIDTakenError struct {
	UserID string
}

func (e *UserIDTakenError) Error() string {
	return fmt.Sprintf("The user id has already been taken: %s", e.UserID)
}

// UserNotFoundError reports a lookup miss on the named identifying field.
type UserNotFoundError struct {
	Field string
	Value string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("User with the %s '%s' does not exist.", e.Field, e.Value)
}

// UserNotFoundByUserID is the miss for lookups by external user id.
func UserNotFoundByUserID(userID string) *UserNotFoundError {
	return &UserNotFoundError{Field: "user_id", Value: userID}
}

// UserNotFoundByUsername is the miss for lookups by username.
func UserNotFoundByUsername(username string) *UserNotFoundError {
	return &UserNotFoundError{Field: "username", Value: username}
}

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
