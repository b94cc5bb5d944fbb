// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors. Stores wrap these with %w so callers can
// discriminate with errors.Is.
var (
	// ErrValidation covers missing or malformed required fields,
	// unknown enum values, and name collisions.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means an operation referenced an ID that does not
	// exist in the collection.
	ErrNotFound = errors.New("not found")

	// ErrPermission means the acting user lacks the rights for the
	// requested mutation.
	ErrPermission = errors.New("permission denied")

	// ErrPersistence means a write to the data file failed. Any
	// in-memory mutation has already been rolled back when this
	// propagates.
	ErrPersistence = errors.New("persistence failed")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
