// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Validation and state errors.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIllegalState    = errors.New("illegal state")
	ErrNoBudget        = errors.New("no budget configured")

	// Persistence errors.
	ErrPersistence = errors.New("history persistence failed")
	ErrNotFound    = errors.New("not found")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
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

// InvalidArgument wraps ErrInvalidArgument with a formatted detail message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsValidationError reports whether err is caused by malformed input or a
// missing prerequisite rather than an infrastructure failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrIllegalState)
}
