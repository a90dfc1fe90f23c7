// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a referenced record does not exist (stale id).
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a create/update was rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateCategory indicates the category name already exists for that kind.
	ErrDuplicateCategory = errors.New("duplicate category")
	// ErrCategoryInUse indicates the category is referenced by at least one transaction.
	ErrCategoryInUse = errors.New("category in use")
	// ErrStoreCorrupt indicates a stored value could not be decoded. Callers
	// recover by substituting the documented default; this error is logged,
	// never shown to the user.
	ErrStoreCorrupt = errors.New("store value corrupt")
)

// ValidationError wraps ErrValidation with the offending field.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

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
