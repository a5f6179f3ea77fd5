package groups

import (
	"errors"
	"fmt"
)

var (
	// ErrGroupNotFound is returned when a group doesn't exist
	ErrGroupNotFound = errors.New("group not found")

	// ErrUserNotFound is returned when a referenced user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyMember is returned when the user is already in the group
	ErrAlreadyMember = errors.New("user is already a member of the group")

	// ErrUsernameTaken is returned when a group username is already in use
	ErrUsernameTaken = errors.New("group username is already taken")
)

// ValidationError wraps input validation errors with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if error is a conflict error (duplicate)
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyMember) || errors.Is(err, ErrUsernameTaken)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
