package posts

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound is returned when a post lookup finds no matching record
	ErrPostNotFound = errors.New("post not found")

	// ErrParentNotFound is returned when replying to a post that doesn't exist
	ErrParentNotFound = errors.New("parent post not found")

	// ErrAuthorNotFound is returned when the post's author doesn't exist
	ErrAuthorNotFound = errors.New("author not found")

	// ErrContentEmpty is returned when post content is missing
	ErrContentEmpty = errors.New("post content is required")
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
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrParentNotFound) ||
		errors.Is(err, ErrAuthorNotFound)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr) || errors.Is(err, ErrContentEmpty)
}
