package service

import "fmt"

// MaxListedNames bounds how many existing shortcut names a NotFoundError
// carries for its informational reply
const MaxListedNames = 10

// ValidationError indicates a rejected input; the message names the
// violated constraint. No state change occurred.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a mutation referenced an unknown shortcut. It
// carries up to MaxListedNames existing names so callers can suggest
// alternatives, plus an overflow count for the rest.
type NotFoundError struct {
	Name     string
	Existing []string
	Overflow int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shortcut %q not found", e.Name)
}

// ConflictError indicates a mutation would collide with an existing
// shortcut. No state change occurred.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a conflict error
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
