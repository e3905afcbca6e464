package unit

import "fmt"

// ValidationError indicates a required input field is missing or invalid.
// It is raised by Validate and converted to a failed TaskOutput inside
// Execute; it never escapes a unit as a Go error.
type ValidationError struct {
	// Field is the name of the offending input field.
	Field string
	// Reason describes why the field is invalid.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ExecutionError wraps an error raised by domain logic. It is caught at
// the Execute boundary and converted to a failed TaskOutput.
type ExecutionError struct {
	// Unit is the capability identifier of the failing unit.
	Unit string
	// Err is the underlying domain error.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("unit %s: %v", e.Unit, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
