package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested file, sheet or entry was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoEntries indicates that a bibliography contained no parseable entries.
	ErrNoEntries = errors.New("no bibtex entries found")

	// ErrMissingColumn indicates that a required column is absent from a sheet.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnsupportedFormat indicates an input or output format the tools cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ColumnError reports the required columns that a table lacks.
type ColumnError struct {
	Source  string
	Columns []string
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s must contain columns %q", e.Source, e.Columns)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ColumnError) Unwrap() error {
	return ErrMissingColumn
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewColumnError creates a new ColumnError.
func NewColumnError(source string, columns ...string) *ColumnError {
	return &ColumnError{
		Source:  source,
		Columns: columns,
	}
}
