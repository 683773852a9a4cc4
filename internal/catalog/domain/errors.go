package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("catalog: validation failed")

	// ErrNotFound is returned when a referenced id or slug does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrForbidden is returned when a user mutates a store they do not own.
	ErrForbidden = errors.New("catalog: store is owned by another user")

	// ErrConflict is returned when the storage layer rejects a duplicate slug.
	ErrConflict = errors.New("catalog: slug already taken")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail for the caller to surface.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AdapterError wraps an underlying document store failure with the operation name.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *AdapterError) Unwrap() error { return e.Err }

// IsAdapterError reports whether err came from the document store.
func IsAdapterError(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae)
}
