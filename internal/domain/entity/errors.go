package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors describing why an upstream source produced no record.
var (
	// ErrUpstreamUnreachable indicates a network failure or a timeout
	// before any response was received.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrUpstreamError indicates a non-success response or an undecodable body.
	ErrUpstreamError = errors.New("upstream error")

	// ErrNoContent indicates a successful response that carried no issues.
	ErrNoContent = errors.New("no newsletter content")

	// ErrMalformedContent indicates HTML that could not be processed.
	// It is always absorbed by falling back to defaults.
	ErrMalformedContent = errors.New("malformed newsletter content")

	// ErrIncompleteRecord indicates an upstream item missing a required field.
	ErrIncompleteRecord = errors.New("incomplete newsletter record")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with ErrIncompleteRecord.
func (e *ValidationError) Unwrap() error {
	return ErrIncompleteRecord
}
