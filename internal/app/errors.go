package app

import (
	"errors"
	"fmt"
)

// ValidationError represents a user-correctable rejection of a mutation
// intent (empty comment text, missing upload fields, unknown target).
//
// Validation errors surface as inline messages in the UI layer. They are
// distinct from storage faults, which never reach the caller at all, and
// from external-service faults, which pass through verbatim.
type ValidationError struct {
	// Code identifies the rejection category.
	Code ValidationCode

	// Field names the offending input field.
	Field string

	// Message is a human-readable description.
	Message string
}

// ValidationCode categorizes validation rejections.
type ValidationCode string

const (
	// ErrCodeEmptyComment indicates empty or whitespace-only comment text.
	ErrCodeEmptyComment ValidationCode = "EMPTY_COMMENT"

	// ErrCodeMissingField indicates a required input field was not supplied.
	ErrCodeMissingField ValidationCode = "MISSING_FIELD"

	// ErrCodeUnknownVideo indicates the target video is not in the feed.
	ErrCodeUnknownVideo ValidationCode = "UNKNOWN_VIDEO"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
