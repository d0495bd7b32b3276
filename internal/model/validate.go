package model

import (
	"encoding/json"
	"strings"
)

// Maximum lengths for the short tag columns, matching the schema.
const (
	maxSourceLen = 100
	maxTypeLen   = 100
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateDraft checks a client-submitted event draft for constraint
// violations. It returns a *ValidationError if any rules fail.
func ValidateDraft(d *EventDraft) error {
	var ve ValidationError

	if strings.TrimSpace(d.Source) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "source", Message: "is required"})
	} else if len([]rune(d.Source)) > maxSourceLen {
		ve.Errors = append(ve.Errors, FieldError{Field: "source", Message: "must be 100 characters or fewer"})
	}

	if strings.TrimSpace(d.Type) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "type", Message: "is required"})
	} else if len([]rune(d.Type)) > maxTypeLen {
		ve.Errors = append(ve.Errors, FieldError{Field: "type", Message: "must be 100 characters or fewer"})
	}

	// Payload is optional but must be valid JSON when present.
	if len(d.Payload) > 0 && !json.Valid(d.Payload) {
		ve.Errors = append(ve.Errors, FieldError{Field: "payload", Message: "must be valid JSON"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
