package errors

import (
	"errors"
	"fmt"
)

// Session errors: surfaced to the caller, never crash the orchestrator.
var (
	ErrUnknownSession    = errors.New("unknown session")
	ErrSessionNotRunning = errors.New("session not running")
	ErrDuplicateFinding  = errors.New("duplicate finding")
	ErrResultsNotReady   = errors.New("results not ready")
	ErrInvalidSeverity   = errors.New("invalid severity")
)

// Report errors: pure, side-effect-free failures.
var (
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrNoData            = errors.New("no data to report")
)

// Validation failure reasons.
const (
	InvalidTarget = "invalid_target"
	InvalidBound  = "invalid_bound"
	InvalidOption = "invalid_option"
)

type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s (value: %v): %s", e.Field, e.Value, e.Reason)
}

func NewValidationError(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// BackendError wraps an unrecoverable error reported by the scanning
// backend. It always terminates the owning session as failed.
type BackendError struct {
	Stage string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed: %v", e.Stage, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func NewBackendError(stage string, err error) *BackendError {
	return &BackendError{
		Stage: stage,
		Err:   err,
	}
}
