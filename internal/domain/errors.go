package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrTooManyRequests = errors.New("too many requests")
)

// ValidationError is the caller's fault: malformed slug, empty title, bad
// paging. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a field-less validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConflictError represents a state-machine violation or a uniqueness clash.
// The caller may retry after reloading state.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // article, chapter, section, revision
	ResourceID   string // ID of the conflicting resource, if known
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ErrImmutablePublished is returned when a published article's structure
// is about to change.
func ErrImmutablePublished(articleID string) *ConflictError {
	return &ConflictError{
		Message:      "immutable published article",
		ResourceType: "article",
		ResourceID:   articleID,
	}
}

// InternalError wraps failures that are neither the caller's fault nor a
// conflict, e.g. a snapshot that cannot be serialized.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error   { return e.Err }

// Is allows errors.Is() to match against ErrInternal
func (e *InternalError) Is(target error) bool { return target == ErrInternal }
