package source

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for dataset fetches.
type ErrorCategory string

const (
	// ErrorTimeout indicates the source took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the source returned a payload that is not a trial list
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorOutage indicates the source is unreachable or answered 5xx
	ErrorOutage ErrorCategory = "outage"

	// ErrorNotFound indicates the endpoint does not exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected failure
	ErrorInternal ErrorCategory = "internal"
)

// FetchError wraps a failed dataset fetch with a normalized category.
type FetchError struct {
	Category   ErrorCategory
	Source     string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// NewFetchError creates a categorized fetch error.
func NewFetchError(category ErrorCategory, source, message string, underlying error) *FetchError {
	return &FetchError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ErrorInternal
}

// IsTransient reports whether the failure might clear on a later attempt.
// Views never retry on their own; callers use this to pick a status code.
func IsTransient(err error) bool {
	switch GetCategory(err) {
	case ErrorTimeout, ErrorOutage, ErrorRateLimited:
		return true
	default:
		return false
	}
}
