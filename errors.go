package convagent

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a provider answers without any candidate.
var ErrEmptyResponse = errors.New("empty response from provider")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the upstream was temporarily unable to serve
	// the request. Examples: rate limits, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error will not go away on its own.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request itself was rejected.
	// Examples: malformed request, invalid parameters, content policy violation.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int // HTTP status code if applicable, 0 otherwise
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg   string
	Cat   ErrorCategory
	Code  int   // HTTP status code, 0 if not applicable
	Cause error // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Msg {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// CategoryForStatus determines the error category from an HTTP status code.
func CategoryForStatus(code int) ErrorCategory {
	switch {
	case code == 429:
		return ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == 401 || code == 403:
		return ErrorPermanent
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// NewStatusError builds a categorized error for an upstream HTTP status.
// Provider adapters use it after extracting the status from their SDK's error type.
func NewStatusError(code int, cause error) *Error {
	return &Error{
		Msg:   cause.Error(),
		Cat:   CategoryForStatus(code),
		Code:  code,
		Cause: cause,
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as user input error.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}
