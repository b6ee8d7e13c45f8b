// Package apperrors provides structured application errors with HTTP status mapping.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for classification via errors.Is().
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal error")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrDownloadTimeout   = errors.New("download timeout")
	ErrDownloadFailed    = errors.New("download failed")
	ErrIO                = errors.New("i/o failure")
)

// Error provides structured error with context.
type Error struct {
	Sentinel   error  // Wrapped sentinel for errors.Is() classification
	Message    string // Human-readable message
	Field      string // For validation errors (e.g., "deployable", "container")
	Resource   string // For not found/conflict (e.g., "deployment")
	Identifier string // Raw identifier or coordinate being resolved
	StatusCode int    // HTTP status of a failed download
	StatusText string // HTTP reason phrase of a failed download
	ExitCode   int    // Exit code of a failed fetch command
	Op         string // Operation that failed (e.g., "download.create")
	Cause      error  // Underlying error
}

// Error returns the human-readable error message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel and the cause, so both errors.Is(err, ErrIO)
// and errors.Is(err, fs.ErrNotExist) work.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Cause}
}

// Validation creates a validation error for a specific field.
func Validation(field, message string) error {
	return &Error{
		Sentinel: ErrValidation,
		Message:  message,
		Field:    field,
	}
}

// NotFound creates a not found error for a resource.
func NotFound(resource, id string) error {
	return &Error{
		Sentinel: ErrNotFound,
		Message:  fmt.Sprintf("%s %s not found", resource, id),
		Resource: resource,
	}
}

// Conflict creates a conflict error for a resource.
func Conflict(resource, id, reason string) error {
	return &Error{
		Sentinel: ErrConflict,
		Message:  reason,
		Resource: resource,
	}
}

// Internal creates an internal error wrapping an underlying cause.
func Internal(op string, cause error) error {
	return &Error{
		Sentinel: ErrInternal,
		Message:  fmt.Sprintf("%s: %v", op, cause),
		Op:       op,
		Cause:    cause,
	}
}

// InvalidCoordinate creates an error for a malformed package coordinate.
func InvalidCoordinate(identifier, reason string) error {
	return &Error{
		Sentinel:   ErrInvalidCoordinate,
		Message:    reason,
		Identifier: identifier,
	}
}

// DownloadTimeout creates an error for a fetch or download that exceeded its bound.
func DownloadTimeout(identifier string, timeout time.Duration) error {
	msg := "timeout download " + identifier
	if timeout > 0 {
		msg += " after " + timeout.String()
	}
	return &Error{
		Sentinel:   ErrDownloadTimeout,
		Message:    msg,
		Identifier: identifier,
	}
}

// DownloadFailed creates an error for a download answered with a non-200 status.
func DownloadFailed(identifier string, statusCode int, statusText string) error {
	return &Error{
		Sentinel:   ErrDownloadFailed,
		Message:    fmt.Sprintf("can't download %s: %d %s", identifier, statusCode, statusText),
		Identifier: identifier,
		StatusCode: statusCode,
		StatusText: statusText,
	}
}

// FetchFailed creates an error for a package fetch that did not produce the expected file.
func FetchFailed(identifier string, exitCode int, output string) error {
	msg := fmt.Sprintf("fetch of %s did not produce the artifact (exit code %d)", identifier, exitCode)
	if output != "" {
		msg += ": " + output
	}
	return &Error{
		Sentinel:   ErrDownloadFailed,
		Message:    msg,
		Identifier: identifier,
		ExitCode:   exitCode,
	}
}

// IOFailure creates an error for a filesystem or stream failure.
func IOFailure(op, identifier string, cause error) error {
	return &Error{
		Sentinel:   ErrIO,
		Message:    fmt.Sprintf("%s %s: %v", op, identifier, cause),
		Identifier: identifier,
		Op:         op,
		Cause:      cause,
	}
}
