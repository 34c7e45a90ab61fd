// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (usage,
// configuration, exploration, server) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error, including usage errors.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ErrInvalidConfiguration is the sentinel matched by every ConfigError.
// Callers that construct registers programmatically can test for it with
// errors.Is without caring about the exact message.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError represents a configuration error, such as an invalid flag value
// or a malformed register definition. It indicates that the application
// cannot proceed due to incorrect input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// Is reports whether target is ErrInvalidConfiguration.
func (e ConfigError) Is(target error) bool { return target == ErrInvalidConfiguration }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// UsageError signals that the command line has the wrong shape (for example
// a missing or extra positional argument). The caller prints the short usage
// line and exits with ExitErrorGeneric.
type UsageError struct {
	// Message describes what was wrong with the invocation.
	Message string
}

// Error returns the error message for a UsageError.
func (e UsageError) Error() string { return e.Message }

// NewUsageError creates a new UsageError with a formatted message.
func NewUsageError(format string, a ...any) error {
	return UsageError{Message: fmt.Sprintf(format, a...)}
}

// IsUsageError reports whether err (or anything it wraps) is a UsageError.
func IsUsageError(err error) bool {
	var ue UsageError
	return errors.As(err, &ue)
}

// ExplorationError encapsulates an error raised while walking the state
// space, preserving the original cause.
type ExplorationError struct {
	// Polynomial is the feedback polynomial being explored.
	Polynomial string
	// Cause is the underlying error that aborted the exploration.
	Cause error
}

// Error returns the error message, prefixed with the polynomial when known.
func (e ExplorationError) Error() string {
	if e.Polynomial == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("exploring polynomial %s: %v", e.Polynomial, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e ExplorationError) Unwrap() error { return e.Cause }

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
// It combines the descriptive message and the underlying cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError reports an invalid HTTP API request parameter. The server
// answers it with 400.
type ValidationError struct {
	// Field is the name of the parameter that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e ValidationError) Unwrap() error { return e.Cause }

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
