package apperrors

import (
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error, including an aborted run.
	ExitErrorMismatch = 3   // Indicates a result mismatch between strategies or against the reference.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitInterrupted   = 130 // Indicates the user stopped the program before the run completed.
)

// ConfigError represents a user configuration error, such as an unknown mode
// string or a non-positive worker count. It is always raised before any
// worker goroutine is started.
type ConfigError struct {
	// Field names the offending setting (e.g., "threads"). May be empty.
	Field string
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - field: The configuration field at fault.
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(field, format string, a ...any) error {
	return ConfigError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce ConfigError
	return errors.As(err, &ce)
}

// WorkerError records the fatal failure of a single worker. The run that
// owned the worker is aborted and no partial result is returned.
type WorkerError struct {
	// Worker is the zero-based index of the failed worker.
	Worker int
	// Candidate is the integer being examined when the failure occurred.
	Candidate int
	// Cause is the underlying error (an oracle error or a recovered panic).
	Cause error
}

// Error returns a message identifying the worker, candidate and cause.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed on candidate %d: %v", e.Worker, e.Candidate, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e WorkerError) Unwrap() error { return e.Cause }

// MismatchError reports that two result sets that must be equal are not.
type MismatchError struct {
	// Expected and Actual label the two sides being compared.
	Expected string
	Actual   string
	// Missing holds values present in Expected but not in Actual.
	Missing []int
	// Extra holds values present in Actual but not in Expected.
	Extra []int
}

// Error returns a summary of the difference.
func (e MismatchError) Error() string {
	return fmt.Sprintf("%s disagrees with %s: %d missing, %d unexpected",
		e.Actual, e.Expected, len(e.Missing), len(e.Extra))
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var mismatch MismatchError
	switch {
	case IsConfigError(err):
		return ExitErrorConfig
	case errors.As(err, &mismatch):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}
