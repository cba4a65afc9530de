package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, database, permissions, etc.).
	ExitSystem = 2
)

// Sentinel error kinds. Callers match them with [errors.Is] to branch on the
// failure class while the wrapped message carries the human-readable reason.
var (
	// ErrValidation indicates a server spec failed per-transport validation.
	// Recovered locally (skip and log) during bulk import; rejected outright
	// on a single explicit upsert.
	ErrValidation = errors.New("invalid server spec")

	// ErrParse indicates a live configuration file is syntactically malformed.
	// Always a hard error, never silently treated as "no servers".
	ErrParse = errors.New("malformed configuration file")

	// ErrSchema indicates a database schema version mismatch or a failed
	// migration. The store refuses further operations.
	ErrSchema = errors.New("incompatible database schema")

	// ErrImportValidation indicates an imported backup was structurally
	// well-formed but semantically empty or implausible. Rejected before
	// touching the live store.
	ErrImportValidation = errors.New("backup failed validation")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("resource not found")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI
// applications. It implements the error interface and supports unwrapping via
// errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
