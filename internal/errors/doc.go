// Package errors provides error handling conventions for the clihub CLI.
//
// This package defines sentinel error kinds for the failure classes the sync
// engine distinguishes, an ExitError type for CLI exit code handling, and
// exit code constants following standard Unix conventions.
//
// # Sentinel Kinds
//
// Sentinel kinds allow callers to check for specific failure classes using
// [errors.Is] while the wrapped chain keeps the human-readable reason:
//
//	if errors.Is(err, huberrors.ErrParse) {
//	    // the live file is malformed; block rather than treat as empty
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, database, permissions, etc.)
package errors
