// Package logging provides structured logging for the clihub CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package. Attribute values whose keys look like
// secrets (tokens, API keys, passwords) are masked before output.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("imported servers", "client", "claude", "count", 3)
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework.
// Use [NewDiscard] when log output should be suppressed entirely.
package logging
