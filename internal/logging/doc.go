// Package logging provides structured logging utilities for gsamples.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Terminal-friendly text output rendered by charmbracelet/log, or JSON
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Build the process logger once from the command line settings:
//
//	logger, err := logging.New(os.Stderr, "info", logging.FormatText)
//	logger.Info("event inserted", logging.Service("calendar"))
//
// # Security Considerations
//
// Tokens are never logged directly; use SanitizeToken or Token.
package logging
