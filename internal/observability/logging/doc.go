// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. The helpers here pick the handler
// (JSON by default, text for local runs), attach request IDs, and mask
// credentials before upstream errors reach the logs.
//
//	logger := logging.NewLogger()
//	logger.Warn("newsletter source failed",
//	    slog.String("source", src.Name()),
//	    slog.String("error", logging.SanitizeError(err)))
package logging
