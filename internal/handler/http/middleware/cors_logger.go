package middleware

import (
	"log/slog"
)

// SlogAdapter adapts a *slog.Logger to CORSLogger.
type SlogAdapter struct {
	Logger *slog.Logger
}

// Warn logs at warn level.
func (a *SlogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.Logger.Warn(msg, attrs(fields)...)
}

// Debug logs at debug level.
func (a *SlogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.Logger.Debug(msg, attrs(fields)...)
}

func attrs(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return args
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// Warn does nothing.
func (NoOpLogger) Warn(string, map[string]interface{}) {}

// Debug does nothing.
func (NoOpLogger) Debug(string, map[string]interface{}) {}
