package infrastructure

import (
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID returns a fresh run identifier. Each tool invocation
// generates one and threads it through context, so every log line of a run
// correlates under the same trace_id.
func GenerateTraceID() string {
	return uuid.New().String()
}

// WithComponent returns a logger scoped to one pipeline component.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithError returns a logger carrying the error as a field. A nil error
// returns the logger unchanged.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}
