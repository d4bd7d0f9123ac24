package logging

import (
	"context"
	"log/slog"

	"poparch/internal/services"
)

// WithContext adds the command and movie recorded in ctx to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	scope := services.ScopeFrom(ctx)
	var args []any
	if scope.Command != "" {
		args = append(args, String(FieldCommand, scope.Command))
	}
	if scope.Movie != "" {
		args = append(args, String(FieldMovie, scope.Movie))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
