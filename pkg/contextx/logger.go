package contextx

import (
	"context"
	"log/slog"
)

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return withValue(ctx, logger)
}

func LoggerFromContext(ctx context.Context) (*slog.Logger, error) {
	return valueFrom[*slog.Logger](ctx, "logger")
}

// LoggerFromContextOrDefault never returns nil: it falls back to
// slog.Default when the context carries no logger.
func LoggerFromContextOrDefault(ctx context.Context) *slog.Logger {
	logger, err := LoggerFromContext(ctx)
	if err != nil || logger == nil {
		return slog.Default()
	}

	return logger
}
