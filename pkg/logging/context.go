package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a private type so context keys cannot collide.
type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context's logger, or the default logger when
// none was stored.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRunID tags the context and its logger with a sync run ID so every
// event from one pipeline run can be correlated.
func WithRunID(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, runID)
	return withStr(ctx, "run_id", runID)
}

// RunID returns the sync run ID stored in the context, if any.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithArtifact tags the context's logger with the artifact being worked on.
func WithArtifact(ctx context.Context, artifact string) context.Context {
	return withStr(ctx, "artifact", artifact)
}

// WithFieldKey tags the context's logger with a field definition key.
func WithFieldKey(ctx context.Context, key string) context.Context {
	return withStr(ctx, "field_key", key)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
