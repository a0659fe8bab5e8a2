package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/waxworks/shellac/pkg/logging"
)

func TestDefaultLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	out := buf.String()
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "warning message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	ctx = logging.WithArtifact(ctx, "defs")
	ctx = logging.WithFieldKey(ctx, "artist")

	logging.FromContext(ctx).Info().Msg("test message")

	assert.True(t, testLogger.ContainsAll("defs", "artist", "test message"))
}

func TestFromContextFallsBack(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Equal(t, logging.Default(), logging.FromContext(nil)) //nolint:staticcheck // nil context fallback is the point
}

func TestRunIDContext(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	ctx = logging.WithRunID(ctx, "run-1234")
	assert.Equal(t, "run-1234", logging.RunID(ctx))
	assert.Empty(t, logging.RunID(context.Background()))

	logging.FromContext(ctx).Info().Msg("pipeline start")
	testLogger.AssertContains(t, "run-1234")
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *logging.Config
		check  func(t *testing.T, output string)
	}{
		{
			name:   "debug level",
			config: &logging.Config{Level: "debug", Format: "json"},
			check: func(t *testing.T, output string) {
				assert.Contains(t, output, `"level":"debug"`)
			},
		},
		{
			name:   "error level only",
			config: &logging.Config{Level: "error", Format: "json"},
			check: func(t *testing.T, output string) {
				assert.NotContains(t, output, `"level":"info"`)
			},
		},
		{
			name:   "warning alias",
			config: &logging.Config{Level: "warning", Format: "json"},
			check: func(t *testing.T, output string) {
				assert.NotContains(t, output, `"level":"info"`)
				assert.Contains(t, output, `"level":"error"`)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(tc.config).Output(buf)

			logger.Debug().Msg("debug")
			logger.Info().Msg("info")
			logger.Error().Msg("error")

			tc.check(t, buf.String())
		})
	}
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Info().Msg("message 1")
	tl.Logger.Error().Msg("message 2")

	tl.AssertContains(t, "message 1")
	tl.AssertCount(t, 2)
	assert.Len(t, tl.Lines(), 2)

	tl.Clear()
	assert.Zero(t, tl.Count())
}
