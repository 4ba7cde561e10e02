package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/colsync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "error message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithSession(ctx, "demo.main.customers", "demo.main.users")
	ctx = logging.WithColumn(ctx, "user_id")

	logging.FromContext(ctx).Info().Msg("matched")

	testLogger.AssertContains(t, `"source":"demo.main.customers"`)
	testLogger.AssertContains(t, `"target":"demo.main.users"`)
	testLogger.AssertContains(t, `"column":"user_id"`)
	testLogger.AssertContains(t, "matched")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestConfiguration(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	tests := []struct {
		name  string
		level string
		check func(t *testing.T, output string)
	}{
		{
			name:  "debug level",
			level: "debug",
			check: func(t *testing.T, output string) {
				assert.Contains(t, output, `"level":"debug"`)
			},
		},
		{
			name:  "error level only",
			level: "error",
			check: func(t *testing.T, output string) {
				assert.NotContains(t, output, `"level":"info"`)
				assert.Contains(t, output, `"level":"error"`)
			},
		},
		{
			name:  "unknown level falls back to info",
			level: "chatty",
			check: func(t *testing.T, output string) {
				assert.NotContains(t, output, `"level":"debug"`)
				assert.Contains(t, output, `"level":"info"`)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(&logging.Config{
				Level:  tc.level,
				Format: "json",
				Output: "discard",
			}).Output(buf)

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
	tl.AssertNotContains(t, "message 3")
	assert.Equal(t, 2, tl.Count())
	assert.True(t, strings.HasPrefix(tl.Lines()[0], "{"))

	tl.Clear()
	assert.Equal(t, 0, tl.Count())
}
