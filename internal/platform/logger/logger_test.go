package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "unknown level falls back to info", level: "verbose"},
		{name: "case insensitive", level: "DEBUG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(LoggerConfig{Level: tc.level})
			require.NoError(t, err)
			assert.NotNil(t, log)
			assert.Same(t, log, slog.Default(), "Setup should install the logger as default")
		})
	}
}

func TestLoggerContextCarriage(t *testing.T) {
	t.Parallel()

	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), scoped)

	assert.Same(t, scoped, FromContext(ctx))
	assert.Same(t, scoped, FromContextOrDefault(ctx, nil))

	// Without an attached logger the fallbacks apply.
	empty := context.Background()
	assert.Same(t, slog.Default(), FromContext(empty))

	def := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, def, FromContextOrDefault(empty, def))
	assert.Same(t, slog.Default(), FromContextOrDefault(empty, nil))
}
