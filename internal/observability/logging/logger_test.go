package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"favorite-feed/internal/handler/http/requestid"
)

func TestNewLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Options{Format: "json", Output: &buf})
		logger.Info("hello", slog.Int64("post_id", 7))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, float64(7), entry["post_id"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Options{Format: "TEXT", Output: &buf})
		logger.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "warn", Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Options{Output: &buf})

	ctx := requestid.WithRequestID(context.Background(), "req-42")
	WithRequestID(ctx, base).Info("with id")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	WithRequestID(context.Background(), base).Info("without id")
	assert.False(t, strings.Contains(buf.String(), "request_id"))
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := NewLogger(Options{Output: &bytes.Buffer{}})
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
