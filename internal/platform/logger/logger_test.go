// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(input), "level %q", input)
	}
}

func TestNew_JSONOutputRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := logger.New(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", "task_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "abc", entry["task_id"])
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := logger.New(&buf, "info", "text")
	require.NoError(t, err)

	l.Info("hello", "component", "test")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "component=test")
}

func TestNew_InvalidLevelWarnsAndDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := logger.New(&buf, "loud", "json")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "invalid log level configured")

	buf.Reset()
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := logger.New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	scoped := slog.New(slog.NewJSONHandler(&buf, nil)).With("trace_id", "t-1")

	// Without a logger in context the fallback is used
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))

	ctx := logger.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, scoped, logger.FromContext(ctx))

	logger.FromContext(ctx).Info("scoped message")
	assert.Contains(t, buf.String(), `"trace_id":"t-1"`)
}

func TestForComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)).With("component", "task_store")
	scoped := slog.New(slog.NewJSONHandler(&buf, nil)).With("trace_id", "t-2")

	assert.Same(t, fallback, logger.ForComponent(context.Background(), fallback, "task_store"))

	ctx := logger.WithLogger(context.Background(), scoped)
	logger.ForComponent(ctx, fallback, "task_store").Info("request scoped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "t-2", entry["trace_id"])
	assert.Equal(t, "task_store", entry["component"])
}
