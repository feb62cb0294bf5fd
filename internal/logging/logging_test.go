package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_ErrorCarriesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "INFO")

	log.Error("query failed", "error", "boom")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "query failed", rec["msg"])
	assert.Equal(t, "boom", rec["error"])
	assert.NotEmpty(t, rec["stacktrace"])
}

func TestNew_InfoHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "INFO").With("component", "test")

	log.Info("started")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "test", rec["component"])
	_, ok := rec["stacktrace"]
	assert.False(t, ok)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "WARN")

	log.Info("hidden")
	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "al***@example.com", MaskEmail("alice@example.com"))
	assert.Equal(t, "a***@b.co", MaskEmail("a@b.co"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
}

func TestNew_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "INFO")

	ctx := WithRequestID(context.Background(), "req-123")
	log.InfoContext(ctx, "handled")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-123", rec["request_id"])

	id, ok := RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", id)

	_, ok = RequestIDFromContext(context.Background())
	assert.False(t, ok)
}
