package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/streams/internal/logging"
)

func TestMultiHandler_FansOut(t *testing.T) {
	t.Parallel()

	var textBuf, jsonBuf bytes.Buffer
	textH := slog.NewTextHandler(&textBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	jsonH := slog.NewJSONHandler(&jsonBuf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(logging.NewMultiHandler(textH, jsonH))
	logger.Info("copied", "strategy", "block")

	assert.Contains(t, textBuf.String(), "copied")
	assert.Contains(t, textBuf.String(), "strategy=block")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &rec))
	assert.Equal(t, "copied", rec["msg"])
	assert.Equal(t, "block", rec["strategy"])
}

func TestMultiHandler_LevelFiltering(t *testing.T) {
	t.Parallel()

	var debugBuf, warnBuf bytes.Buffer
	debugH := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warnH := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(logging.NewMultiHandler(debugH, warnH))
	logger.Info("info msg")
	logger.Warn("warn msg")

	assert.Contains(t, debugBuf.String(), "info msg")
	assert.Contains(t, debugBuf.String(), "warn msg")

	assert.NotContains(t, warnBuf.String(), "info msg")
	assert.Contains(t, warnBuf.String(), "warn msg")
}

func TestMultiHandler_Enabled(t *testing.T) {
	t.Parallel()

	warnH := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	errH := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})

	m := logging.NewMultiHandler(warnH, errH)

	// Enabled if ANY handler accepts the level.
	assert.True(t, m.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, m.Enabled(context.Background(), slog.LevelError))
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	m := logging.NewMultiHandler(h)
	logger := slog.New(m.WithAttrs([]slog.Attr{slog.String("component", "copier")}).WithGroup("op"))

	logger.Info("done", "count", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
	assert.Equal(t, "copier", rec["component"])
	group, ok := rec["op"].(map[string]any)
	require.True(t, ok, "expected group 'op' in JSON output")
	assert.InDelta(t, 3, group["count"], 0)
}

func TestOptionsLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, logging.Options{}.Level())
	assert.Equal(t, slog.LevelWarn, logging.Options{Quiet: true}.Level())
	assert.Equal(t, slog.LevelDebug, logging.Options{Verbose: true}.Level())
}

func TestNewWritesJSONAtDebug(t *testing.T) {
	var stderr, jsonLog bytes.Buffer
	logger := logging.New(&stderr, logging.Options{Quiet: true, JSON: &jsonLog})

	logger.Debug("hidden on stderr")
	assert.Empty(t, stderr.String())
	assert.Contains(t, jsonLog.String(), "hidden on stderr")
}
