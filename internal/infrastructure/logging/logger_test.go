package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/payopt/internal/infrastructure/config"
)

func TestMavenHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "info"}).With("system", "optimizer")

	logger.Info("order allocated", "order_id", "ORDER1", "method", "mZysk", "note", "two words")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[INFO] [optimizer] ["), line)
	assert.Contains(t, line, "] order allocated order_id=ORDER1 method=mZysk")
	assert.Contains(t, line, `note="two words"`)
	assert.NotContains(t, line, "system=")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestMavenHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "warn"})

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown")
	logger.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[ERROR]")
}

func TestMavenHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "debug"})

	logger.WithGroup("run").With("id", "abc").Debug("done",
		slog.Group("used", slog.String("PUNKTY", "10.00")))

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "run.id=abc")
	assert.Contains(t, out, "run.used.PUNKTY=10.00")
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	logger.Info("batch complete", "orders", 4)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "batch complete", entry["msg"])
	assert.Equal(t, float64(4), entry["orders"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
