package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("hello", "client", "claude")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "client=claude")
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("synced", "count", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "synced", record["msg"])
	assert.Equal(t, float64(2), record["count"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{5, slog.LevelDebug},
		{-1, slog.LevelWarn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestHandlerMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("provider configured", "api_key", "sk-abcdef123456")

	out := buf.String()
	assert.NotContains(t, out, "sk-abcdef123456")
	assert.Contains(t, out, "sk-a")
}

func TestShouldMask(t *testing.T) {
	assert.True(t, ShouldMask("API_KEY"))
	assert.True(t, ShouldMask("auth_token"))
	assert.True(t, ShouldMask("Password"))
	assert.False(t, ShouldMask("command"))
	assert.False(t, ShouldMask("url"))
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", MaskValue("abc"))
	masked := MaskValue("sk-secret-value")
	assert.True(t, strings.HasPrefix(masked, "sk-s"))
	assert.NotContains(t, masked, "secret-value")
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	// Must not panic and must swallow output.
	logger.Error("nothing to see")
}
