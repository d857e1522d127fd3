package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn", AppEnv: "production"})

	logger.Info("dropped")
	logger.Warn("kept", slog.String("page", "cases"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "casetrail", entry["service"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, "cases", entry["page"])
	assert.NotContains(t, entry, slog.SourceKey)
}

func TestNewLoggerTextDefaults(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, nil).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, &Config{LogLevel: "debug"}).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "service=casetrail")
	assert.Contains(t, buf.String(), "source=")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseLevel(raw), raw)
	}
}
