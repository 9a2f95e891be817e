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

func TestNew(t *testing.T) {
	t.Run("json output carries attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: LevelDebug, Format: FormatJSON, Writer: &buf})
		require.NoError(t, err)

		logger.With("component", "coordinator").Debug("gate ready", "policy", "blocking")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "gate ready", entry["msg"])
		assert.Equal(t, "coordinator", entry["component"])
		assert.Equal(t, "blocking", entry["policy"])
	})

	t.Run("level filters lower messages", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: LevelWarn, Writer: &buf})
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		_, err := New(Options{Format: "xml"})
		require.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
	assert.Len(t, ValidLevels(), 4)
	assert.True(t, strings.EqualFold(ValidLevels()[0], "debug"))
}
