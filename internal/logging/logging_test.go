package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		hasError bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			level, err := ParseLevel(test.input)
			if test.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, level)
			assert.Equal(t, strings.ToLower(strings.TrimSuffix(test.input, "ing")), LevelString(level))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig("")
	cfg.Format = FormatJSON
	cfg.Level = LevelDebug
	l := NewWriter(&buf, cfg)

	l.Info("session finished", "wpm", 42.5)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "session finished", record["msg"])
	assert.Equal(t, "ttt", record["component"])
	assert.Equal(t, 42.5, record["wpm"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, DefaultConfig(""))

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ttt.log")
	l, err := New(DefaultConfig(path))
	require.NoError(t, err)

	l.WithComponent("tui").Error("boom")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
	assert.Contains(t, string(data), "component=tui")
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, DefaultConfig(""))

	l.WithComponent("tui").Warn("slow frame")
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "component="))
	assert.Contains(t, out, "component=tui")
	assert.NotContains(t, out, "component=ttt")

	buf.Reset()
	l.WithComponent("tui").WithComponent("watch").Warn("reload")
	assert.Equal(t, 1, strings.Count(buf.String(), "component="))
	assert.Contains(t, buf.String(), "component=watch")

	buf.Reset()
	l.Warn("still root")
	assert.Contains(t, buf.String(), "component=ttt")
	assert.Equal(t, LevelWarn, l.WithComponent("tui").Level())
}

func TestWithComponentJSONHasSingleKey(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig("")
	cfg.Format = FormatJSON
	NewWriter(&buf, cfg).WithComponent("tui").Warn("x")

	assert.Equal(t, 1, strings.Count(buf.String(), `"component"`))
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "tui", record["component"])
}

func TestDiscard(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	l.Error("dropped")
	assert.NoError(t, l.Close())
}
