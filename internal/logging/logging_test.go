package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(&buf, Options{Level: "warn"})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("request timed out", "timeout", "30s")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "request timed out")
	assert.Contains(t, out, "timeout=30s")
}

func TestNew_JSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(&buf, Options{Format: "json"})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("starting request", "id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "starting request", rec["msg"])
	assert.EqualValues(t, 7, rec["id"])
}

func TestNew_TeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bench.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(&buf, Options{File: path})
	require.NoError(t, err)

	logger.Info("hello world")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
	assert.Contains(t, buf.String(), "hello world")
}

func TestNew_RejectsUnknownValues(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.Error(t, err)

	_, _, err = New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
