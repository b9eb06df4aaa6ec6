package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesFieldsAndSource(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.DebugLevel))
	require.NoError(t, err)

	log.Error("fetch failed", errors.New("boom"), "league", "Standard", "status", 502)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "fetch failed", line["message"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "Standard", line["league"])
	assert.Equal(t, float64(502), line["status"])
	assert.Equal(t, "logger_test.go", line["file"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.WarnLevel))
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown", "dangling")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	log, err := NewLogger(WithFile(path))
	require.NoError(t, err)

	log.Info("to file", "k", "v")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, string(data), "k=v")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("nothing")
	log.Error("nothing", errors.New("x"))
	assert.NoError(t, log.Close())
}
