package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelInfo, logging.FormatJSON)
	log.SetOutput(&buf)

	log.Info("report generated", map[string]any{"event": "20240101"})

	var entry logging.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, logging.LevelInfo, entry.Level)
	assert.Equal(t, "report generated", entry.Message)
	assert.Equal(t, "20240101", entry.Fields["event"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelWarn, logging.FormatJSON)
	log.SetOutput(&buf)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")
	log.Error("also shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelInfo, logging.FormatText)
	log.SetOutput(&buf)

	log.Info("index written", map[string]any{"view": "hardness"})

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "index written")
	assert.Contains(t, out, "view=hardness")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelInfo, logging.FormatJSON)
	log.SetOutput(&buf)

	derived := log.WithFields(map[string]any{"run": "flight"})
	derived.SetOutput(&buf)
	derived.Info("starting")

	var entry logging.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "flight", entry.Fields["run"])
}

func TestLogger_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelInfo, logging.FormatJSON)
	log.SetOutput(&buf)

	log.ErrorErr("fetch failed", assert.AnError, map[string]any{"tag": "goes"})

	var entry logging.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, assert.AnError.Error(), entry.Fields["error"])
	assert.Equal(t, "goes", entry.Fields["tag"])
}
