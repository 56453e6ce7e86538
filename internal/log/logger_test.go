package log_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/internal/log"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))

		entries = append(entries, entry)
	}

	return entries
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := log.New(log.Config{Level: "warn", Output: &buf, Service: "relay"})
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	componentLogger := log.WithComponent(logger, "bus")
	componentLogger.Warn().Str(log.FieldPipeline, "p1").Msg("kept")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
	assert.Equal(t, "relay", entries[0]["service"])
	assert.Equal(t, "bus", entries[0][log.FieldComponent])
	assert.Equal(t, "p1", entries[0][log.FieldPipeline])
	assert.Contains(t, entries[0], "time")
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := log.New(log.Config{Level: "loud"})
	require.ErrorIs(t, err, constants.ErrInvalidLogLevel)
}

func TestAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := log.New(log.Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	adapter := log.NewAdapter(logger)
	adapter.Debug("HTTP Request", map[string]interface{}{"method": "GET"})
	adapter.Info("info", nil)
	adapter.Warn("warn", nil)
	adapter.Error("Daemon Response Error", map[string]interface{}{"status": 404})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 4)
	assert.Equal(t, "debug", entries[0]["level"])
	assert.Equal(t, "GET", entries[0]["method"])
	assert.Equal(t, "gstc", entries[0]["service"])
	assert.Equal(t, "info", entries[1]["level"])
	assert.Equal(t, "warn", entries[2]["level"])
	assert.Equal(t, "error", entries[3]["level"])
	assert.InDelta(t, 404, entries[3]["status"], 0)
}
