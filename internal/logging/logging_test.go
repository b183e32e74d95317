package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewWritesJSONToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Development: true, AppName: "resume", AppVersion: "1.2.3", Output: &buf})

	componentLogger := Component(logger, "session")
	componentLogger.Info().Str("exchange_id", "x").Msg("session.exchange.started")
	logger.Debug().Msg("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "resume", entry["app"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "session.exchange.started", entry["message"])
	assert.Contains(t, entry, "time")
}
