package infra

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("production", &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Str("order_id", "7").Msg("order created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order created", entry["message"])
	assert.Equal(t, "7", entry["order_id"])
	assert.Equal(t, "flowershop", entry["service"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLoggerTestDiscards(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("test", &buf)
	logger.Error().Msg("boom")
	assert.Zero(t, buf.Len())
}
