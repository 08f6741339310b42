package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", "json", &buf)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Str("component", "led").Msg("shown")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "shown", m["message"])
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "led", m["component"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("", "console", &buf)
	require.NoError(t, err)
	l.Info().Msg("render loop started")
	assert.Contains(t, buf.String(), "render loop started")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestBadLevel(t *testing.T) {
	_, err := New("loud", "json", &bytes.Buffer{})
	assert.Error(t, err)
}
