package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(zerolog.New(&buf), "kernel")
	logger.Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kernel", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestSetup_FileOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	path := filepath.Join(t.TempDir(), "logs", "conscious.log")
	logger, closer, err := Setup(Config{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Str("k", "v").Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"message":"kept"`)
	assert.Contains(t, string(data), `"app":"conscious"`)
}

func TestSetup_NoWriters(t *testing.T) {
	logger, closer, err := Setup(Config{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	assert.NoError(t, closer.Close())
}
