package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, WarnLevel, cfg.Level)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.True(t, cfg.Pretty)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected Level
	}{
		"upper debug":    {input: "DEBUG", expected: DebugLevel},
		"lower debug":    {input: "debug", expected: DebugLevel},
		"padded debug":   {input: "  DEBUG  ", expected: DebugLevel},
		"info":           {input: "info", expected: InfoLevel},
		"warn":           {input: "warn", expected: WarnLevel},
		"warning":        {input: "WARNING", expected: WarnLevel},
		"error":          {input: "error", expected: ErrorLevel},
		"unknown":        {input: "verbose", expected: WarnLevel},
		"empty defaults": {input: "", expected: WarnLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: WarnLevel, Output: &bytes.Buffer{}}) })

	Debug().Str("task", "T-1").Msg("aligned")

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"task":"T-1"`)
	assert.Contains(t, out, `"message":"aligned"`)
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: ErrorLevel, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: WarnLevel, Output: &bytes.Buffer{}}) })

	Debug().Msg("hidden")
	Warn().Msg("hidden too")
	Error().Msg("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "shown")
}

func TestWith_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: WarnLevel, Output: &bytes.Buffer{}}) })

	log := With("gate")
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"gate"`)
}
