package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"Warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	var out, file bytes.Buffer
	logger := New(Options{Out: &out, File: &file, Level: "warn", NoColor: true})

	logger.Info().Msg("hidden")
	logger.Warn().Int("index", 3).Msg("clamped")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "clamped")
	assert.Contains(t, out.String(), "index=3")
	assert.Contains(t, file.String(), "clamped")
}

func TestNewContextHook(t *testing.T) {
	var out bytes.Buffer
	logger := New(Options{
		Out:     &out,
		Level:   "debug",
		NoColor: true,
		Context: func(e *zerolog.Event) { e.Str("t", "2.500s") },
	})

	logger.Debug().Msg("paused")
	assert.Contains(t, out.String(), "t=2.500s")
}
