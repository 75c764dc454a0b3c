package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		opts        Options
		want        zerolog.Level
	}{
		{"prod default", "", Options{}, zerolog.InfoLevel},
		{"unknown environment", "staging", Options{}, zerolog.InfoLevel},
		{"dev", "DEV", Options{}, zerolog.DebugLevel},
		{"explicit level", "prod", Options{Level: "WARN"}, zerolog.WarnLevel},
		{"bad level ignored", "prod", Options{Level: "loud"}, zerolog.InfoLevel},
		{"debug flag", "prod", Options{Level: "error", Debug: true}, zerolog.DebugLevel},
		{"trace wins", "prod", Options{Debug: true, Trace: true}, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.environment, tt.opts))
		})
	}
}

func TestInitWritesToOutput(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	level := Init(Options{Level: "warn", Out: &buf})
	assert.Equal(t, zerolog.WarnLevel, level)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
