package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_ConsoleFollowsOutputTarget(t *testing.T) {
	tests := []struct {
		target string
		want   *os.File
	}{
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			cfg := &LoggerConfig{Env: "dev", Level: "info", Format: "console", OutputTarget: tt.target}
			cfg.setDefaults()

			console, ok := cfg.writer().(zerolog.ConsoleWriter)
			require.True(t, ok, "dev at info level should log to the console only")
			assert.Same(t, tt.want, console.Out)
		})
	}
}

func TestWriter_JSONUsesOutputTarget(t *testing.T) {
	cfg := &LoggerConfig{Env: "prod", Level: "info", Format: "json", OutputTarget: "stderr"}
	cfg.setDefaults()
	assert.Same(t, os.Stderr, cfg.writer())
}
