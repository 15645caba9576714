package util

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"invalid", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			logger := NewLogger(tt.in, &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	logger.Warn().Str("ticker", "MSFT").Msg("unknown ticker")

	assert.Contains(t, buf.String(), `"ticker":"MSFT"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNop(t *testing.T) {
	t.Parallel()
	assert.Equal(t, zerolog.Disabled, Nop().GetLevel())
}
