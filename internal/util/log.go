package util

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a timestamped logger writing to w (stdout when nil).
// An unknown level falls back to info.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// NewConsoleLogger is NewLogger with human readable output, used by the CLI.
func NewConsoleLogger(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(level, zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
}

// Nop is the logger components fall back to when none is supplied.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
