package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a configured level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates the application logger writing to stdout.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	return NewLoggerWithOutput(cfg, os.Stdout)
}

// NewLoggerWithOutput creates a logger writing to out. The level applies to
// this logger only; the global level is left alone.
func NewLoggerWithOutput(cfg LoggerConfig, out io.Writer) zerolog.Logger {
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "gofresh").
		Logger()
}
