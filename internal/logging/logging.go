// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Format values accepted by Config.Format
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Config controls level and output format
type Config struct {
	Level      string `json:"level,omitempty"`       // debug, info, warn, error
	Format     string `json:"format,omitempty"`      // json or pretty
	TimeFormat string `json:"time_format,omitempty"` // defaults to RFC3339
}

// New builds a logger writing to out according to cfg
func New(out io.Writer, cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	if cfg.Format == FormatPretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Init replaces the global zerolog logger and returns it
func Init(cfg Config) zerolog.Logger {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}
	logger := New(os.Stderr, cfg)
	log.Logger = logger
	return logger
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
