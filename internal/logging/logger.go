// Package logging configures structured zerolog output for the conscious
// binaries. Library packages never call Setup; they take an injected
// zerolog.Logger and default to zerolog.Nop().
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level   string // debug, info, warn, error, fatal (default: info)
	File    string // optional append-only log file
	Console bool   // write to stderr
	Pretty  bool   // human-readable console output instead of JSON
	NoColor bool   // disable ANSI colors in pretty output
}

// DefaultConfig returns console JSON logging at info.
func DefaultConfig() Config {
	return Config{Level: "info", Console: true}
}

// ParseLevel maps a level name onto a zerolog level. Unknown or empty names
// default to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds the process logger, sets the global level and replaces
// log.Logger. The returned closer releases the log file, if any.
func Setup(cfg Config) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	closer := io.Closer(nopCloser{})

	if cfg.Console {
		if cfg.Pretty {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "15:04:05",
				NoColor:    cfg.NoColor,
			})
		} else {
			writers = append(writers, os.Stderr)
		}
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "conscious").
		Logger()
	log.Logger = logger
	return logger, closer, nil
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
