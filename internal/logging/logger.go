package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// contextKey is the type for context keys
type contextKey string

// CommandKey is the context key for the CLI command being run
const CommandKey contextKey = "command"

// Logger wraps zerolog for application logging
type Logger struct {
	logger zerolog.Logger
}

// Config holds logging configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// New creates a logger writing JSON lines, or console text when Format is
// "text". Unknown levels fall back to info.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return &Logger{logger: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	log.Logger = logger.logger
}

// WithContext returns a logger carrying the command stored in ctx
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.logger.With()
	if command, ok := ctx.Value(CommandKey).(string); ok {
		logger = logger.Str("command", command)
	}
	contextLogger := logger.Logger()
	return &contextLogger
}

// Component returns a context logger tagged with the component name, for
// injection into packages that take a zerolog.Logger.
func (l *Logger) Component(ctx context.Context, name string) zerolog.Logger {
	return l.WithContext(ctx).With().Str("component", name).Logger()
}

// Operation starts an entry for a finished datastore call: debug when err
// is nil, error otherwise. The caller adds fields and sends it.
func Operation(logger zerolog.Logger, name string, duration time.Duration, err error) *zerolog.Event {
	event := logger.Debug()
	if err != nil {
		event = logger.Error()
	}
	return event.
		Str("operation", name).
		Dur("duration_ms", duration).
		Err(err)
}
