// Package obslog wraps zerolog in the thin shape the rest of the module
// needs: a structured logger that satisfies ijgp.Logger without pulling
// zerolog's types into pkg/ijgp itself.
package obslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level selects a minimum severity to emit.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer // defaults to os.Stderr
}

// Logger is a structured logger over zerolog, satisfying ijgp.Logger's
// single-method Debug surface plus the broader severities the rest of the
// program uses for operational messages.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	z := zerolog.New(out).With().Timestamp().Logger()
	switch cfg.Level {
	case LevelDebug:
		z = z.Level(zerolog.DebugLevel)
	case LevelWarn:
		z = z.Level(zerolog.WarnLevel)
	case LevelError:
		z = z.Level(zerolog.ErrorLevel)
	default:
		z = z.Level(zerolog.InfoLevel)
	}
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything, for tests and callers that
// don't want diagnostics.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

func (l *Logger) event(e *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

// Debug implements ijgp.Logger: it is the hook IJGP propagation and sampling
// use for per-iteration diagnostics.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.event(l.z.Debug(), msg, fields)
}

// Info logs a routine operational message.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.event(l.z.Info(), msg, fields)
}

// Warn logs a recoverable anomaly.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.event(l.z.Warn(), msg, fields)
}

// Error logs a failure, optionally attaching err.
func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	e := l.z.Error()
	if err != nil {
		e = e.Err(err)
	}
	l.event(e, msg, fields)
}
