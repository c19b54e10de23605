// Package util provides low-level helpers shared by all other packages.
package util

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// levelVerbose sits between slog's Debug and Info.
const levelVerbose = slog.LevelDebug + 2

func (lv LogLevel) slogLevel() slog.Level {
	switch {
	case lv <= LogQuiet:
		return slog.LevelError
	case lv == LogNormal:
		return slog.LevelInfo
	case lv == LogVerbose:
		return levelVerbose
	default:
		return slog.LevelDebug
	}
}

// Logger writes levelled diagnostics to stderr.  When the output is a
// terminal records are rendered as slog text; otherwise as JSON so that
// piped stderr stays machine-readable.
type Logger struct {
	level      LogLevel
	output     io.Writer
	timestamps bool
	attrs      []any
	log        *slog.Logger
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = errors only, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	l := &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stderr,
		timestamps: verbosity >= 3, // auto-enable timestamps in debug mode
	}
	l.rebuild()
	return l
}

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
	l.rebuild()
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// With returns a Logger that adds the given key/value pairs to every
// record.
func (l *Logger) With(args ...any) *Logger {
	child := *l
	child.attrs = append(append([]any(nil), l.attrs...), args...)
	child.rebuild()
	return &child
}

// Info prints when verbosity ≥ 1.
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(slog.LevelInfo, format, args...)
}

// Warn prints when verbosity ≥ 1.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(slog.LevelWarn, format, args...)
}

// Verbose prints when verbosity ≥ 2.
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.logf(levelVerbose, format, args...)
}

// Debug prints when verbosity ≥ 3.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(slog.LevelDebug, format, args...)
}

// Error always prints regardless of verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(slog.LevelError, format, args...)
}

func (l *Logger) logf(level slog.Level, format string, args ...interface{}) {
	ctx := context.Background()
	if !l.log.Enabled(ctx, level) {
		return
	}
	l.log.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{
		Level:       l.level.slogLevel(),
		ReplaceAttr: l.replaceAttr,
	}
	var h slog.Handler
	if IsTerminal(l.output) {
		h = slog.NewTextHandler(l.output, opts)
	} else {
		h = slog.NewJSONHandler(l.output, opts)
	}
	l.log = slog.New(h).With(l.attrs...)
}

func (l *Logger) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		if !l.timestamps {
			return slog.Attr{}
		}
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == levelVerbose {
			a.Value = slog.StringValue("VERBOSE")
		}
	}
	return a
}

// IsTerminal reports whether v is a file descriptor attached to a
// terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
