// Package logging provides structured logging with slog for ttt.
//
// The typing UI owns the terminal, so log records go to a file rather than
// stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level represents a logging level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format represents the output format for logs.
type Format int

const (
	// FormatText outputs human-readable text logs.
	FormatText Format = iota
	// FormatJSON outputs JSON-structured logs.
	FormatJSON
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level Level

	// Format is the output format (text or JSON).
	Format Format

	// FilePath is the log file. Empty discards all records.
	FilePath string

	// Component is added to every record.
	Component string
}

// DefaultConfig returns a configuration writing warnings to path.
func DefaultConfig(path string) *Config {
	return &Config{
		Level:     LevelWarn,
		Format:    FormatText,
		FilePath:  path,
		Component: "ttt",
	}
}

// Logger wraps slog.Logger and the file it writes to.
type Logger struct {
	*slog.Logger
	// base is the handler before the component attribute is attached.
	base  slog.Handler
	level Level
	mu    sync.Mutex
	file  *os.File
}

func newLogger(base slog.Handler, level Level, component string) *Logger {
	handler := base
	if component != "" {
		handler = base.WithAttrs([]slog.Attr{slog.String("component", component)})
	}
	return &Logger{Logger: slog.New(handler), base: base, level: level}
}

// New creates a Logger with the given configuration.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		return Discard(), nil
	}
	var (
		w    io.Writer = io.Discard
		file *os.File
	)
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		w = f
	}
	l := newLogger(newHandler(w, cfg), cfg.Level, cfg.Component)
	l.file = file
	return l, nil
}

// NewWriter creates a Logger writing to w, mainly for tests.
func NewWriter(w io.Writer, cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig("")
	}
	return newLogger(newHandler(w, cfg), cfg.Level, cfg.Component)
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return newLogger(slog.NewTextHandler(io.Discard, nil), LevelError, "")
}

func newHandler(w io.Writer, cfg *Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return handler
}

// WithComponent returns a logger whose records carry name in place of the
// configured component.
func (l *Logger) WithComponent(name string) *Logger {
	return newLogger(l.base, l.level, name)
}

// Level returns the minimum level the logger records.
func (l *Logger) Level() Level {
	return l.level
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel parses a string into a log level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", s)
	}
}

// LevelString returns the string representation of a log level.
func LevelString(level Level) string {
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}
