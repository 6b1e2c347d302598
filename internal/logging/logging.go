package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch s {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	}
	return LevelInfo
}

// Logger provides leveled logging to stderr and an optional log file.
type Logger struct {
	level Level
	out   *log.Logger
	file  *os.File
}

// New creates a logger. If logfile is non-empty the log lines are written
// there instead of stderr; the caller owns Close.
func New(level Level, logfile string) (*Logger, error) {
	var w io.Writer = os.Stderr
	var f *os.File
	if logfile != "" {
		var err error
		f, err = os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open logfile: %w", err)
		}
		w = f
	}
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
		file:  f,
	}, nil
}

// NewDiscard returns a logger that swallows everything. Used in tests.
func NewDiscard() *Logger {
	return &Logger{level: LevelError, out: log.New(io.Discard, "", 0)}
}

// Close closes the underlying log file if one was opened.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		l.out.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		l.out.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.out.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.out.Printf("[DEBUG] "+format, args...)
	}
}
