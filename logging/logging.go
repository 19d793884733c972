// Package logging provides the leveled diagnostic logger used while decoding.
// Nothing logged here is part of the decode result; callers may pass Discard.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Level is the severity of a message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelOff
)

// Logger writes prefixed lines at or above its level.
type Logger struct {
	level  Level
	logger *log.Logger
}

// New returns a Logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, "kartdlc: ", log.LstdFlags),
	}
}

// Default logs warnings and errors to stderr.
func Default() *Logger {
	return New(os.Stderr, LevelWarn)
}

// Discard drops everything.
func Discard() *Logger {
	return New(io.Discard, levelOff)
}

// ParseLevel maps a level name to a Level, falling back to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debugf logs decoding trace.
func (l *Logger) Debugf(format string, v ...any) {
	l.printf(LevelDebug, "[DEBUG] ", format, v...)
}

// Infof logs progress.
func (l *Logger) Infof(format string, v ...any) {
	l.printf(LevelInfo, "[INFO] ", format, v...)
}

// Warnf logs recoverable problems such as a skipped save.
func (l *Logger) Warnf(format string, v ...any) {
	l.printf(LevelWarn, "[WARN] ", format, v...)
}

// Errorf logs failures.
func (l *Logger) Errorf(format string, v ...any) {
	l.printf(LevelError, "[ERROR] ", format, v...)
}

// Enabled reports whether messages at level would be written. A nil Logger
// is disabled.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.level <= level
}

func (l *Logger) printf(level Level, prefix, format string, v ...any) {
	if !l.Enabled(level) {
		return
	}
	l.logger.Printf(prefix+format, v...)
}
