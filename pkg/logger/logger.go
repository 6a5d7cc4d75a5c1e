package logger

import (
	"context"
	"io"
)

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)

	// With returns a new logger with additional fields
	With(fields ...Field) Logger

	// WithContext returns a logger carrying the trace identifiers found in ctx
	WithContext(ctx context.Context) Logger

	// Sync flushes any buffered log entries
	Sync() error
}

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a string slice field
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: values}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// Level represents the log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel maps a level name to a Level, falling back to InfoLevel
func ParseLevel(s string) Level {
	switch Level(s) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return Level(s)
	}
	return InfoLevel
}

// Format represents the log output format
type Format string

const (
	// JSONFormat outputs logs in JSON format
	JSONFormat Format = "json"
	// ConsoleFormat outputs logs in human-readable console format
	ConsoleFormat Format = "console"
)

// ParseFormat maps a format name to a Format, falling back to JSONFormat
func ParseFormat(s string) Format {
	if Format(s) == ConsoleFormat {
		return ConsoleFormat
	}
	return JSONFormat
}

// Config holds logger configuration
type Config struct {
	Level  Level
	Format Format
	// Output defaults to os.Stderr
	Output io.Writer
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:  InfoLevel,
		Format: JSONFormat,
	}
}
