// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the level of logging
type LogLevel int

const (
	// Debug log level
	DebugLevel LogLevel = iota
	// Info log level
	InfoLevel
	// Warning log level
	WarningLevel
	// Error log level
	ErrorLevel
)

// Logger interface defines methods for logging at different levels
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Config contains logger configuration
type Config struct {
	Level LogLevel
	File  string
	// MaxSizeBytes rotates File once it grows past this size. Zero disables rotation
	// and falls back to a plain append-only file, matching the pre-rotation behavior.
	MaxSizeBytes int64
	// MaxBackups caps the number of rotated files kept alongside File. Ignored when
	// MaxSizeBytes is zero.
	MaxBackups int
	// AlsoStderr tees log output to stderr in addition to File, useful when running
	// under a supervisor that captures stderr.
	AlsoStderr bool
}

// DefaultLogger implements the Logger interface using the standard log package
type DefaultLogger struct {
	level    LogLevel
	stdFlags int
}

// NewDefaultLogger creates a new default logger with the specified log level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level:    level,
		stdFlags: log.LstdFlags | log.Lshortfile,
	}
}

// Configure sets up the logger with given configuration
func Configure(config Config) (*DefaultLogger, error) {
	logger := NewDefaultLogger(config.Level)
	log.SetFlags(logger.stdFlags)

	// If log file is specified, set up file logging
	if config.File != "" {
		// Create directory if it doesn't exist
		dir := filepath.Dir(config.File)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}

		var fileWriter io.Writer
		if config.MaxSizeBytes > 0 {
			// lumberjack rotates by whole megabytes; the byte budget is rounded down and
			// clamped to at least 1 so a sub-1MB budget still rotates rather than
			// silently growing unbounded.
			maxMB := config.MaxSizeBytes / (1024 * 1024)
			if maxMB < 1 {
				maxMB = 1
			}
			maxBackups := config.MaxBackups
			if maxBackups <= 0 {
				maxBackups = 10
			}
			fileWriter = &lumberjack.Logger{
				Filename:   config.File,
				MaxSize:    int(maxMB),
				MaxBackups: maxBackups,
				Compress:   true,
			}
		} else {
			f, err := os.OpenFile(config.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file %s: %w", config.File, err)
			}
			fileWriter = f
		}

		if config.AlsoStderr {
			log.SetOutput(io.MultiWriter(os.Stderr, fileWriter))
		} else {
			log.SetOutput(fileWriter)
		}
	}

	return logger, nil
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	if l.level <= DebugLevel {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an informational message
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	if l.level <= InfoLevel {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	if l.level <= WarningLevel {
		log.Printf("[WARNING] "+format, args...)
	}
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	if l.level <= ErrorLevel {
		log.Printf("[ERROR] "+format, args...)
	}
}
