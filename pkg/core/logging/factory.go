// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating process loggers from config
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"

	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format
	Format string // "text", "json" or "logfmt" (default: text)

	// Output writer (default: stderr, stdout carries answers)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "warn",
		Format:      "text",
	}
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *gnlog.Logger {
	// Determine log level
	level := parseLevel(cfg.Level)

	// Build output writer
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	// Determine format
	format, err := gnlog.ParseFormat(cfg.Format)
	if err != nil {
		format = gnlog.FormatText
	}

	return gnlog.NewWithConfig(gnlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *gnlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// parseLevel converts a string level to gnlog.Level
func parseLevel(level string) gnlog.Level {
	parsed, err := gnlog.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return gnlog.DefaultLevel()
	}
	return parsed
}
