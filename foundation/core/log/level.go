// File: level.go
// Title: Log Level Definitions
// Description: Defines log levels for filtering log output. Trace is used for
//              per-instruction engine traces, Debug for per-stage results.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-14 v0.2.0: Dropped audit level, name table replaces switches

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelTrace is the most verbose level, one entry per executed instruction
	LevelTrace Level = iota

	// LevelDebug provides per-stage information (tokens, trees, programs)
	LevelDebug

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarn indicates rejected statements and degraded collaborators
	LevelWarn

	// LevelError represents error conditions that need attention
	LevelError

	// LevelFatal represents errors after which the process cannot continue
	LevelFatal
)

var levelNames = [...]struct{ long, short string }{
	LevelTrace: {"trace", "TRC"},
	LevelDebug: {"debug", "DBG"},
	LevelInfo:  {"info", "INF"},
	LevelWarn:  {"warn", "WRN"},
	LevelError: {"error", "ERR"},
	LevelFatal: {"fatal", "FTL"},
}

// String returns the lower-case level name
func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l].long
}

// ShortString returns the three-letter tag used by the text formatter
func (l Level) ShortString() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "???"
	}
	return levelNames[l].short
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	return l >= minLevel
}

// ParseLevel accepts the long name, the three-letter tag and "warning" /
// "information", case-insensitively. Unknown input yields LevelInfo and a
// *ParseError.
func ParseLevel(level string) (Level, error) {
	in := strings.ToLower(strings.TrimSpace(level))
	switch in {
	case "warning":
		return LevelWarn, nil
	case "information":
		return LevelInfo, nil
	}
	for l, name := range levelNames {
		if in == name.long || in == strings.ToLower(name.short) {
			return Level(l), nil
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel returns the default log level
func DefaultLevel() Level {
	return LevelWarn
}
