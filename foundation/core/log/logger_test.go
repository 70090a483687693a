// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context fields, level filtering,
//              formatters and the structured error bridge.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2026-10-14 v0.2.0: Session context and error severity mapping

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func TestNewWithConfig(t *testing.T) {
	logger, _ := newBufferLogger(LevelError, FormatText)

	if logger.GetLevel() != LevelError {
		t.Errorf("NewWithConfig() level = %v, want %v", logger.GetLevel(), LevelError)
	}
	if logger.name != "test" {
		t.Errorf("NewWithConfig() name = %v, want test", logger.name)
	}
}

func TestLoggerWithFieldDoesNotMutateParent(t *testing.T) {
	parent, buf := newBufferLogger(LevelDebug, FormatLogfmt)
	child := parent.WithField("component", "galnotes-parser")

	if _, ok := parent.contextFields["component"]; ok {
		t.Error("WithField() should not modify the parent logger")
	}

	child.Info("parsed")
	if !strings.Contains(buf.String(), `component="galnotes-parser"`) {
		t.Errorf("output = %q, want component field", buf.String())
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(l *Logger)
		want  bool
	}{
		{"trace below debug", LevelDebug, func(l *Logger) { l.Trace("x") }, false},
		{"debug at debug", LevelDebug, func(l *Logger) { l.Debug("x") }, true},
		{"info below warn", LevelWarn, func(l *Logger) { l.Info("x") }, false},
		{"error above warn", LevelWarn, func(l *Logger) { l.Error("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.level, FormatText)
			tt.log(logger)
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithSessionID("abc").Info("statement executed", Fields{"output": "X V is 15"})

	var data map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if data["message"] != "statement executed" {
		t.Errorf("message = %v, want statement executed", data["message"])
	}
	if data["session_id"] != "abc" {
		t.Errorf("session_id = %v, want abc", data["session_id"])
	}
	if data["output"] != "X V is 15" {
		t.Errorf("output = %v, want X V is 15", data["output"])
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	f := &TextFormatter{DisableTimestamp: true}
	entry := NewEntry(LevelWarn, "rejected")
	entry.Fields["b"] = 2
	entry.Fields["a"] = 1

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[WRN] rejected [a=1 b=2]\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestLoggerLogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"plain error", errors.New("boom"), "error"},
		{"parse error", gnerror.New("How many of what?").WithCode(gnerror.CodeParse), "info"},
		{"history error", gnerror.New("disk full").WithCode(gnerror.CodeHistoryError), "warn"},
		{"translation error", gnerror.New("bad tree").WithCode(gnerror.CodeTranslation), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			var data map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if data["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", data["level"], tt.wantLevel)
			}
		})
	}
}

func TestLoggerLogErrorNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatText)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.IsLevelEnabled(LevelFatal) {
		t.Error("Discard() logger should not enable any level")
	}
	logger.Error("dropped")
}

func TestParseLevelAndFormat(t *testing.T) {
	if lvl, err := ParseLevel("WARNING"); err != nil || lvl != LevelWarn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("console"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(console) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
