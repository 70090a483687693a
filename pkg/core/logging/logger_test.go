package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gnlog.Level
	}{
		{"trace", gnlog.LevelTrace},
		{"debug", gnlog.LevelDebug},
		{"info", gnlog.LevelInfo},
		{"warning", gnlog.LevelWarn},
		{" ERROR ", gnlog.LevelError},
		{"", gnlog.LevelWarn},
		{"loud", gnlog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("galnotes")
	if cfg.ServiceName != "galnotes" {
		t.Errorf("ServiceName = %v, want galnotes", cfg.ServiceName)
	}
	if cfg.Level != "warn" || cfg.Format != "text" {
		t.Errorf("Level/Format = %v/%v, want warn/text", cfg.Level, cfg.Format)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName: "galnotes",
		Level:       "info",
		Format:      "json",
		Output:      &buf,
	})

	logger.Debug("hidden")
	logger.Info("statement executed", gnlog.Fields{"input": "glob is I"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["message"] != "statement executed" {
		t.Errorf("message = %v, want statement executed", entry["message"])
	}
}

func TestNewLogger_AdditionalOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "galnotes",
		Level:             "warn",
		Format:            "bogus",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Warn("rule table reloaded")

	for name, buf := range map[string]*bytes.Buffer{"primary": &primary, "extra": &extra} {
		out := buf.String()
		if !strings.Contains(out, "[WRN] {galnotes} rule table reloaded") {
			t.Errorf("%s output = %q, want a text entry", name, out)
		}
	}
}
