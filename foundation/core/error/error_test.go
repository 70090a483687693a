// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and the
//              chain helpers used by the interpreter stages.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-14 v0.2.0: Pipeline codes and chain helpers

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap stage error",
			err:      New("How many of what?").WithCode(CodeParse),
			message:  "statement rejected",
			wantMsg:  "statement rejected: How many of what?",
			wantCode: CodeParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.message)

			if tt.wantNil {
				if wrapped != nil {
					t.Errorf("Wrap() = %v, want nil", wrapped)
				}
				return
			}
			if wrapped == nil {
				t.Fatal("Wrap() returned nil")
			}
			if wrapped.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", wrapped.Error(), tt.wantMsg)
			}
			if wrapped.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", wrapped.Code(), tt.wantCode)
			}
		})
	}
}

func TestWrapInheritsDetails(t *testing.T) {
	inner := New("I don't know what ! is!").WithCode(CodeParse).WithDetail("lexeme", "!")
	outer := Wrap(inner, "line 3")

	if v, ok := outer.Detail("lexeme"); !ok || v != "!" {
		t.Errorf("Detail(lexeme) = %v, %v, want !, true", v, ok)
	}
	if outer.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want %v", outer.Severity(), SeverityLow)
	}
}

func TestErrorChaining(t *testing.T) {
	original := errors.New("root cause")
	middle := Wrap(original, "middle layer")
	top := Wrap(middle, "top layer")

	expected := "top layer: middle layer: root cause"
	if top.Error() != expected {
		t.Errorf("Error() = %q, want %q", top.Error(), expected)
	}
	if !errors.Is(top, middle) {
		t.Error("errors.Is() should find middle layer")
	}
	if !errors.Is(top, original) {
		t.Error("errors.Is() should find original error")
	}
}

func TestChainTruncation(t *testing.T) {
	var err error = New("deep").WithCode(CodeExecution)
	for i := 0; i < MaxErrorChainDepth+2; i++ {
		err = Wrap(err, fmt.Sprintf("layer %d", i))
	}

	var gnErr *Error
	if !errors.As(err, &gnErr) {
		t.Fatal("errors.As() should find *Error")
	}
	if v, _ := gnErr.Detail("truncated"); v != true {
		t.Errorf("Detail(truncated) = %v, want true", v)
	}
	if GetCode(err) != CodeExecution {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), CodeExecution)
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeParse, SeverityLow},
		{CodeDivisionByZero, SeverityLow},
		{CodeTranslation, SeverityHigh},
		{CodeUnknownOpcode, SeverityHigh},
		{CodeInvalidConfig, SeverityCritical},
		{CodeHistoryError, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}
}

func TestExplicitSeverityWins(t *testing.T) {
	err := New("x").WithSeverity(SeverityCritical).WithCode(CodeParse)
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityCritical)
	}
}

func TestHasCode(t *testing.T) {
	inner := New("division by zero").WithCode(CodeDivisionByZero)
	outer := Wrap(inner, "execution failed").WithCode(CodeExecution)
	plain := fmt.Errorf("driver: %w", outer)

	if !HasCode(plain, CodeDivisionByZero) {
		t.Error("HasCode() should find the inner code through fmt wrapping")
	}
	if !HasCode(plain, CodeExecution) {
		t.Error("HasCode() should find the outer code")
	}
	if HasCode(plain, CodeParse) {
		t.Error("HasCode() found a code that is not in the chain")
	}
	if GetCode(plain) != CodeExecution {
		t.Errorf("GetCode() = %v, want %v", GetCode(plain), CodeExecution)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() of a plain error should be CodeUnknown")
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeLexical, "lexical"},
		{CodeTree, "tree"},
		{CodeParse, "parse"},
		{CodeTranslation, "translation"},
		{CodeUndefinedVariable, "execution"},
		{CodeInvalidConfig, "configuration"},
		{CodeHistoryError, "history"},
		{CodeUnknown, "generic"},
	}

	for _, tt := range tests {
		if got := tt.code.Category(); got != tt.want {
			t.Errorf("%s.Category() = %q, want %q", tt.code, got, tt.want)
		}
		if !tt.code.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", tt.code)
		}
	}
	if Code("BOGUS").IsValid() {
		t.Error("Code(BOGUS).IsValid() = true, want false")
	}
}

func TestStringAndJSON(t *testing.T) {
	err := New("I don't know what foo is!").
		WithCode(CodeParse).
		WithOperation("parser.Parse").
		WithSessionID("s-1").
		WithDetail("lexeme", "foo").
		WithDetail("offset", 12)

	s := err.String()
	for _, want := range []string{"Code: PARSE", "Operation: parser.Parse", "Session: s-1", "Details: {lexeme=foo, offset=12}"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in %q", want, s)
		}
	}

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal() error = %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal() error = %v", jerr)
	}
	if decoded["category"] != "parse" {
		t.Errorf("category = %v, want parse", decoded["category"])
	}
	if decoded["session_id"] != "s-1" {
		t.Errorf("session_id = %v, want s-1", decoded["session_id"])
	}
}
