// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     repl
// Description: Tests for the REPL model
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	gnlog "github.com/msto63/galnotes/foundation/core/log"
	"github.com/msto63/galnotes/foundation/galnotes"
)

func newModel(t *testing.T) Model {
	t.Helper()
	s, err := galnotes.NewSession(galnotes.Options{Logger: gnlog.Discard()})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.Session = s
	m := New(cfg)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

// enter types a line, presses enter and feeds the resulting message back
func enter(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		return m, nil
	}
	msg := cmd()
	switch msg.(type) {
	case executeMsg, stateMsg:
		next, cmd = m.Update(msg)
		return next.(Model), cmd
	}
	return m, cmd
}

func TestExecuteLines(t *testing.T) {
	m := newModel(t)
	for _, line := range []string{
		"glob is I",
		"prok is V",
		"how much is prok glob ?",
	} {
		m, _ = enter(t, m, line)
	}

	entries := m.Entries()
	last := entries[len(entries)-1]
	if last.Kind != EntryOutput || last.Content != "prok glob is 6" {
		t.Errorf("last entry = %+v, want output %q", last, "prok glob is 6")
	}
	if m.statements != 3 || m.failures != 0 {
		t.Errorf("statements = %d, failures = %d", m.statements, m.failures)
	}
	if !strings.Contains(m.View(), "prok glob is 6") {
		t.Error("View() does not show the output")
	}
}

func TestErrorEntry(t *testing.T) {
	m := newModel(t)
	m, _ = enter(t, m, "how much is wood ?")

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[1].Kind != EntryError {
		t.Errorf("entry kind = %v, want EntryError", entries[1].Kind)
	}
	if m.failures != 1 {
		t.Errorf("failures = %d, want 1", m.failures)
	}
}

func TestQuitEndsProgram(t *testing.T) {
	m := newModel(t)
	m, cmd := enter(t, m, "quit")
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit did not return tea.Quit")
	}
	if !m.session.Halted() {
		t.Error("session not halted")
	}
}

func TestStateCommand(t *testing.T) {
	m := newModel(t)
	m, _ = enter(t, m, "glob is I")
	m, _ = enter(t, m, CommandState)

	entries := m.Entries()
	last := entries[len(entries)-1]
	if last.Kind != EntryState {
		t.Fatalf("last entry kind = %v, want EntryState", last.Kind)
	}
	if !strings.Contains(last.Content, "glob") {
		t.Errorf("state dump lacks variable glob:\n%s", last.Content)
	}
}

func TestClearCommand(t *testing.T) {
	m := newModel(t)
	m, _ = enter(t, m, "glob is I")
	m, _ = enter(t, m, CommandClear)
	if len(m.Entries()) != 0 {
		t.Errorf("entries after clear = %d", len(m.Entries()))
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newModel(t)
	m, _ = enter(t, m, "glob is I")
	m, _ = enter(t, m, "prok is V")
	m, _ = enter(t, m, "prok is V")

	if len(m.inputHistory) != 2 {
		t.Fatalf("history = %v, want 2 entries", m.inputHistory)
	}

	press := func(k tea.KeyType) {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		m = next.(Model)
	}

	press(tea.KeyUp)
	if got := m.input.Value(); got != "prok is V" {
		t.Errorf("up = %q", got)
	}
	press(tea.KeyUp)
	press(tea.KeyUp)
	if got := m.input.Value(); got != "glob is I" {
		t.Errorf("up up up = %q", got)
	}
	press(tea.KeyDown)
	press(tea.KeyDown)
	if got := m.input.Value(); got != "" {
		t.Errorf("down past end = %q, want empty", got)
	}
}

func TestHistorySize(t *testing.T) {
	s, err := galnotes.NewSession(galnotes.Options{Logger: gnlog.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	m := New(Config{Session: s, HistorySize: 2})
	for _, line := range []string{"a is I", "b is V", "c is X"} {
		m, _ = enter(t, m, line)
	}
	if len(m.inputHistory) != 2 || m.inputHistory[0] != "b is V" {
		t.Errorf("history = %v", m.inputHistory)
	}
}

func TestBlankInputIgnored(t *testing.T) {
	m := newModel(t)
	m, cmd := enter(t, m, "   ")
	if cmd != nil || len(m.Entries()) != 0 {
		t.Error("blank input was executed")
	}
}
