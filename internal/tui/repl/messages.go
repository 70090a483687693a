// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     repl
// Description: Transcript entries and message types for async execution
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package repl

import (
	"time"

	"github.com/msto63/galnotes/foundation/galnotes"
)

// EntryKind distinguishes transcript entries
type EntryKind int

const (
	EntryInput EntryKind = iota
	EntryOutput
	EntryError
	EntryState
)

// Entry is one line block of the transcript
type Entry struct {
	Kind      EntryKind
	Content   string
	Timestamp time.Time
	Elapsed   time.Duration
}

// executeMsg is sent when a statement has been executed
type executeMsg struct {
	input string
	res   *galnotes.Result
	err   error
}

// stateMsg carries a rendered engine dump
type stateMsg struct {
	dump string
	err  error
}
