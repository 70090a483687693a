// File: state.go
// Title: Engine State
// Description: The mutable state one interpreter session runs against:
//              registers with kind tags, flags and the variable store.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation
// - 2026-10-14 v0.1.1: NewState reports invalid currency names

package vm

// State is owned by one session. It is not safe for concurrent use.
type State struct {
	regs  [regCount]float64
	kinds [regCount]Kind
	text  string

	halted    bool
	hasOutput bool
	nrChanged bool
	vars      *Store
}

// NewState creates a fresh state with a seeded variable store
func NewState(currency string) (*State, error) {
	vars, err := NewStore(currency)
	if err != nil {
		return nil, err
	}
	return &State{vars: vars}, nil
}

// Variables returns the variable store
func (s *State) Variables() *Store {
	return s.vars
}

// Register returns the numeric value of a register. The text register
// always reads as zero.
func (s *State) Register(r Register) float64 {
	return s.regs[r]
}

// RegisterKind returns the kind tag of a register
func (s *State) RegisterKind(r Register) Kind {
	return s.kinds[r]
}

// Text returns the contents of the print register
func (s *State) Text() string {
	return s.text
}

// Halted reports whether a HALT was executed
func (s *State) Halted() bool {
	return s.halted
}

// HasOutput reports whether RET produced output since the last program start
func (s *State) HasOutput() bool {
	return s.hasOutput
}

// NumeralChanged reports whether nr changed since the last PUSH
func (s *State) NumeralChanged() bool {
	return s.nrChanged
}

func (s *State) clearRegisters() {
	s.regs = [regCount]float64{}
	s.kinds = [regCount]Kind{}
	s.text = ""
	s.nrChanged = false
}
