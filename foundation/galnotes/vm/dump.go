// File: dump.go
// Title: Engine State Dump
// Description: Renders registers, flags and variables as text tables for the
//              inspect command and the REPL :state command.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package vm

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Dump writes the engine state as three tables
func (e *Engine) Dump(w io.Writer) error {
	return e.state.Dump(w)
}

// Dump writes the state as three tables
func (s *State) Dump(w io.Writer) error {
	regTable := table.NewWriter()
	regTable.SetTitle("Registers")
	regTable.AppendHeader(table.Row{"Register", "Value", "Kind"})
	for _, r := range Registers {
		if r == RegPR {
			regTable.AppendRow(table.Row{"$" + r.String(), fmt.Sprintf("%q", s.text), "TEXT"})
			continue
		}
		regTable.AppendRow(table.Row{"$" + r.String(), FormatNumber(s.regs[r]), s.kinds[r]})
	}

	flagTable := table.NewWriter()
	flagTable.SetTitle("Flags")
	flagTable.AppendHeader(table.Row{"Halted", "Output", "Numeral changed"})
	flagTable.AppendRow(table.Row{s.halted, s.hasOutput, s.nrChanged})

	varTable := table.NewWriter()
	varTable.SetTitle("Variables")
	varTable.AppendHeader(table.Row{"Name", "Value", "Kind", "Builtin"})
	for _, v := range s.vars.All() {
		varTable.AppendRow(table.Row{v.Name, FormatNumber(v.Value), v.Kind, v.Builtin})
	}

	for _, t := range []table.Writer{regTable, flagTable, varTable} {
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}
