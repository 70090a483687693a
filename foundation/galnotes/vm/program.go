// File: program.go
// Title: Engine Programs
// Description: A program holds the instructions of one statement in
//              generation order. Generation order is the reverse of execution
//              order: the engine pops instructions off the end.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package vm

import (
	"strconv"
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

// Program is a stack of instructions
type Program struct {
	code []Instruction
}

// NewProgram creates a program from instructions in generation order
func NewProgram(code ...Instruction) *Program {
	return &Program{code: append([]Instruction(nil), code...)}
}

// ParseProgram reads bytecode lines given in execution order
func ParseProgram(lines []string) (*Program, error) {
	p := &Program{}
	for n := len(lines) - 1; n >= 0; n-- {
		if strings.TrimSpace(lines[n]) == "" {
			continue
		}
		inst, err := ParseInstruction(lines[n])
		if err != nil {
			return nil, gnerror.Wrap(err, "bytecode line "+strconv.Itoa(n+1)).
				WithOperation("vm.ParseProgram")
		}
		p.Push(inst)
	}
	return p, nil
}

// Push appends an instruction; it will run before everything pushed earlier
func (p *Program) Push(inst Instruction) {
	p.code = append(p.code, inst)
}

// Pop removes the next instruction to execute
func (p *Program) Pop() (Instruction, bool) {
	if len(p.code) == 0 {
		return Instruction{}, false
	}
	last := len(p.code) - 1
	inst := p.code[last]
	p.code = p.code[:last]
	return inst, true
}

// Len returns the number of instructions left
func (p *Program) Len() int {
	return len(p.code)
}

// Instructions returns the instructions in generation order
func (p *Program) Instructions() []Instruction {
	return append([]Instruction(nil), p.code...)
}

// ExecutionOrder returns the instructions in the order they will run
func (p *Program) ExecutionOrder() []Instruction {
	out := make([]Instruction, len(p.code))
	for i, inst := range p.code {
		out[len(p.code)-1-i] = inst
	}
	return out
}

// Lines renders the program in execution order
func (p *Program) Lines() []string {
	order := p.ExecutionOrder()
	lines := make([]string, len(order))
	for i, inst := range order {
		lines[i] = inst.String()
	}
	return lines
}

// String renders the program one instruction per line in execution order
func (p *Program) String() string {
	return strings.Join(p.Lines(), "\n")
}
