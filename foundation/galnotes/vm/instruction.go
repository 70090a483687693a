// File: instruction.go
// Title: Engine Instruction Set
// Description: Defines opcodes, registers, operands and the text form of
//              instructions. Registers carry a $ sigil, variables a % sigil,
//              numeric literals are bare and LOAD takes one quoted text.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package vm

import (
	"regexp"
	"strconv"
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

// Opcode identifies an instruction
type Opcode int

const (
	OpCLR Opcode = iota
	OpDIV
	OpMUL
	OpMOV
	OpPUSH
	OpPOP
	OpLOAD
	OpRET
	OpHALT

	opCount
)

var opcodeNames = [opCount]string{
	OpCLR:  "CLR",
	OpDIV:  "DIV",
	OpMUL:  "MUL",
	OpMOV:  "MOV",
	OpPUSH: "PUSH",
	OpPOP:  "POP",
	OpLOAD: "LOAD",
	OpRET:  "RET",
	OpHALT: "HALT",
}

// String returns the mnemonic of the opcode
func (op Opcode) String() string {
	if op < 0 || op >= opCount {
		return "OP(" + strconv.Itoa(int(op)) + ")"
	}
	return opcodeNames[op]
}

// Valid reports whether op is part of the instruction set
func (op Opcode) Valid() bool {
	return op >= 0 && op < opCount
}

// ParseOpcode looks up a mnemonic
func ParseOpcode(name string) (Opcode, error) {
	for op, n := range opcodeNames {
		if n == name {
			return Opcode(op), nil
		}
	}
	return 0, gnerror.Newf("unknown opcode %q", name).
		WithCode(gnerror.CodeUnknownOpcode).
		WithOperation("vm.ParseOpcode").
		WithDetail("opcode", name)
}

// Register names one of the six engine registers
type Register int

const (
	RegAR Register = iota // general purpose
	RegBR                 // general purpose
	RegNR                 // numeral
	RegPR                 // print text
	RegRR                 // return number
	RegSR                 // running total

	regCount
)

var registerNames = [regCount]string{
	RegAR: "ar",
	RegBR: "br",
	RegNR: "nr",
	RegPR: "pr",
	RegRR: "rr",
	RegSR: "sr",
}

// Registers lists all registers in display order
var Registers = []Register{RegAR, RegBR, RegNR, RegPR, RegRR, RegSR}

// String returns the register name without sigil
func (r Register) String() string {
	if r < 0 || r >= regCount {
		return "r" + strconv.Itoa(int(r))
	}
	return registerNames[r]
}

// ParseRegister looks up a register name without sigil
func ParseRegister(name string) (Register, error) {
	for r, n := range registerNames {
		if n == name {
			return Register(r), nil
		}
	}
	return 0, gnerror.Newf("unknown register $%s", name).
		WithCode(gnerror.CodeUnknownRegister).
		WithOperation("vm.ParseRegister").
		WithDetail("register", name)
}

// OperandClass tells registers, variables, literals and text apart
type OperandClass int

const (
	ClassRegister OperandClass = iota
	ClassVariable
	ClassLiteral
	ClassText
)

// String returns the name of the operand class
func (c OperandClass) String() string {
	switch c {
	case ClassRegister:
		return "register"
	case ClassVariable:
		return "variable"
	case ClassLiteral:
		return "literal"
	case ClassText:
		return "text"
	default:
		return "unknown"
	}
}

// Operand is one argument of an instruction
type Operand struct {
	Class    OperandClass
	Register Register // ClassRegister
	Name     string   // ClassVariable
	Value    float64  // ClassLiteral
	Text     string   // ClassText
}

// Reg builds a register operand
func Reg(r Register) Operand { return Operand{Class: ClassRegister, Register: r} }

// Var builds a variable operand
func Var(name string) Operand { return Operand{Class: ClassVariable, Name: name} }

// Lit builds a numeric literal operand
func Lit(v float64) Operand { return Operand{Class: ClassLiteral, Value: v} }

// Text builds a text operand
func Text(s string) Operand { return Operand{Class: ClassText, Text: s} }

// String renders the operand in bytecode text form
func (o Operand) String() string {
	switch o.Class {
	case ClassRegister:
		return "$" + o.Register.String()
	case ClassVariable:
		return "%" + o.Name
	case ClassLiteral:
		return FormatNumber(o.Value)
	case ClassText:
		return "'" + o.Text + "'"
	default:
		return "?"
	}
}

// IsRegister reports whether the operand is the given register
func (o Operand) IsRegister(r Register) bool {
	return o.Class == ClassRegister && o.Register == r
}

// Instruction is one line of bytecode
type Instruction struct {
	Op       Opcode
	Operands []Operand
}

// Inst builds an instruction
func Inst(op Opcode, operands ...Operand) Instruction {
	return Instruction{Op: op, Operands: operands}
}

// String renders the instruction in bytecode text form
func (i Instruction) String() string {
	parts := make([]string, 0, len(i.Operands)+1)
	parts = append(parts, i.Op.String())
	for _, o := range i.Operands {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, " ")
}

var literalPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// ParseInstruction reads one line of bytecode text
func ParseInstruction(line string) (Instruction, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Instruction{}, gnerror.New("empty instruction").
			WithCode(gnerror.CodeUnknownOpcode).
			WithOperation("vm.ParseInstruction")
	}

	name, rest, _ := strings.Cut(line, " ")
	op, err := ParseOpcode(name)
	if err != nil {
		return Instruction{}, err
	}
	rest = strings.TrimSpace(rest)

	inst := Instruction{Op: op}
	if op == OpLOAD {
		if rest == "" {
			return inst, nil
		}
		if len(rest) < 2 || rest[0] != '\'' || rest[len(rest)-1] != '\'' {
			return Instruction{}, gnerror.Newf("LOAD expects a single quoted text, got %s", rest).
				WithCode(gnerror.CodeOperandClass).
				WithOperation("vm.ParseInstruction").
				WithDetail("line", line)
		}
		inst.Operands = []Operand{Text(rest[1 : len(rest)-1])}
		return inst, nil
	}

	for _, field := range strings.Fields(rest) {
		operand, err := ParseOperand(field)
		if err != nil {
			return Instruction{}, err
		}
		inst.Operands = append(inst.Operands, operand)
	}
	return inst, nil
}

// ParseOperand reads one operand token
func ParseOperand(s string) (Operand, error) {
	switch {
	case strings.HasPrefix(s, "$"):
		r, err := ParseRegister(s[1:])
		if err != nil {
			return Operand{}, err
		}
		return Reg(r), nil
	case strings.HasPrefix(s, "%") && len(s) > 1:
		return Var(s[1:]), nil
	case literalPattern.MatchString(s):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Operand{}, gnerror.Wrap(err, "invalid literal "+s).
				WithCode(gnerror.CodeOperandClass).
				WithOperation("vm.ParseOperand")
		}
		return Lit(v), nil
	default:
		return Operand{}, gnerror.Newf("invalid operand %q", s).
			WithCode(gnerror.CodeOperandClass).
			WithOperation("vm.ParseOperand").
			WithDetail("operand", s)
	}
}

// FormatNumber renders a value in its shortest decimal form
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
