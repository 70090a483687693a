// File: vm.go
// Title: Register and Stack Engine
// Description: Executes bytecode one instruction at a time against a State.
//              Opcodes dispatch through a handler table that also declares
//              the operand count each opcode takes. PUSH implements the
//              numeral accumulation: a numeral smaller than the running total
//              is subtracted, anything else is added.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation
// - 2026-10-14 v0.1.1: New reports invalid currency names

package vm

import (
	"context"
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

// Placeholder is replaced by the return register value on RET
const Placeholder = "$rr"

// Options configures the engine
type Options struct {
	Logger   *gnlog.Logger
	State    *State
	Currency string // used when State is nil
}

// Engine executes instructions. It is not safe for concurrent use.
type Engine struct {
	state   *State
	logger  *gnlog.Logger
	options Options
}

type instFunc func(e *Engine, inst Instruction) error

type opSpec struct {
	arity int
	fn    instFunc
}

var instFuncs = map[Opcode]opSpec{
	OpCLR:  {1, (*Engine).execCLR},
	OpDIV:  {2, (*Engine).execDIV},
	OpMUL:  {2, (*Engine).execMUL},
	OpMOV:  {2, (*Engine).execMOV},
	OpPUSH: {0, (*Engine).execPUSH},
	OpPOP:  {1, (*Engine).execPOP},
	OpLOAD: {1, (*Engine).execLOAD},
	OpRET:  {0, (*Engine).execRET},
	OpHALT: {0, (*Engine).execHALT},
}

// New creates a new engine. Without a state a fresh one is created for
// opts.Currency.
func New(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = gnlog.GetDefault()
	}
	if opts.State == nil {
		state, err := NewState(opts.Currency)
		if err != nil {
			return nil, err
		}
		opts.State = state
	}
	return &Engine{
		state:   opts.State,
		logger:  opts.Logger.WithField("component", "galnotes-vm"),
		options: opts,
	}, nil
}

// State returns the state the engine runs against
func (e *Engine) State() *State { return e.state }

// Variables returns the variable store
func (e *Engine) Variables() *Store { return e.state.vars }

// Register returns the value of a numeric register
func (e *Engine) Register(r Register) float64 { return e.state.regs[r] }

// Output returns the print register
func (e *Engine) Output() string { return e.state.text }

// HasOutput reports whether the last program produced output
func (e *Engine) HasOutput() bool { return e.state.hasOutput }

// Halted reports whether HALT was executed
func (e *Engine) Halted() bool { return e.state.halted }

// Store defines a new variable
func (e *Engine) Store(v Variable) error { return e.state.vars.Store(v) }

// Load looks up a variable
func (e *Engine) Load(name string) (Variable, error) { return e.state.vars.Load(name) }

// Reset clears registers and the output flag. Variables and the halt flag
// are kept.
func (e *Engine) Reset() {
	e.state.clearRegisters()
	e.state.hasOutput = false
}

// Execute runs exactly one instruction
func (e *Engine) Execute(inst Instruction) error {
	if e.state.halted {
		return gnerror.Newf("engine is halted, refusing %s", inst.Op).
			WithCode(gnerror.CodeExecution).
			WithOperation("vm.Execute")
	}

	op, ok := instFuncs[inst.Op]
	if !ok {
		return gnerror.Newf("unknown opcode %s", inst.Op).
			WithCode(gnerror.CodeUnknownOpcode).
			WithOperation("vm.Execute").
			WithDetail("opcode", int(inst.Op))
	}
	if len(inst.Operands) != op.arity {
		return gnerror.Newf("%s takes %d operand(s), got %d", inst.Op, op.arity, len(inst.Operands)).
			WithCode(gnerror.CodeOperandCount).
			WithOperation("vm.Execute").
			WithDetail("instruction", inst.String())
	}

	e.logger.Trace("execute", gnlog.Fields{"instruction": inst.String()})
	return op.fn(e, inst)
}

// Run pops and executes instructions until the program is empty or the
// engine halts. The output flag is cleared first. The context is checked
// between instructions.
func (e *Engine) Run(ctx context.Context, prog *Program) error {
	e.state.hasOutput = false
	for !e.state.halted {
		if err := ctx.Err(); err != nil {
			return gnerror.Wrap(err, "program canceled").
				WithCode(gnerror.CodeCanceled).
				WithOperation("vm.Run")
		}
		inst, ok := prog.Pop()
		if !ok {
			return nil
		}
		if err := e.Execute(inst); err != nil {
			return err
		}
	}
	if prog.Len() > 0 {
		e.logger.Debug("halted with instructions left", gnlog.Fields{"remaining": prog.Len()})
	}
	return nil
}

func (e *Engine) execCLR(inst Instruction) error {
	r, err := registerOperand(inst, 0)
	if err != nil {
		return err
	}
	if r == RegPR {
		e.state.text = ""
		return nil
	}
	e.set(r, 0, KindNone)
	return nil
}

func (e *Engine) execDIV(inst Instruction) error {
	a, b, err := e.arithmeticOperands(inst)
	if err != nil {
		return err
	}
	divisor := e.state.regs[a]
	if divisor == 0 {
		return gnerror.Newf("division by zero: $%s is 0", a).
			WithCode(gnerror.CodeDivisionByZero).
			WithOperation("vm.DIV").
			WithDetail("instruction", inst.String())
	}
	e.set(b, e.state.regs[b]/divisor, KindCommodity)
	return nil
}

func (e *Engine) execMUL(inst Instruction) error {
	a, b, err := e.arithmeticOperands(inst)
	if err != nil {
		return err
	}
	e.set(b, e.state.regs[b]*e.state.regs[a], KindCurrency)
	return nil
}

func (e *Engine) execMOV(inst Instruction) error {
	src, dst := inst.Operands[0], inst.Operands[1]
	if src.Class != ClassRegister && dst.Class != ClassRegister {
		return operandClassError(inst, "MOV needs at least one register operand")
	}
	if src.IsRegister(RegPR) || dst.IsRegister(RegPR) {
		return operandClassError(inst, "MOV cannot use the text register $pr")
	}

	var (
		value float64
		kind  Kind
	)
	switch src.Class {
	case ClassRegister:
		value, kind = e.state.regs[src.Register], e.state.kinds[src.Register]
	case ClassVariable:
		v, err := e.state.vars.Load(src.Name)
		if err != nil {
			return err
		}
		value, kind = v.Value, v.Kind
	case ClassLiteral:
		value, kind = src.Value, KindNone
	default:
		return operandClassError(inst, "MOV source must be a register, variable or literal")
	}

	switch dst.Class {
	case ClassRegister:
		if dst.Register == RegNR {
			if src.Class == ClassVariable && kind != KindNumeral {
				return gnerror.Newf("%s is not a numeral", src.Name).
					WithCode(gnerror.CodeKindMismatch).
					WithOperation("vm.MOV").
					WithDetail("variable", src.Name).
					WithDetail("kind", kind.String())
			}
			if value != e.state.regs[RegNR] {
				e.state.nrChanged = true
			}
		}
		e.set(dst.Register, value, kind)
		return nil
	case ClassVariable:
		return e.state.vars.Store(Variable{Name: dst.Name, Value: value, Kind: kind})
	default:
		return operandClassError(inst, "MOV destination must be a register or variable")
	}
}

func (e *Engine) execPUSH(Instruction) error {
	nr, sr := e.state.regs[RegNR], e.state.regs[RegSR]
	if e.state.nrChanged && nr < sr {
		sr -= nr
	} else {
		sr += nr
	}
	e.state.nrChanged = false
	e.set(RegSR, sr, KindNumeral)
	return nil
}

func (e *Engine) execPOP(inst Instruction) error {
	r, err := registerOperand(inst, 0)
	if err != nil {
		return err
	}
	switch r {
	case RegNR, RegPR, RegSR:
		return operandClassError(inst, "POP cannot target $"+r.String())
	}
	e.set(r, e.state.regs[RegSR], KindNone)
	return nil
}

func (e *Engine) execLOAD(inst Instruction) error {
	o := inst.Operands[0]
	if o.Class != ClassText {
		return operandClassError(inst, "LOAD expects a quoted text")
	}
	e.state.text = o.Text
	return nil
}

func (e *Engine) execRET(Instruction) error {
	e.state.text = strings.ReplaceAll(e.state.text, Placeholder, FormatNumber(e.state.regs[RegRR]))
	e.state.hasOutput = true
	return nil
}

func (e *Engine) execHALT(Instruction) error {
	e.state.halted = true
	return nil
}

func (e *Engine) set(r Register, value float64, kind Kind) {
	e.state.regs[r] = value
	e.state.kinds[r] = kind
}

// arithmeticOperands validates the register pair of DIV and MUL. The result
// lands in the second register, which must be ar, br or rr.
func (e *Engine) arithmeticOperands(inst Instruction) (Register, Register, error) {
	a, err := registerOperand(inst, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := registerOperand(inst, 1)
	if err != nil {
		return 0, 0, err
	}
	if a == RegPR {
		return 0, 0, operandClassError(inst, inst.Op.String()+" cannot read $pr")
	}
	switch b {
	case RegAR, RegBR, RegRR:
	default:
		return 0, 0, operandClassError(inst, inst.Op.String()+" cannot write $"+b.String())
	}
	return a, b, nil
}

func registerOperand(inst Instruction, n int) (Register, error) {
	o := inst.Operands[n]
	if o.Class != ClassRegister {
		return 0, operandClassError(inst, inst.Op.String()+" expects a register, got "+o.Class.String())
	}
	if o.Register < 0 || o.Register >= regCount {
		return 0, gnerror.Newf("unknown register %s", o.Register).
			WithCode(gnerror.CodeUnknownRegister).
			WithOperation("vm.Execute").
			WithDetail("instruction", inst.String())
	}
	return o.Register, nil
}

func operandClassError(inst Instruction, message string) error {
	return gnerror.New(message).
		WithCode(gnerror.CodeOperandClass).
		WithOperation("vm.Execute").
		WithDetail("instruction", inst.String())
}
