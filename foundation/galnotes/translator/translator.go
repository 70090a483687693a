// File: translator.go
// Title: Statement Tree Translator
// Description: Lowers a statement tree into an engine program. Programs are
//              built in generation order, the reverse of execution order, and
//              each one starts with the register clears that run last.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package translator

import (
	"strconv"
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
	gnast "github.com/msto63/galnotes/foundation/galnotes/ast"
	gnvm "github.com/msto63/galnotes/foundation/galnotes/vm"
)

// Statement is the closed set of statement kinds a tree can lower to
type Statement int

const (
	StatementQuit Statement = iota
	StatementHowMany
	StatementHowMuch
	StatementAssignAlias
	StatementAssignValue
)

// String returns the name of the statement kind
func (s Statement) String() string {
	switch s {
	case StatementQuit:
		return "quit"
	case StatementHowMany:
		return "how-many"
	case StatementHowMuch:
		return "how-much"
	case StatementAssignAlias:
		return "assign-alias"
	case StatementAssignValue:
		return "assign-value"
	default:
		return "unknown"
	}
}

// clearedRegisters are zeroed after every non-terminating statement
var clearedRegisters = []gnvm.Register{gnvm.RegAR, gnvm.RegBR, gnvm.RegNR, gnvm.RegRR, gnvm.RegSR}

// Options configures the translator
type Options struct {
	Logger   *gnlog.Logger
	Currency string // currency named in how-many answers
}

// Translator turns trees into programs. It is stateless and can be shared.
type Translator struct {
	logger  *gnlog.Logger
	options Options
}

// New creates a new translator
func New(opts Options) *Translator {
	if opts.Logger == nil {
		opts.Logger = gnlog.GetDefault()
	}
	if opts.Currency == "" {
		opts.Currency = gnvm.DefaultCurrency
	}
	return &Translator{
		logger:  opts.Logger.WithField("component", "galnotes-translator"),
		options: opts,
	}
}

// Classify matches the tree against the statement shapes
func Classify(tree *gnast.Tree) (Statement, error) {
	if tree == nil || tree.Empty() {
		return 0, translationError("cannot translate an empty tree", nil)
	}
	root := tree.Root()
	kids := root.Children

	switch root.Label {
	case gnast.LabelQuit:
		if len(kids) == 0 {
			return StatementQuit, nil
		}
	case gnast.LabelHowMuch:
		if len(kids) == 1 && isNumber(kids[0]) {
			return StatementHowMuch, nil
		}
	case gnast.LabelHowMany:
		if len(kids) == 2 && isNumber(kids[0]) && isLeaf(kids[1], gnast.LabelCommodity) {
			return StatementHowMany, nil
		}
	case gnast.LabelAssign:
		if len(kids) == 2 && isLeaf(kids[0], gnast.LabelGalNumeral) && isLeaf(kids[1], gnast.LabelGalNumeral) {
			return StatementAssignAlias, nil
		}
		if len(kids) == 3 && isNumber(kids[0]) && isLeaf(kids[1], gnast.LabelCommodity) && isLeaf(kids[2], gnast.LabelNumber) {
			return StatementAssignValue, nil
		}
	}
	return 0, translationError("tree does not match any statement", root)
}

// Translate lowers a tree into a program
func (t *Translator) Translate(tree *gnast.Tree) (*gnvm.Program, error) {
	kind, err := Classify(tree)
	if err != nil {
		return nil, err
	}

	root := tree.Root()
	var prog *gnvm.Program
	switch kind {
	case StatementQuit:
		prog = gnvm.NewProgram(gnvm.Inst(gnvm.OpHALT))
	case StatementHowMuch:
		prog = t.howMuch(root)
	case StatementHowMany:
		prog = t.howMany(root)
	case StatementAssignAlias:
		prog = t.assignAlias(root)
	case StatementAssignValue:
		prog, err = t.assignValue(root)
	}
	if err != nil {
		return nil, err
	}

	t.logger.Debug("statement translated", gnlog.Fields{
		"statement":    kind.String(),
		"instructions": prog.Len(),
	})
	return prog, nil
}

// howMuch answers the value of a numeral sequence:
//
//	LOAD '<numerals> is $rr'; (MOV %n $nr; PUSH)...; POP $ar; MOV $ar $rr; RET; CLR...
func (t *Translator) howMuch(root *gnast.Node) *gnvm.Program {
	numerals := root.Children[0].ChildValues()

	prog := cleared()
	prog.Push(gnvm.Inst(gnvm.OpRET))
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Reg(gnvm.RegAR), gnvm.Reg(gnvm.RegRR)))
	prog.Push(gnvm.Inst(gnvm.OpPOP, gnvm.Reg(gnvm.RegAR)))
	accumulate(prog, numerals)
	prog.Push(gnvm.Inst(gnvm.OpLOAD, gnvm.Text(strings.Join(numerals, " ")+" is "+gnvm.Placeholder)))
	return prog
}

// howMany prices a quantity of a commodity in the currency:
//
//	LOAD '...'; (MOV %n $nr; PUSH)...; POP $br; MOV %c $ar; MUL $br $ar; MOV $ar $rr; RET; CLR...
func (t *Translator) howMany(root *gnast.Node) *gnvm.Program {
	numerals := root.Children[0].ChildValues()
	commodity := root.Children[1].Value

	prog := cleared()
	prog.Push(gnvm.Inst(gnvm.OpRET))
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Reg(gnvm.RegAR), gnvm.Reg(gnvm.RegRR)))
	prog.Push(gnvm.Inst(gnvm.OpMUL, gnvm.Reg(gnvm.RegBR), gnvm.Reg(gnvm.RegAR)))
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Var(commodity), gnvm.Reg(gnvm.RegAR)))
	prog.Push(gnvm.Inst(gnvm.OpPOP, gnvm.Reg(gnvm.RegBR)))
	accumulate(prog, numerals)
	text := strings.Join(numerals, " ") + " " + commodity + " is " + gnvm.Placeholder + " " + t.options.Currency
	prog.Push(gnvm.Inst(gnvm.OpLOAD, gnvm.Text(text)))
	return prog
}

// assignAlias defines target with the value of source:
//
//	MOV %source $ar; MOV $ar %target; CLR...
func (t *Translator) assignAlias(root *gnast.Node) *gnvm.Program {
	target, source := root.Children[0].Value, root.Children[1].Value

	prog := cleared()
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Reg(gnvm.RegAR), gnvm.Var(target)))
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Var(source), gnvm.Reg(gnvm.RegAR)))
	return prog
}

// assignValue defines the unit price of a commodity:
//
//	MOV <credits> $ar; (MOV %n $nr; PUSH)...; POP $br; DIV $br $ar; MOV $ar %c; CLR...
func (t *Translator) assignValue(root *gnast.Node) (*gnvm.Program, error) {
	numerals := root.Children[0].ChildValues()
	commodity := root.Children[1].Value
	amount, err := strconv.ParseFloat(root.Children[2].Value, 64)
	if err != nil {
		return nil, gnerror.Wrap(err, "invalid amount "+root.Children[2].Value).
			WithCode(gnerror.CodeTranslation).
			WithOperation("translator.Translate")
	}

	prog := cleared()
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Reg(gnvm.RegAR), gnvm.Var(commodity)))
	prog.Push(gnvm.Inst(gnvm.OpDIV, gnvm.Reg(gnvm.RegBR), gnvm.Reg(gnvm.RegAR)))
	prog.Push(gnvm.Inst(gnvm.OpPOP, gnvm.Reg(gnvm.RegBR)))
	accumulate(prog, numerals)
	prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Lit(amount), gnvm.Reg(gnvm.RegAR)))
	return prog, nil
}

func cleared() *gnvm.Program {
	prog := gnvm.NewProgram()
	for _, r := range clearedRegisters {
		prog.Push(gnvm.Inst(gnvm.OpCLR, gnvm.Reg(r)))
	}
	return prog
}

// accumulate emits one PUSH/MOV pair per numeral in tree order, so the
// numerals execute right to left.
func accumulate(prog *gnvm.Program, numerals []string) {
	for _, n := range numerals {
		prog.Push(gnvm.Inst(gnvm.OpPUSH))
		prog.Push(gnvm.Inst(gnvm.OpMOV, gnvm.Var(n), gnvm.Reg(gnvm.RegNR)))
	}
}

func isNumber(n *gnast.Node) bool {
	if n.Label != gnast.LabelGalNumber || n.Leaf || len(n.Children) == 0 {
		return false
	}
	for _, c := range n.Children {
		if !isLeaf(c, gnast.LabelGalNumeral) {
			return false
		}
	}
	return true
}

func isLeaf(n *gnast.Node, label gnast.Label) bool {
	return n.Label == label && n.Leaf && n.Value != ""
}

func translationError(message string, root *gnast.Node) *gnerror.Error {
	err := gnerror.New(message).
		WithCode(gnerror.CodeTranslation).
		WithOperation("translator.Translate")
	if root != nil {
		err = err.WithDetail("root", root.String()).WithDetail("children", len(root.Children))
	}
	return err
}
