// File: parser.go
// Title: Galactic Notes Statement Parser
// Description: Recursive descent parser for the fixed notes grammar. Tokens
//              are pulled lazily from the lexer. A VARIABLE token gets its
//              role (numeral or commodity) once the following token is known,
//              and container nodes enter the tree before their children.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation
// - 2026-10-14 v0.1.1: Return consumed tokens on grammar errors
//
// Grammar:
//
//	statement := "quit"
//	           | "how" ( "many" how_many | "much" how_much )
//	           | VARIABLE assign
//	how_many  := CREDITS IS (galnumeral)+ commodity "?"
//	how_much  := IS (galnumeral)+ "?"
//	assign    := IS galnumeral
//	           | (galnumeral)+ commodity IS NUMBER CREDITS

package parser

import (
	"fmt"
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
	gnast "github.com/msto63/galnotes/foundation/galnotes/ast"
	gnlexer "github.com/msto63/galnotes/foundation/galnotes/lexer"
)

// Options configures parser behavior
type Options struct {
	Logger         *gnlog.Logger
	Lexer          *gnlexer.Lexer
	MaxInputLength int
}

// Parser recognizes one statement per Parse call. It holds no per-statement
// state and can be reused.
type Parser struct {
	lexer   *gnlexer.Lexer
	logger  *gnlog.Logger
	options Options
}

// Result is the outcome of parsing one statement
type Result struct {
	Tree   *gnast.Tree
	Tokens []gnlexer.Token // every consumed token with its final role
}

// New creates a new parser. Without a lexer the default rule table is used.
func New(opts Options) (*Parser, error) {
	if opts.Logger == nil {
		opts.Logger = gnlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = 1024
	}
	if opts.Lexer == nil {
		lx, err := gnlexer.New(gnlexer.DefaultRules(""), gnlexer.Options{Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		opts.Lexer = lx
	}

	return &Parser{
		lexer:   opts.Lexer,
		logger:  opts.Logger.WithField("component", "galnotes-parser"),
		options: opts,
	}, nil
}

// Parse parses a single statement line. On a grammar error the returned
// Result holds the tokens consumed up to the failure and no tree.
func (p *Parser) Parse(input string) (*Result, error) {
	if len(input) > p.options.MaxInputLength {
		return nil, gnerror.Newf("input exceeds maximum length: %d > %d", len(input), p.options.MaxInputLength).
			WithCode(gnerror.CodeParse).
			WithOperation("parser.Parse")
	}

	s := &state{lexer: p.lexer, input: input, tree: gnast.New()}

	err := s.statement()
	if err == nil {
		err = s.end()
	}
	if err != nil {
		p.logger.Debug("statement rejected", gnlog.Fields{
			"input": input,
			"error": err.Error(),
		})
		return &Result{Tokens: s.tokens}, err
	}

	p.logger.Debug("statement parsed", gnlog.Fields{
		"input":  input,
		"root":   string(s.tree.Root().Label),
		"tokens": len(s.tokens),
	})

	return &Result{Tree: s.tree, Tokens: s.tokens}, nil
}

// state is the bookkeeping of one Parse call. Tokens are addressed by index
// so that relabeling writes into the slice handed out in the Result.
type state struct {
	lexer  *gnlexer.Lexer
	input  string
	pos    int
	tokens []gnlexer.Token
	tree   *gnast.Tree
}

func (s *state) next() (int, error) {
	tok := s.lexer.NextToken(s.input, s.pos, true)
	if tok.Kind == gnlexer.KindNoTokenFound {
		word := tok.Lexeme
		if fields := strings.Fields(word); len(fields) > 0 {
			word = fields[0]
		}
		return -1, s.failToken(tok, "I don't know what %s is!", word)
	}

	s.tokens = append(s.tokens, tok)
	s.pos = tok.Offset + len(tok.Lexeme)
	return len(s.tokens) - 1, nil
}

func (s *state) kind(i int) gnlexer.Kind {
	return s.tokens[i].Kind
}

func (s *state) lexeme(i int) string {
	return s.tokens[i].Lexeme
}

func (s *state) relabel(i int, role gnlexer.Kind) error {
	return s.tokens[i].Relabel(role)
}

func (s *state) insert(node, under *gnast.Node) error {
	if err := s.tree.InsertUnder(node, under); err != nil {
		return gnerror.Wrap(err, "building statement tree").WithOperation("parser.Parse")
	}
	return nil
}

func (s *state) leaf(label gnast.Label, i int) *gnast.Node {
	return gnast.NewLeaf(label, s.lexeme(i), s.tokens[i].Offset)
}

// hindsight decides the role of a VARIABLE from the token that follows it
func hindsight(following gnlexer.Kind) gnlexer.Kind {
	switch following {
	case gnlexer.KindQuestion, gnlexer.KindIs, gnlexer.KindCredits:
		return gnlexer.KindCommodity
	default:
		return gnlexer.KindGalNum
	}
}

func (s *state) statement() error {
	i, err := s.next()
	if err != nil {
		return err
	}

	switch s.kind(i) {
	case gnlexer.KindQuit:
		root := gnast.NewRootLeaf(gnast.LabelQuit)
		root.Offset = s.tokens[i].Offset
		return s.insert(root, nil)
	case gnlexer.KindHow:
		return s.how()
	case gnlexer.KindVariable:
		return s.assign(i)
	case gnlexer.KindEOL:
		return s.fail(i, "I don't know what you're talking about!")
	default:
		return s.fail(i, "I don't know what you're talking about! A statement cannot start with %s", s.describe(i))
	}
}

func (s *state) how() error {
	i, err := s.next()
	if err != nil {
		return err
	}

	switch s.kind(i) {
	case gnlexer.KindMany:
		return s.howMany()
	case gnlexer.KindMuch:
		return s.howMuch()
	default:
		return s.fail(i, "Expected 'many' or 'much' after 'how', got %s", s.describe(i))
	}
}

func (s *state) howMany() error {
	i, err := s.next()
	if err != nil {
		return err
	}
	if s.kind(i) != gnlexer.KindCredits {
		return s.fail(i, "How many of what? Expected the currency, got %s", s.describe(i))
	}
	if err := s.expect(gnlexer.KindIs, "'is'"); err != nil {
		return err
	}

	root := gnast.NewRoot(gnast.LabelHowMany)
	if err := s.insert(root, nil); err != nil {
		return err
	}
	number := gnast.NewBranch(gnast.LabelGalNumber)
	if err := s.insert(number, root); err != nil {
		return err
	}

	prev, err := s.expectVariable("a numeral")
	if err != nil {
		return err
	}

	for {
		i, err := s.next()
		if err != nil {
			return err
		}

		role := hindsight(s.kind(i))
		if err := s.relabel(prev, role); err != nil {
			return err
		}

		if role == gnlexer.KindCommodity {
			if len(number.Children) == 0 {
				return s.fail(prev, "Expected at least one numeral before commodity %s", s.describe(prev))
			}
			if s.kind(i) != gnlexer.KindQuestion {
				return s.fail(i, "Expected '?' after commodity %s, got %s", s.describe(prev), s.describe(i))
			}
			return s.insert(s.leaf(gnast.LabelCommodity, prev), root)
		}

		if s.kind(i) != gnlexer.KindVariable {
			return s.fail(i, "Expected a numeral or commodity, got %s", s.describe(i))
		}
		if err := s.insert(s.leaf(gnast.LabelGalNumeral, prev), number); err != nil {
			return err
		}
		prev = i
	}
}

func (s *state) howMuch() error {
	if err := s.expect(gnlexer.KindIs, "'is'"); err != nil {
		return err
	}

	root := gnast.NewRoot(gnast.LabelHowMuch)
	if err := s.insert(root, nil); err != nil {
		return err
	}
	number := gnast.NewBranch(gnast.LabelGalNumber)
	if err := s.insert(number, root); err != nil {
		return err
	}

	i, err := s.expectVariable("a numeral")
	if err != nil {
		return err
	}

	for {
		if err := s.relabel(i, gnlexer.KindGalNum); err != nil {
			return err
		}
		if err := s.insert(s.leaf(gnast.LabelGalNumeral, i), number); err != nil {
			return err
		}

		j, err := s.next()
		if err != nil {
			return err
		}
		switch s.kind(j) {
		case gnlexer.KindQuestion:
			return nil
		case gnlexer.KindVariable:
			i = j
		default:
			return s.fail(j, "Expected a numeral or '?', got %s", s.describe(j))
		}
	}
}

func (s *state) assign(first int) error {
	root := gnast.NewRoot(gnast.LabelAssign)
	root.Offset = s.tokens[first].Offset
	if err := s.insert(root, nil); err != nil {
		return err
	}
	if err := s.relabel(first, gnlexer.KindGalNum); err != nil {
		return err
	}

	i, err := s.next()
	if err != nil {
		return err
	}

	switch s.kind(i) {
	case gnlexer.KindIs:
		return s.assignAlias(root, first)
	case gnlexer.KindVariable:
		return s.assignValue(root, first, i)
	default:
		return s.fail(i, "Expected 'is' or a numeral after %s, got %s", s.describe(first), s.describe(i))
	}
}

// assignAlias handles "target is numeral"
func (s *state) assignAlias(root *gnast.Node, target int) error {
	if err := s.insert(s.leaf(gnast.LabelGalNumeral, target), root); err != nil {
		return err
	}

	source, err := s.expectVariable("a numeral after 'is'")
	if err != nil {
		return err
	}
	if err := s.relabel(source, gnlexer.KindGalNum); err != nil {
		return err
	}
	return s.insert(s.leaf(gnast.LabelGalNumeral, source), root)
}

// assignValue handles "numeral+ commodity is NUMBER currency"
func (s *state) assignValue(root *gnast.Node, first, second int) error {
	number := gnast.NewBranch(gnast.LabelGalNumber)
	if err := s.insert(number, root); err != nil {
		return err
	}
	if err := s.insert(s.leaf(gnast.LabelGalNumeral, first), number); err != nil {
		return err
	}

	prev := second
	for {
		i, err := s.next()
		if err != nil {
			return err
		}

		role := hindsight(s.kind(i))
		if err := s.relabel(prev, role); err != nil {
			return err
		}

		if role == gnlexer.KindCommodity {
			if err := s.insert(s.leaf(gnast.LabelCommodity, prev), root); err != nil {
				return err
			}
			if s.kind(i) != gnlexer.KindIs {
				return s.fail(i, "Expected 'is' after commodity %s, got %s", s.describe(prev), s.describe(i))
			}
			break
		}

		if s.kind(i) != gnlexer.KindVariable {
			return s.fail(i, "Expected a numeral or commodity, got %s", s.describe(i))
		}
		if err := s.insert(s.leaf(gnast.LabelGalNumeral, prev), number); err != nil {
			return err
		}
		prev = i
	}

	amount, err := s.next()
	if err != nil {
		return err
	}
	if s.kind(amount) != gnlexer.KindNumber {
		return s.fail(amount, "Expected a credit amount, got %s", s.describe(amount))
	}
	if err := s.insert(s.leaf(gnast.LabelNumber, amount), root); err != nil {
		return err
	}

	currency, err := s.next()
	if err != nil {
		return err
	}
	if s.kind(currency) != gnlexer.KindCredits {
		return s.fail(currency, "How many Credits do what? Expected the currency after %s, got %s",
			s.describe(amount), s.describe(currency))
	}
	return nil
}

func (s *state) end() error {
	i, err := s.next()
	if err != nil {
		return err
	}
	if s.kind(i) != gnlexer.KindEOL {
		return s.fail(i, "Unexpected %s after end of statement", s.describe(i))
	}
	return nil
}

func (s *state) expect(kind gnlexer.Kind, what string) error {
	i, err := s.next()
	if err != nil {
		return err
	}
	if s.kind(i) != kind {
		return s.fail(i, "Expected %s, got %s", what, s.describe(i))
	}
	return nil
}

func (s *state) expectVariable(what string) (int, error) {
	i, err := s.next()
	if err != nil {
		return -1, err
	}
	if s.kind(i) != gnlexer.KindVariable {
		return -1, s.fail(i, "Expected %s, got %s", what, s.describe(i))
	}
	return i, nil
}

func (s *state) describe(i int) string {
	if s.kind(i) == gnlexer.KindEOL {
		return "end of line"
	}
	return fmt.Sprintf("%q", s.lexeme(i))
}

func (s *state) fail(i int, format string, args ...interface{}) error {
	return s.failToken(s.tokens[i], format, args...)
}

func (s *state) failToken(tok gnlexer.Token, format string, args ...interface{}) error {
	return gnerror.Newf(format, args...).
		WithCode(gnerror.CodeParse).
		WithOperation("parser.Parse").
		WithDetail("lexeme", tok.Lexeme).
		WithDetail("kind", string(tok.Kind)).
		WithDetail("offset", tok.Offset)
}
