// File: galnotes.go
// Title: Galactic Notes Interpreter Session
// Description: Wires lexer, parser, translator and engine into a session that
//              executes one statement per call against its own engine state.
//              Every result can be handed to a Recorder.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial session implementation
// - 2026-10-14 v0.1.1: Validate currency, keep tokens of failed statements, IgnoreCase applies to custom rules

package galnotes

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
	gnast "github.com/msto63/galnotes/foundation/galnotes/ast"
	gnlexer "github.com/msto63/galnotes/foundation/galnotes/lexer"
	gnparser "github.com/msto63/galnotes/foundation/galnotes/parser"
	gntranslator "github.com/msto63/galnotes/foundation/galnotes/translator"
	gnvm "github.com/msto63/galnotes/foundation/galnotes/vm"
)

//go:generate mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_recorder_test.go github.com/msto63/galnotes/foundation/galnotes Recorder

// Recorder receives the outcome of every executed statement. err is the
// statement error, nil on success.
type Recorder interface {
	Record(ctx context.Context, res *Result, err error) error
}

// Options configures a session
type Options struct {
	Logger *gnlog.Logger

	// IgnoreCase upper-cases every line. Without Rules it also selects the
	// upper-case rule table; a custom table must match upper-case input.
	IgnoreCase bool

	// Rules replaces the built-in rule table
	Rules gnlexer.RuleTable

	// Currency names the currency unit, DefaultCurrency when empty
	Currency string

	MaxInputLength int
	Recorder       Recorder
}

// Result is the outcome of one statement. Fields are filled as far as the
// pipeline got.
type Result struct {
	SessionID string
	Input     string
	Statement gntranslator.Statement
	Tokens    []gnlexer.Token
	Tree      *gnast.Tree
	Program   []string // execution order
	Output    string
	HasOutput bool
	Halted    bool
	Elapsed   time.Duration
}

// Session executes statements one at a time. It is not safe for concurrent
// use.
type Session struct {
	id         string
	lexer      *gnlexer.Lexer
	parser     *gnparser.Parser
	translator *gntranslator.Translator
	engine     *gnvm.Engine
	logger     *gnlog.Logger
	options    Options
}

// NewSession creates a session with a fresh engine state
func NewSession(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = gnlog.GetDefault()
	}
	if opts.Currency == "" {
		opts.Currency = gnvm.DefaultCurrency
	}
	if err := gnvm.ValidateCurrency(opts.Currency); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger.WithSessionID(id).WithField("component", "galnotes-session")

	rules := opts.Rules
	if rules == nil {
		if opts.IgnoreCase {
			rules = gnlexer.UpperRules(opts.Currency)
		} else {
			rules = gnlexer.DefaultRules(opts.Currency)
		}
	} else if missing := rules.Missing(); len(missing) > 0 {
		return nil, gnerror.Newf("rule table lacks kinds %v", missing).
			WithCode(gnerror.CodeLexical).
			WithOperation("galnotes.NewSession")
	}

	lx, err := gnlexer.New(rules, gnlexer.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	p, err := gnparser.New(gnparser.Options{
		Logger:         logger,
		Lexer:          lx,
		MaxInputLength: opts.MaxInputLength,
	})
	if err != nil {
		return nil, err
	}

	engine, err := gnvm.New(gnvm.Options{Logger: logger, Currency: opts.Currency})
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:         id,
		lexer:      lx,
		parser:     p,
		translator: gntranslator.New(gntranslator.Options{Logger: logger, Currency: opts.Currency}),
		engine:     engine,
		logger:     logger,
		options:    opts,
	}

	logger.Debug("session started", gnlog.Fields{
		"ignoreCase": opts.IgnoreCase,
		"currency":   opts.Currency,
		"rules":      len(rules),
	})
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Engine returns the session engine
func (s *Session) Engine() *gnvm.Engine { return s.engine }

// Lexer returns the session lexer
func (s *Session) Lexer() *gnlexer.Lexer { return s.lexer }

// Halted reports whether a quit statement ended the session
func (s *Session) Halted() bool { return s.engine.Halted() }

// Dump writes the engine state
func (s *Session) Dump(w io.Writer) error { return s.engine.Dump(w) }

// Normalize applies the case mode to a line
func (s *Session) Normalize(line string) string {
	if s.options.IgnoreCase {
		return strings.ToUpper(line)
	}
	return line
}

// Execute runs one statement. The result is returned even on error and
// holds everything produced before the failing stage. After a failure the
// engine registers are reset; variables are never touched by a failed
// statement.
func (s *Session) Execute(ctx context.Context, line string) (*Result, error) {
	start := time.Now()
	res := &Result{SessionID: s.id, Input: line}

	err := s.execute(ctx, res)
	res.Elapsed = time.Since(start)

	if err != nil {
		var ge *gnerror.Error
		if errors.As(err, &ge) {
			ge.WithSessionID(s.id)
		}
		s.engine.Reset()
		s.logger.LogError(err, gnlog.Fields{"input": line})
	} else {
		s.logger.Debug("statement executed", gnlog.Fields{
			"input":     line,
			"statement": res.Statement.String(),
			"elapsed":   res.Elapsed.String(),
		})
	}

	if s.options.Recorder != nil {
		if rerr := s.options.Recorder.Record(ctx, res, err); rerr != nil {
			s.logger.WarnWithErr("recording statement failed", rerr)
		}
	}
	return res, err
}

func (s *Session) execute(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return gnerror.Wrap(err, "statement canceled").
			WithCode(gnerror.CodeCanceled).
			WithOperation("galnotes.Execute")
	}
	if s.engine.Halted() {
		return gnerror.New("session has ended").
			WithCode(gnerror.CodeExecution).
			WithOperation("galnotes.Execute")
	}

	parsed, err := s.parser.Parse(s.Normalize(res.Input))
	if parsed != nil {
		res.Tokens = parsed.Tokens
	}
	if err != nil {
		return err
	}
	res.Tree = parsed.Tree

	if res.Statement, err = gntranslator.Classify(parsed.Tree); err != nil {
		return err
	}
	prog, err := s.translator.Translate(parsed.Tree)
	if err != nil {
		return err
	}
	res.Program = prog.Lines()

	if err := s.engine.Run(ctx, prog); err != nil {
		return err
	}
	res.HasOutput = s.engine.HasOutput()
	if res.HasOutput {
		res.Output = s.engine.Output()
	}
	res.Halted = s.engine.Halted()
	return nil
}
