// File: lexer.go
// Title: Galactic Notes Lexical Analyzer
// Description: Converts one statement line into tokens using an ordered rule
//              table. The first rule matching at the current position wins.
//              Unmatched input is reported through the NoTokenFound sentinel,
//              which the parser turns into a user-facing error.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package lexer

import (
	"regexp"
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

// Options configures a Lexer
type Options struct {
	Logger *gnlog.Logger
}

type compiledRule struct {
	kind Kind
	re   *regexp.Regexp
}

// Lexer matches rule tables against input lines. A Lexer is immutable after
// construction and safe for concurrent use.
type Lexer struct {
	rules  []compiledRule
	table  RuleTable
	logger *gnlog.Logger
}

// New compiles a rule table. It fails with a lexical error when the table is
// empty, names the reserved NoTokenFound kind, has an empty kind or contains
// a pattern that does not compile.
func New(table RuleTable, opts Options) (*Lexer, error) {
	if opts.Logger == nil {
		opts.Logger = gnlog.GetDefault()
	}
	if len(table) == 0 {
		return nil, gnerror.New("rule table is empty").
			WithCode(gnerror.CodeLexical).
			WithOperation("lexer.New")
	}

	l := &Lexer{
		rules:  make([]compiledRule, 0, len(table)),
		table:  append(RuleTable(nil), table...),
		logger: opts.Logger.WithField("component", "galnotes-lexer"),
	}

	for i, rule := range table {
		switch rule.Kind {
		case KindNoTokenFound:
			return nil, gnerror.Newf("rule %d uses the reserved kind %s", i, KindNoTokenFound).
				WithCode(gnerror.CodeLexical).
				WithOperation("lexer.New").
				WithDetail("pattern", rule.Pattern)
		case "":
			return nil, gnerror.Newf("rule %d has no kind", i).
				WithCode(gnerror.CodeLexical).
				WithOperation("lexer.New").
				WithDetail("pattern", rule.Pattern)
		}

		re, err := regexp.Compile(`^(?:` + rule.Pattern + `)`)
		if err != nil {
			return nil, gnerror.Wrap(err, "invalid pattern for "+string(rule.Kind)).
				WithCode(gnerror.CodeLexical).
				WithOperation("lexer.New").
				WithDetail("pattern", rule.Pattern)
		}
		l.rules = append(l.rules, compiledRule{kind: rule.Kind, re: re})
	}

	l.logger.Debug("lexer initialized", gnlog.Fields{"rules": len(l.rules)})
	return l, nil
}

// Rules returns a copy of the rule table the lexer was built from
func (l *Lexer) Rules() RuleTable {
	return append(RuleTable(nil), l.table...)
}

// NextToken returns the token starting at position. At the end of input an
// EOL sentinel is returned; when no rule matches a NoTokenFound sentinel with
// the unmatched remainder as lexeme is returned. With skipWhitespace, tokens
// consisting only of whitespace are stepped over.
func (l *Lexer) NextToken(input string, position int, skipWhitespace bool) Token {
	for {
		if position < 0 {
			return Token{Kind: KindNoTokenFound, Lexeme: input, Offset: 0}
		}
		if position >= len(input) {
			return Token{Kind: KindEOL, Offset: len(input)}
		}

		rest := input[position:]
		tok, ok := l.match(rest, position)
		if !ok {
			return Token{Kind: KindNoTokenFound, Lexeme: rest, Offset: position}
		}

		if skipWhitespace && strings.TrimSpace(tok.Lexeme) == "" {
			position += len(tok.Lexeme)
			continue
		}
		return tok
	}
}

func (l *Lexer) match(rest string, position int) (Token, bool) {
	for _, rule := range l.rules {
		loc := rule.re.FindStringIndex(rest)
		// zero-length matches never advance and count as no match
		if loc == nil || loc[1] == 0 {
			continue
		}
		return Token{Kind: rule.kind, Lexeme: rest[:loc[1]], Offset: position}, true
	}
	return Token{}, false
}

// Tokenize collects tokens up to and including the first EOL token. It fails
// with a lexical error at the first position no rule matches.
func (l *Lexer) Tokenize(input string, skipWhitespace bool) ([]Token, error) {
	var tokens []Token
	position := 0

	for {
		tok := l.NextToken(input, position, skipWhitespace)
		if tok.Kind == KindNoTokenFound {
			return tokens, gnerror.Newf("no rule matches %q", tok.Lexeme).
				WithCode(gnerror.CodeLexical).
				WithOperation("lexer.Tokenize").
				WithDetail("offset", tok.Offset).
				WithDetail("lexeme", tok.Lexeme)
		}

		tokens = append(tokens, tok)
		if tok.Kind == KindEOL {
			break
		}
		position = tok.Offset + len(tok.Lexeme)
	}

	l.logger.Trace("tokenized", gnlog.Fields{"tokens": len(tokens)})
	return tokens, nil
}
