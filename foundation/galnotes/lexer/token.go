// File: token.go
// Title: Galactic Notes Tokens
// Description: Defines the token value produced by the lexer and the token
//              kinds the fixed grammar relies on. Kinds are string tags so
//              that rule tables loaded from files can name them directly.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package lexer

import (
	"fmt"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

// Kind is the string tag classifying a token
type Kind string

const (
	// Sentinels
	KindEOL          Kind = "EOL"
	KindNoTokenFound Kind = "NoTokenFound"

	// Lexical kinds produced by the default rule tables
	KindWhitespace Kind = "WHITESPACE"
	KindQuit       Kind = "QUIT"
	KindHow        Kind = "HOW"
	KindMany       Kind = "MANY"
	KindMuch       Kind = "MUCH"
	KindIs         Kind = "IS"
	KindCredits    Kind = "CREDITS"
	KindQuestion   Kind = "QUESTION"
	KindNumber     Kind = "NUMBER"
	KindVariable   Kind = "VARIABLE"

	// Roles assigned by the parser to VARIABLE tokens
	KindGalNum    Kind = "GALNUM"
	KindCommodity Kind = "COMMODITY"
)

// GrammarKinds lists the kinds a rule table must be able to produce for the
// parser to recognize every statement. EOL is covered by the end sentinel.
var GrammarKinds = []Kind{
	KindQuit, KindHow, KindMany, KindMuch, KindIs,
	KindCredits, KindQuestion, KindNumber, KindVariable,
}

// Token is a classified substring of one input line
type Token struct {
	Kind   Kind   // kind assigned by the rule table
	Lexeme string // matched text
	Offset int    // byte offset in the input line

	role Kind
}

// Role returns the grammatical role of the token: the kind set by Relabel,
// or the lexical kind when the token was never relabeled.
func (t Token) Role() Kind {
	if t.role != "" {
		return t.role
	}
	return t.Kind
}

// Relabeled reports whether the parser already assigned a role
func (t Token) Relabeled() bool {
	return t.role != ""
}

// Relabel assigns the grammatical role of a token. A role can be set once.
func (t *Token) Relabel(role Kind) error {
	if t.role != "" {
		return gnerror.Newf("token %q already relabeled %s", t.Lexeme, t.role).
			WithCode(gnerror.CodeInternal).
			WithOperation("lexer.Token.Relabel").
			WithDetail("lexeme", t.Lexeme).
			WithDetail("role", string(t.role))
	}
	t.role = role
	return nil
}

// IsEnd reports whether the token ends a statement
func (t Token) IsEnd() bool {
	return t.Kind == KindEOL
}

// String returns a string representation of the token
func (t Token) String() string {
	switch {
	case t.Kind == KindEOL && t.Lexeme == "":
		return "EOL"
	case t.role != "":
		return fmt.Sprintf("%s(%s)->%s", t.Kind, t.Lexeme, t.role)
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
}
