// File: rules.go
// Title: Lexer Rule Tables
// Description: Ordered pattern-to-kind rule tables. The built-in tables put the
//              fixed keywords ahead of the generic identifier pattern. Tables
//              can also be read from YAML, either as a list of kind/pattern
//              pairs or as an ordered pattern: kind mapping.
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
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

// DefaultCurrency is the currency keyword used when none is configured
const DefaultCurrency = "Credits"

// Rule maps a pattern to the kind of the token it produces
type Rule struct {
	Kind    Kind   `yaml:"kind"`
	Pattern string `yaml:"pattern"`
}

// RuleTable is an ordered rule list, earlier rules win
type RuleTable []Rule

// Kinds returns the set of kinds the table can produce
func (rt RuleTable) Kinds() map[Kind]bool {
	kinds := make(map[Kind]bool, len(rt))
	for _, r := range rt {
		kinds[r.Kind] = true
	}
	return kinds
}

// Missing returns the grammar kinds the table cannot produce
func (rt RuleTable) Missing() []Kind {
	kinds := rt.Kinds()
	var missing []Kind
	for _, k := range GrammarKinds {
		if !kinds[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// DefaultRules returns the case-sensitive rule table with lower-case keywords
func DefaultRules(currency string) RuleTable {
	return keywordRules(currency, []string{"quit", "how", "many", "much", "is"}, `[A-Za-z]+`)
}

// UpperRules returns the rule table for upper-cased input
func UpperRules(currency string) RuleTable {
	return keywordRules(currency, []string{"QUIT", "HOW", "MANY", "MUCH", "IS"}, `[A-Z]+`)
}

func keywordRules(currency string, keywords []string, identifier string) RuleTable {
	if currency == "" {
		currency = DefaultCurrency
	}
	return RuleTable{
		{Kind: KindEOL, Pattern: `\r?\n`},
		{Kind: KindWhitespace, Pattern: `[ \t]+`},
		{Kind: KindQuit, Pattern: keywords[0] + `\b`},
		{Kind: KindHow, Pattern: keywords[1] + `\b`},
		{Kind: KindMany, Pattern: keywords[2] + `\b`},
		{Kind: KindMuch, Pattern: keywords[3] + `\b`},
		{Kind: KindIs, Pattern: keywords[4] + `\b`},
		{Kind: KindCredits, Pattern: `(?i:` + regexp.QuoteMeta(currency) + `)\b`},
		{Kind: KindQuestion, Pattern: `\?`},
		{Kind: KindNumber, Pattern: `\d+(?:\.\d+)?`},
		{Kind: KindVariable, Pattern: identifier},
	}
}

type ruleDocument struct {
	Rules yaml.Node `yaml:"rules"`
}

// ParseRules reads a rule table from YAML. Document order is rule order.
//
//	rules:
//	  - {kind: HOW, pattern: 'how\b'}
//
// or the mapping form
//
//	rules:
//	  'how\b': HOW
func ParseRules(data []byte) (RuleTable, error) {
	var doc ruleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, gnerror.Wrap(err, "invalid rule table").
			WithCode(gnerror.CodeLexical).
			WithOperation("lexer.ParseRules")
	}

	var table RuleTable
	switch doc.Rules.Kind {
	case yaml.SequenceNode:
		if err := doc.Rules.Decode(&table); err != nil {
			return nil, gnerror.Wrap(err, "invalid rule list").
				WithCode(gnerror.CodeLexical).
				WithOperation("lexer.ParseRules")
		}
	case yaml.MappingNode:
		content := doc.Rules.Content
		for i := 0; i+1 < len(content); i += 2 {
			table = append(table, Rule{
				Pattern: content[i].Value,
				Kind:    Kind(strings.TrimSpace(content[i+1].Value)),
			})
		}
	default:
		return nil, gnerror.New("rule table has no rules").
			WithCode(gnerror.CodeLexical).
			WithOperation("lexer.ParseRules")
	}

	return table, nil
}

// LoadRules reads a YAML rule table from a file
func LoadRules(path string) (RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gnerror.Wrap(err, fmt.Sprintf("reading rule table %s", path)).
			WithCode(gnerror.CodeLexical).
			WithOperation("lexer.LoadRules").
			WithDetail("path", path)
	}
	return ParseRules(data)
}
