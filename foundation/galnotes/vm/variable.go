// File: variable.go
// Title: Engine Variable Store
// Description: Named storage locations of the engine. The Roman numerals and
//              one currency unit are built in; user statements add numeral
//              aliases and commodity prices. A name can be defined once.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation
// - 2026-10-14 v0.1.1: Reject currency names that collide with numerals

package vm

import (
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

// DefaultCurrency names the built-in currency unit
const DefaultCurrency = "Credits"

// Kind classifies what a variable or register value stands for
type Kind int

const (
	KindNone Kind = iota
	KindNumeral
	KindCurrency
	KindCommodity
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindNumeral:
		return "NUMERAL"
	case KindCurrency:
		return "CURRENCY"
	case KindCommodity:
		return "COMMODITY"
	default:
		return "NONE"
	}
}

// Variable is one named value
type Variable struct {
	Name    string
	Value   float64
	Kind    Kind
	Builtin bool
}

var romanNumerals = []Variable{
	{Name: "I", Value: 1},
	{Name: "V", Value: 5},
	{Name: "X", Value: 10},
	{Name: "L", Value: 50},
	{Name: "C", Value: 100},
	{Name: "D", Value: 500},
	{Name: "M", Value: 1000},
}

// Store holds variables in definition order
type Store struct {
	vars  map[string]Variable
	order []string
}

// ValidateCurrency checks a currency unit name. The name must be a single
// word and must not collide with a Roman numeral in any case, since the
// currency keyword matches case-insensitively. An empty name is valid and
// selects DefaultCurrency.
func ValidateCurrency(name string) error {
	if strings.ContainsAny(name, " \t\r\n") {
		return gnerror.Newf("currency %q must be a single word", name).
			WithCode(gnerror.CodeInvalidInput).
			WithOperation("vm.ValidateCurrency").
			WithDetail("currency", name)
	}
	for _, v := range romanNumerals {
		if strings.EqualFold(name, v.Name) {
			return gnerror.Newf("currency %q collides with the numeral %s", name, v.Name).
				WithCode(gnerror.CodeInvalidInput).
				WithOperation("vm.ValidateCurrency").
				WithDetail("currency", name)
		}
	}
	return nil
}

// NewStore creates a store seeded with the Roman numerals and the currency
// unit. An empty currency selects DefaultCurrency.
func NewStore(currency string) (*Store, error) {
	if err := ValidateCurrency(currency); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	s := &Store{vars: make(map[string]Variable)}
	for _, v := range romanNumerals {
		v.Kind = KindNumeral
		v.Builtin = true
		s.put(v)
	}
	s.put(Variable{Name: currency, Value: 1, Kind: KindCurrency, Builtin: true})
	return s, nil
}

func (s *Store) put(v Variable) {
	s.vars[v.Name] = v
	s.order = append(s.order, v.Name)
}

// Store defines a new variable. It fails if the name is already defined,
// built-in names included. The Builtin flag of v is ignored.
func (s *Store) Store(v Variable) error {
	if v.Name == "" {
		return gnerror.New("variable name is empty").
			WithCode(gnerror.CodeOperandClass).
			WithOperation("vm.Store.Store")
	}
	if existing, ok := s.vars[v.Name]; ok {
		return gnerror.Newf("%s is already defined", v.Name).
			WithCode(gnerror.CodeDuplicateVariable).
			WithOperation("vm.Store.Store").
			WithDetail("variable", v.Name).
			WithDetail("builtin", existing.Builtin)
	}
	v.Builtin = false
	s.put(v)
	return nil
}

// Load returns a defined variable
func (s *Store) Load(name string) (Variable, error) {
	v, ok := s.vars[name]
	if !ok {
		return Variable{}, gnerror.Newf("I don't know what %s is!", name).
			WithCode(gnerror.CodeUndefinedVariable).
			WithOperation("vm.Store.Load").
			WithDetail("variable", name)
	}
	return v, nil
}

// Has reports whether name is defined
func (s *Store) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Len returns the number of defined variables
func (s *Store) Len() int {
	return len(s.order)
}

// All returns every variable in definition order
func (s *Store) All() []Variable {
	out := make([]Variable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.vars[name])
	}
	return out
}

// ByKind returns the variables of one kind in definition order
func (s *Store) ByKind(kind Kind) []Variable {
	var out []Variable
	for _, name := range s.order {
		if v := s.vars[name]; v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// Currency returns the built-in currency unit
func (s *Store) Currency() Variable {
	for _, name := range s.order {
		if v := s.vars[name]; v.Builtin && v.Kind == KindCurrency {
			return v
		}
	}
	return Variable{}
}
