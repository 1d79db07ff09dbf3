// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"fmt"

	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// A stringable wraps a pattern element whose type may not be known
// yet. It always claims to be a String. Once all constraints are in,
// Finalize picks the real conversion: numbers and dates are rewritten
// into the matching format call, strings pass through unchanged.
type stringable struct {
	expr      elm.Expr
	scope     *elm.Let
	from      *syntax.Source
	finalized elm.Expr
	assigned  []types.Type
}

func newStringable(expr elm.Expr, scope *elm.Let, from *syntax.Source) *stringable {
	return &stringable{expr: expr, scope: scope, from: from}
}

func (s *stringable) Type() types.Type { return elm.StringType }

// ConstrainType only records the requested type. The underlying
// expression is constrained by Finalize, after its type has settled.
func (s *stringable) ConstrainType(t types.Type, from *syntax.Source) error {
	s.assigned = append(s.assigned, t)
	return nil
}

func (s *stringable) SubExpressions() []elm.Node { return []elm.Node{s.expr} }

func (s *stringable) Finalize() error {
	if s.finalized != nil {
		return nil
	}
	for _, t := range s.assigned {
		if !types.Equal(t, elm.StringType) {
			panic(fmt.Sprintf("stringable constrained to %s, expected String", t))
		}
	}
	switch t := s.expr.Type(); {
	case types.Equal(t, elm.StringType):
		s.finalized = s.expr
	case isUnconstrained(t):
		// The final constraint below makes it a String.
		s.finalized = s.expr
	case types.Equal(t, elm.NumberType):
		format := mustApply(s.scope.Var("NumberFormat.fromLocale"), s.scope.Var(localeArgName))
		s.finalized = mustApply(s.scope.Var("NumberFormat.format"), format, s.expr)
	case types.Equal(t, fluentNumberType):
		s.finalized = mustApply(s.scope.Var("Fluent.formatNumber"), s.scope.Var(localeArgName), s.expr)
	case types.Equal(t, fluentDateType):
		s.finalized = mustApply(s.scope.Var("Fluent.formatDate"), s.scope.Var(localeArgName), s.expr)
	default:
		panic(fmt.Sprintf("don't know how to convert type %s to a string", t))
	}
	return s.finalized.ConstrainType(elm.StringType, s.from)
}

func (s *stringable) BuildSource(b *elm.Builder) {
	if s.finalized == nil {
		panic("stringable must be finalized before rendering")
	}
	s.finalized.BuildSource(b)
}

func (s *stringable) Simplify(changed *bool) elm.Expr {
	if s.finalized == nil {
		panic("stringable must be finalized before simplifying")
	}
	return s.finalized.Simplify(changed)
}

func isUnconstrained(t types.Type) bool {
	switch t.(type) {
	case *types.Unconstrained, *types.TypeParam:
		return true
	}
	return false
}
