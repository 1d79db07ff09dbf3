// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package elm builds Elm source code from an expression tree.
//
// The tree is deliberately much simpler than a real Elm AST: it has
// exactly the constructs the compiler emits, each one knows how to
// print itself, and scopes track which names are taken so that
// generated locals never collide. Types from the types package hang
// off expressions so that argument records can be inferred and
// signatures printed.
//
// Trees are built incrementally, finalized once every constraint is
// known, and then simplified to a fixed point before rendering.
package elm

import (
	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// A Node is anything that can print itself as Elm source.
type Node interface {
	// BuildSource writes the node's source text to b.
	BuildSource(b *Builder)

	// SubExpressions returns the node's direct children.
	SubExpressions() []Node
}

// An Expr is a node with a type.
type Expr interface {
	Node

	// Type returns the expression's current type.
	Type() types.Type

	// ConstrainType narrows the expression's type to be compatible
	// with t. The source, if non-nil, records where in the .ftl file
	// the requirement arose.
	ConstrainType(t types.Type, from *syntax.Source) error

	// Simplify returns a replacement for the expression, which may be
	// the expression itself. It sets *changed when it returns
	// something different.
	Simplify(changed *bool) Expr
}

// A Finalizer is a node with work to do after tree building finishes
// but before simplification, such as committing to a concrete form
// now that all type constraints are known.
type Finalizer interface {
	Finalize() error
}

// selfDelimiting marks expressions that need no parentheses when
// passed as a function call argument.
type selfDelimiting interface {
	selfDelimiting()
}

// Source renders a node to a string.
func Source(n Node) string {
	b := NewBuilder()
	n.BuildSource(b)
	return b.String()
}

// Walk visits every node under n, children before parents.
func Walk(n Node, visit func(Node)) {
	for _, c := range n.SubExpressions() {
		Walk(c, visit)
	}
	visit(n)
}

// Finalize runs Finalize on every node under n that has one,
// children first.
func Finalize(n Node) error {
	var err error
	Walk(n, func(c Node) {
		if err != nil {
			return
		}
		if f, ok := c.(Finalizer); ok {
			err = f.Finalize()
		}
	})
	return err
}

// Simplify finalizes m and then simplifies it until nothing changes.
func Simplify(m *Module) error {
	if err := Finalize(m); err != nil {
		return err
	}
	for {
		changed := false
		m.simplify(&changed)
		if !changed {
			return nil
		}
	}
}

// Apply builds a call of callee on args, constraining the argument
// types against callee's function type. The source, if non-nil,
// records where in the .ftl file the call arose.
func Apply(callee Expr, args []Expr, from *syntax.Source) (*FunctionCall, error) {
	typed := make([]types.TypedExpr, len(args))
	for i, a := range args {
		typed[i] = a
	}
	t, err := types.ApplyArgs(callee.Type(), typed, from)
	if err != nil {
		return nil, err
	}
	return &FunctionCall{Callee: callee, Args: args, typ: t}, nil
}
