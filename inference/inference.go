// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package inference determines the types of the external arguments of
// FTL messages. The inference is deliberately restricted: it gathers
// evidence that an argument is used as a String, Number or DateTime,
// and reports a conflict when the evidence disagrees. Everything else
// about typing is handled by the constraint model of the types
// package during compilation.
package inference

import (
	"sort"

	"github.com/elm-fluent/elm-fluent/syntax"
)

// A Type is a type an argument can be inferred to have.
// The zero value means the argument was used but nothing further is
// known about it.
type Type int

const (
	Unknown Type = iota
	String
	Number
	DateTime
)

func (t Type) String() string {
	switch t {
	case String:
		return "String"
	case Number:
		return "Number"
	case DateTime:
		return "DateTime"
	}
	return "Unknown"
}

// A Fact is evidence that an argument has a type: the type and the
// FTL expressions it was inferred from.
type Fact struct {
	Type     Type
	Evidence []syntax.Source
}

// A Conflict is contradictory evidence about an argument's type.
// It is terminal: a conflicted argument types nothing downstream and
// is reported as an error.
type Conflict struct {
	Facts   []*Fact
	Message syntax.Source
}

// An ArgType is the inference result for one argument,
// either a *Fact or a *Conflict.
type ArgType interface{ isArgType() }

func (*Fact) isArgType()     {}
func (*Conflict) isArgType() {}

// MessageArgs maps a message's argument names to their inferred types.
type MessageArgs map[string]ArgType

// CLDRPluralForms are the CLDR plural category names.
var CLDRPluralForms = map[string]bool{
	"zero": true, "one": true, "two": true,
	"few": true, "many": true, "other": true,
}

// IsPluralForm reports whether a variant key is a CLDR plural
// category identifier.
func IsPluralForm(key syntax.VariantKey) bool {
	id, ok := key.(syntax.Identifier)
	return ok && CLDRPluralForms[id.Name]
}

func isNumberKey(key syntax.VariantKey) bool {
	_, ok := key.(*syntax.NumberLiteral)
	return ok
}

// Infer computes the argument types of every message in messages,
// keyed the way compiled units are: attributes under compound
// "parent.attr" ids and terms with their - sigil. The ids in order
// must list a message after every message it references, so that
// argument types propagate from a referenced message to its callers.
func Infer(messages map[string]syntax.Node, order []string, path string) map[string]MessageArgs {
	known := make(map[string]MessageArgs, len(messages))
	e := &env{path: path, known: known}
	for _, id := range order {
		msg, ok := messages[id]
		if !ok {
			continue
		}
		e.messageID = id
		var facts []namedFact
		syntax.Walk(msg, func(n syntax.Node) {
			facts = append(facts, e.infer(n)...)
		})
		known[id] = combine(facts, e.source(msg))
	}
	return known
}

type namedFact struct {
	name string
	fact *Fact
}

type env struct {
	path      string
	messageID string
	known     map[string]MessageArgs
}

func (e *env) source(n syntax.Node) syntax.Source {
	return syntax.Source{Node: n, MessageID: e.messageID, Path: e.path}
}

func (e *env) infer(n syntax.Node) []namedFact {
	switch n := n.(type) {
	case *syntax.VariableReference:
		// The argument was used, but that is all we know here.
		return []namedFact{{n.ID.Name, &Fact{Evidence: []syntax.Source{e.source(n)}}}}
	case *syntax.FunctionReference:
		return e.inferFunctionReference(n)
	case *syntax.MessageReference:
		return e.inferReference(syntax.ReferenceID(n), n)
	case *syntax.TermReference:
		// Term attributes are compiled units of their own, so their
		// argument types propagate like message references. Plain
		// terms are inlined and contribute nothing here.
		return e.inferReference(syntax.ReferenceID(n), n)
	case *syntax.SelectExpression:
		return e.inferSelect(n)
	}
	return nil
}

func (e *env) inferFunctionReference(n *syntax.FunctionReference) []namedFact {
	var t Type
	switch n.ID.Name {
	case "NUMBER":
		t = Number
	case "DATETIME":
		t = DateTime
	default:
		return nil
	}
	if len(n.Arguments.Positional) == 0 {
		return nil
	}
	v, ok := n.Arguments.Positional[0].(*syntax.VariableReference)
	if !ok {
		return nil
	}
	return []namedFact{{v.ID.Name, &Fact{Type: t, Evidence: []syntax.Source{e.source(n)}}}}
}

func (e *env) inferReference(id string, n syntax.Node) []namedFact {
	args, ok := e.known[id]
	if !ok {
		// Unknown references are reported by the compiler proper.
		return nil
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []namedFact
	for _, name := range names {
		f, ok := args[name].(*Fact)
		if !ok {
			// A conflicted argument types nothing downstream.
			continue
		}
		// The reference site comes first, then the evidence gathered
		// in the referenced message.
		ev := make([]syntax.Source, 0, len(f.Evidence)+1)
		ev = append(ev, e.source(n))
		ev = append(ev, f.Evidence...)
		out = append(out, namedFact{name, &Fact{Type: f.Type, Evidence: ev}})
	}
	return out
}

func (e *env) inferSelect(n *syntax.SelectExpression) []namedFact {
	sel, ok := n.Selector.(*syntax.VariableReference)
	if !ok {
		return nil
	}
	name := sel.ID.Name
	var numeric, plural, others []*syntax.Variant
	for _, v := range n.Variants {
		switch {
		case isNumberKey(v.Key):
			numeric = append(numeric, v)
		case IsPluralForm(v.Key):
			plural = append(plural, v)
		default:
			others = append(others, v)
		}
	}
	var out []namedFact
	if len(numeric) > 0 {
		out = append(out, namedFact{name, &Fact{Type: Number, Evidence: e.keySources(numeric)}})
	}
	if len(others) == 0 {
		// Only numbers and plural categories: keys that look like
		// plural forms count as numeric evidence.
		out = append(out, namedFact{name, &Fact{Type: Number, Evidence: e.keySources(plural)}})
	} else {
		// Some keys are plain strings, so every non-numeric key is
		// matched as a string, plural-category lookalikes included.
		var strs []*syntax.Variant
		for _, v := range n.Variants {
			if !isNumberKey(v.Key) {
				strs = append(strs, v)
			}
		}
		out = append(out, namedFact{name, &Fact{Type: String, Evidence: e.keySources(strs)}})
	}
	return out
}

func (e *env) keySources(variants []*syntax.Variant) []syntax.Source {
	srcs := make([]syntax.Source, len(variants))
	for i, v := range variants {
		srcs[i] = e.source(v.Key)
	}
	return srcs
}

// combine merges the facts gathered across one message into the
// per-argument result. Facts about different types of one argument
// become a Conflict. Arguments only ever seen as bare uses default to
// String.
func combine(facts []namedFact, message syntax.Source) MessageArgs {
	out := MessageArgs{}
	for _, nf := range facts {
		if nf.fact.Type == Unknown {
			continue
		}
		switch existing := out[nf.name].(type) {
		case nil:
			out[nf.name] = nf.fact
		case *Conflict:
			existing.Facts = append(existing.Facts, nf.fact)
		case *Fact:
			if existing.Type == nf.fact.Type {
				existing.Evidence = append(existing.Evidence, nf.fact.Evidence...)
			} else {
				out[nf.name] = &Conflict{Facts: []*Fact{existing, nf.fact}, Message: message}
			}
		}
	}
	defaulted := map[string]bool{}
	for _, nf := range facts {
		if nf.fact.Type != Unknown {
			continue
		}
		if existing, ok := out[nf.name]; ok {
			if f, isFact := existing.(*Fact); isFact && defaulted[nf.name] {
				f.Evidence = append(f.Evidence, nf.fact.Evidence...)
			}
			continue
		}
		defaulted[nf.name] = true
		ev := append([]syntax.Source(nil), nf.fact.Evidence...)
		out[nf.name] = &Fact{Type: String, Evidence: ev}
	}
	return out
}
