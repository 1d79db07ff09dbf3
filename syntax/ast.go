// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package syntax defines the Fluent (FTL) abstract syntax tree
// and a parser producing it.
package syntax

import "github.com/elm-fluent/elm-fluent/loc"

// A Node is a node of the AST with location information.
type Node interface {
	GetRange() loc.Range
}

// A Resource is a parsed FTL file.
type Resource struct {
	loc.Range
	Entries []Entry
}

// An Entry is a top-level item of a resource.
type Entry interface {
	Node
	isEntry()
}

// A Message is a named, localizable text entry.
// It must have a value or at least one attribute.
type Message struct {
	loc.Range
	ID         Identifier
	Value      *Pattern
	Attributes []*Attribute
}

func (*Message) isEntry() {}

// A Term is a named reusable text fragment.
// Terms always have a value and are only ever inlined
// into the messages that reference them.
type Term struct {
	loc.Range
	ID         Identifier
	Value      *Pattern
	Attributes []*Attribute
}

func (*Term) isEntry() {}

// An Attribute is a named sub-value of a Message or Term.
type Attribute struct {
	loc.Range
	ID    Identifier
	Value *Pattern
}

// An Identifier is a name appearing in the source.
type Identifier struct {
	loc.Range
	Name string
}

func (Identifier) isVariantKey() {}

// A Pattern is a sequence of text and placeable elements.
type Pattern struct {
	loc.Range
	Elements []PatternElement
}

// A PatternElement is an element of a Pattern.
type PatternElement interface {
	Node
	isPatternElement()
}

// Text is a run of literal text in a pattern.
type Text struct {
	loc.Range
	Value string
}

func (*Text) isPatternElement() {}

// A Placeable is an interpolated expression in a pattern.
// A Placeable is itself an expression, since placeables nest.
type Placeable struct {
	loc.Range
	Expression Expression
}

func (*Placeable) isPatternElement() {}
func (*Placeable) isExpression()     {}

// An Expression is an expression inside a placeable.
type Expression interface {
	Node
	isExpression()
}

// A StringLiteral is a quoted string.
// Value is the raw source text between the quotes;
// Parsed has escape sequences resolved.
type StringLiteral struct {
	loc.Range
	Value  string
	Parsed string
}

func (*StringLiteral) isExpression() {}

// A NumberLiteral is a number matching -?[0-9]+(.[0-9]+)?.
// Source is the literal text; a decimal point distinguishes
// floating values from integers.
type NumberLiteral struct {
	loc.Range
	Source string
}

func (*NumberLiteral) isExpression() {}
func (NumberLiteral) isVariantKey()  {}

// IsFloat reports whether the literal has a decimal point.
func (n *NumberLiteral) IsFloat() bool {
	for _, r := range n.Source {
		if r == '.' {
			return true
		}
	}
	return false
}

// A VariableReference is $name, an external argument
// of the enclosing message, or a substitution parameter
// inside a term body.
type VariableReference struct {
	loc.Range
	ID Identifier
}

func (*VariableReference) isExpression() {}

// A MessageReference is a reference to another message
// or to one of its attributes.
type MessageReference struct {
	loc.Range
	ID        Identifier
	Attribute *Identifier
}

func (*MessageReference) isExpression() {}

// A TermReference is -name, a reference to a term, one of its
// attributes, or a parameterized use with named arguments.
type TermReference struct {
	loc.Range
	ID        Identifier
	Attribute *Identifier
	Arguments *CallArguments
}

func (*TermReference) isExpression() {}

// A FunctionReference is a call of a builtin such as NUMBER or DATETIME.
type FunctionReference struct {
	loc.Range
	ID        Identifier
	Arguments *CallArguments
}

func (*FunctionReference) isExpression() {}

// A SelectExpression chooses among variants by a selector value.
type SelectExpression struct {
	loc.Range
	Selector Expression
	Variants []*Variant
}

func (*SelectExpression) isExpression() {}

// DefaultVariant returns the variant marked with *.
// The parser guarantees exactly one exists.
func (s *SelectExpression) DefaultVariant() *Variant {
	for _, v := range s.Variants {
		if v.Default {
			return v
		}
	}
	panic("impossible: select expression without default variant")
}

// A Variant is one branch of a select expression.
type Variant struct {
	loc.Range
	Key     VariantKey
	Value   *Pattern
	Default bool
}

// A VariantKey is an Identifier or a NumberLiteral.
type VariantKey interface {
	Node
	isVariantKey()
}

// CallArguments are the arguments of a function or term reference.
type CallArguments struct {
	loc.Range
	Positional []Expression
	Named      []*NamedArgument
}

// A NamedArgument is name: literal inside call arguments.
type NamedArgument struct {
	loc.Range
	Name  Identifier
	Value Expression
}

// A Comment is a #, ## or ### comment. Level is 1 to 3.
type Comment struct {
	loc.Range
	Level   int
	Content string
}

func (*Comment) isEntry() {}

// Junk is an unparseable span of the resource. The parser records
// why parsing failed and resumes at the next entry start.
type Junk struct {
	loc.Range
	Content     string
	Annotations []Annotation
}

func (*Junk) isEntry() {}

// An Annotation describes one parse failure inside a Junk entry.
type Annotation struct {
	loc.Range
	Code    string
	Message string
}

// ReferenceID returns the canonical id of a message or term reference
// as used in compiled-unit id maps: terms keep their - sigil and
// attribute references are compound, joined with a dot.
func ReferenceID(e Expression) string {
	switch e := e.(type) {
	case *MessageReference:
		if e.Attribute != nil {
			return e.ID.Name + "." + e.Attribute.Name
		}
		return e.ID.Name
	case *TermReference:
		if e.Attribute != nil {
			return "-" + e.ID.Name + "." + e.Attribute.Name
		}
		return "-" + e.ID.Name
	}
	panic("impossible reference type")
}

// A Source pins an AST node to the file and message it came from.
// It is the evidence unit for diagnostics and type inference.
// MessageID is empty for nodes outside any message, such as junk.
type Source struct {
	Node      Node
	MessageID string
	Path      string
}

// Loc resolves the source's position against a file set.
func (s Source) Loc(files loc.Files) *loc.Loc {
	return files.Loc(s.Path, s.Node.GetRange())
}
