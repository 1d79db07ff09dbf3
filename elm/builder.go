// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package elm

import (
	"fmt"
	"strings"
)

const blockIndent = 4

// A Builder accumulates Elm source text.
//
// Indentation is handled by the builder rather than the nodes: a node
// writes its parts in order, and the builder prefixes each new line
// with the current indent. Aligned blocks set the indent to the
// current column so that multi-line constructs like lists line up
// under their opening bracket.
type Builder struct {
	parts  []string
	indent int
	line   string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a part to the current line. A part may contain a
// newline only as its final character.
func (b *Builder) Add(part string) {
	if b.line == "" {
		pad := strings.Repeat(" ", b.indent)
		b.parts = append(b.parts, pad)
		b.line += pad
	}
	if i := strings.IndexByte(part, '\n'); i >= 0 && i != len(part)-1 {
		panic(fmt.Sprintf("a newline must end the part, got %q", part))
	}
	b.line += part
	if strings.HasSuffix(b.line, "\n") {
		b.line = ""
	}
	b.parts = append(b.parts, part)
}

// Indented calls f with the indent one block deeper.
func (b *Builder) Indented(f func()) {
	b.indent += blockIndent
	f()
	b.indent -= blockIndent
}

// Aligned calls f with the indent set to the current column, so lines
// written by f line up under the point where the block began.
func (b *Builder) Aligned(f func()) {
	old := b.indent
	if b.line != "" {
		b.indent = len(b.line)
	}
	f()
	b.indent = old
}

// String returns the accumulated source text.
func (b *Builder) String() string {
	return strings.Join(b.parts, "")
}

// parens calls f wrapped in parentheses unless e delimits itself:
// literals, references, and bracketing expressions read unambiguously
// as function call arguments without them.
func (b *Builder) parens(e Node, f func()) {
	_, plain := e.(selfDelimiting)
	if !plain {
		b.Add("(")
	}
	f()
	if !plain {
		b.Add(")")
	}
}
