// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"fmt"
	"strings"

	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/inference"
	"github.com/elm-fluent/elm-fluent/loc"
	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// Kind classifies compile errors.
type Kind int

const (
	// JunkFound is FTL content the parser could not make sense of.
	JunkFound Kind = iota + 1
	// BadMessageID is a message id whose function name clashes with an
	// Elm keyword, a default import, or another message's name.
	BadMessageID
	// CyclicReference is a message or term that refers back to itself.
	CyclicReference
	// UnknownReference names a message, term, or function that does
	// not exist.
	UnknownReference
	// TypeMismatch is a conflict between the types required by two
	// uses of a value.
	TypeMismatch
	// BadFunctionArgs is a builtin called with arguments it does not
	// take.
	BadFunctionArgs
	// BadTermArgs is a term called with arguments it does not use, or
	// called without an argument it needs.
	BadTermArgs
	// ArgumentConflict is a message argument whose inferred types
	// disagree.
	ArgumentConflict
	// MissingMessage is a message a locale does not translate.
	MissingMessage
	// MissingMessageFile is an FTL file a locale does not have.
	MissingMessageFile
)

// An Error is a problem found while compiling FTL to Elm. Errors
// accumulate as compilation continues: the generated code for the
// affected spot is a placeholder, and everything else compiles as
// usual.
type Error struct {
	Kind Kind
	Msg  string

	// Sources are the FTL expressions the error was found at.
	Sources []syntax.Source

	// Record and Field name the argument record field whose type
	// could not be reconciled, for mismatches on message arguments.
	Record *types.Record
	Field  string

	// Conflict and ArgName carry the contradictory evidence for an
	// argument type conflict.
	Conflict *inference.Conflict
	ArgName  string

	// FuncName is the master dispatch function being built, for
	// errors with no FTL source of their own.
	FuncName string
}

func (e *Error) Error() string { return e.Msg }

// Display renders the error as a command line report, one or more
// lines with no trailing newline, resolving positions against files.
func (e *Error) Display(files loc.Files) string {
	var lines []string
	switch {
	case e.Conflict != nil:
		lines = e.conflictLines(files)
	case len(e.Sources) > 0:
		for _, src := range e.Sources {
			if src.MessageID != "" {
				lines = append(lines, fmt.Sprintf("%s: In message '%s': %s",
					sourcePos(src, files), src.MessageID, e.Msg))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", sourcePos(src, files), e.Msg))
			}
		}
	case e.FuncName != "":
		lines = append(lines,
			fmt.Sprintf("While trying to compile master '%s' function:", e.FuncName),
			"  "+e.Msg)
	default:
		lines = append(lines, e.Msg)
	}
	if e.Record != nil && e.Field != "" {
		lines = append(lines, e.fieldLines(files)...)
	}
	return strings.Join(lines, "\n")
}

// fieldLines explains a mismatch on an argument record field, listing
// the FTL expressions each competing type was inferred from.
func (e *Error) fieldLines(files loc.Files) []string {
	lines := []string{fmt.Sprintf(
		"  Explanation: incompatible types were detected for message argument '$%s'", e.Field)}
	srcs := e.Record.FieldSources[e.Field]
	if len(srcs) == 0 {
		return lines
	}
	lines = append(lines, "  Compare the following:")
	sawString := false
	for _, ts := range srcs {
		lines = append(lines, fmt.Sprintf("    %s: Inferred type: %s",
			sourcePos(ts.FtlSource, files), ts.Type))
		if types.Equal(ts.Type, elm.StringType) {
			sawString = true
		}
	}
	if sawString {
		lines = append(lines, "",
			"  Hint: You may need to use NUMBER() or DATETIME() builtins to force the correct type")
	}
	return lines
}

// conflictLines lays out an argument type conflict: where the
// conflict surfaced, then every piece of evidence for each competing
// type.
func (e *Error) conflictLines(files loc.Files) []string {
	var lines []string
	if e.FuncName != "" {
		lines = append(lines, fmt.Sprintf(
			"For master '%s' function: Conflicting inferred types for argument '$%s'",
			e.FuncName, e.ArgName))
	} else {
		src := e.Conflict.Message
		lines = append(lines, fmt.Sprintf(
			"%s: In message '%s': Conflicting inferred types for argument '$%s'",
			sourcePos(src, files), src.MessageID, e.ArgName))
	}
	lines = append(lines, "  Compare the following:")
	sawString := false
	for _, f := range e.Conflict.Facts {
		for _, ev := range f.Evidence {
			lines = append(lines, fmt.Sprintf("    %s: Inferred type: %s",
				sourcePos(ev, files), f.Type))
		}
		if f.Type == inference.String {
			sawString = true
		}
	}
	if sawString {
		lines = append(lines, "",
			"  Hint: You may need to use NUMBER() or DATETIME() builtins to force the correct type.")
	}
	return lines
}

// sourcePos formats a source position, falling back to the bare path
// for files not in the set.
func sourcePos(src syntax.Source, files loc.Files) string {
	if src.Node != nil {
		if l := src.Loc(files); l != nil {
			return l.String()
		}
	}
	return src.Path
}

// typeMismatchError wraps a failed type constraint, keeping the
// record evidence when the failure was on an argument field.
func typeMismatchError(err error) *Error {
	e := &Error{Kind: TypeMismatch, Msg: err.Error()}
	if rm, ok := err.(*types.RecordMismatch); ok {
		e.Record = rm.Record
		e.Field = rm.Field
	}
	return e
}

// conflictError reports an argument whose uses imply different types.
func conflictError(argName string, c *inference.Conflict) *Error {
	return &Error{
		Kind:     ArgumentConflict,
		Msg:      fmt.Sprintf("Conflicting inferred types for argument '$%s'", argName),
		Conflict: c,
		ArgName:  argName,
	}
}
