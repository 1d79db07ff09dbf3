// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"fmt"
	"strings"

	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// A builtin is an FTL function such as NUMBER() or DATETIME(). Each
// keyword argument has a handler that turns the FTL argument value
// into the Elm expression for the matching formatting option field.
type builtin struct {
	name           string
	positionalArgs int
	keywordArgs    map[string]paramHandler
	compile        func(b *builtin, from *syntax.Source, args []elm.Expr,
		kwargs map[string]elm.Expr, kwNames []string, scope *elm.Let) (elm.Expr, *Error)
}

type paramHandler func(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error)

var functions = map[string]*builtin{
	"NUMBER":   numberBuiltin,
	"DATETIME": dateTimeBuiltin,
}

var numberBuiltin = &builtin{
	name:           "NUMBER",
	positionalArgs: 1,
	keywordArgs: map[string]paramHandler{
		"currencyDisplay":          currencyDisplayParam,
		"useGrouping":              boolParam,
		"minimumIntegerDigits":     maybeIntParam,
		"minimumFractionDigits":    maybeIntParam,
		"maximumFractionDigits":    maybeIntParam,
		"minimumSignificantDigits": maybeIntParam,
		"maximumSignificantDigits": maybeIntParam,
	},
	compile: compileNumberCall,
}

var dateTimeBuiltin = &builtin{
	name:           "DATETIME",
	positionalArgs: 1,
	keywordArgs: map[string]paramHandler{
		"hour12":       maybeBoolParam,
		"weekday":      nameStyleParam,
		"era":          nameStyleParam,
		"year":         numberStyleParam,
		"month":        monthStyleParam,
		"day":          numberStyleParam,
		"hour":         numberStyleParam,
		"minute":       numberStyleParam,
		"second":       numberStyleParam,
		"timeZoneName": timeZoneStyleParam,
	},
	compile: compileDateTimeCall,
}

// checkArgs validates the shape of a call before compiling it.
func (b *builtin) checkArgs(positional int, kwNames []string) *Error {
	for _, kw := range kwNames {
		if _, ok := b.keywordArgs[kw]; !ok {
			return &Error{Kind: BadFunctionArgs, Msg: fmt.Sprintf(
				"%s() got an unexpected keyword argument '%s'", b.name, kw)}
		}
	}
	if positional != b.positionalArgs {
		return &Error{Kind: BadFunctionArgs, Msg: fmt.Sprintf(
			"%s() takes %d positional argument(s) but %d were given",
			b.name, b.positionalArgs, positional)}
	}
	return nil
}

// optionsUpdates builds the record update fields for a builtin call:
// the bundle locale plus one field per keyword argument.
func optionsUpdates(b *builtin, kwargs map[string]elm.Expr, kwNames []string,
	scope *elm.Let) (map[string]elm.Expr, *Error) {
	updates := map[string]elm.Expr{"locale": scope.Var(localeArgName)}
	for _, name := range kwNames {
		value, err := b.keywordArgs[name](name, kwargs[name], scope)
		if err != nil {
			return nil, err
		}
		updates[name] = value
	}
	return updates, nil
}

// compileNumberCall lowers NUMBER(). Without keyword arguments the
// argument is just typed: a literal stays a plain number, anything
// else becomes a FluentNumber. With keyword arguments the call builds
// a formatting options record and a formatted number local.
func compileNumberCall(b *builtin, from *syntax.Source, args []elm.Expr,
	kwargs map[string]elm.Expr, kwNames []string, scope *elm.Let) (elm.Expr, *Error) {
	arg := args[0]
	if len(kwargs) == 0 {
		if n, ok := arg.(*elm.Number); ok {
			return n, nil
		}
		if err := arg.ConstrainType(fluentNumberType, from); err != nil {
			return nil, typeMismatchError(err)
		}
		return arg, nil
	}
	updates, err := optionsUpdates(b, kwargs, kwNames, scope)
	if err != nil {
		return nil, err
	}
	if types.Equal(arg.Type(), elm.NumberType) {
		defaults := scope.AddAssignment("defaults_", scope.Var("NumberFormat.defaults"))
		options, uerr := elm.NewRecordUpdate(defaults, updates)
		if uerr != nil {
			return nil, typeMismatchError(uerr)
		}
		call, aerr := elm.Apply(scope.Var("Fluent.formattedNumber"), []elm.Expr{options, arg}, from)
		if aerr != nil {
			return nil, typeMismatchError(aerr)
		}
		return scope.AddAssignment("fnum_", call), nil
	}
	initial, aerr := elm.Apply(scope.Var("Fluent.numberFormattingOptions"), []elm.Expr{arg}, from)
	if aerr != nil {
		return nil, typeMismatchError(aerr)
	}
	opts := scope.AddAssignment("initial_opts_", initial)
	options, uerr := elm.NewRecordUpdate(opts, updates)
	if uerr != nil {
		return nil, typeMismatchError(uerr)
	}
	call, aerr := elm.Apply(scope.Var("Fluent.reformattedNumber"), []elm.Expr{options, arg}, from)
	if aerr != nil {
		return nil, typeMismatchError(aerr)
	}
	return scope.AddAssignment("fnum_", call), nil
}

// compileDateTimeCall lowers DATETIME() the same way, except that
// dates have no literal form, so the argument is always a FluentDate.
func compileDateTimeCall(b *builtin, from *syntax.Source, args []elm.Expr,
	kwargs map[string]elm.Expr, kwNames []string, scope *elm.Let) (elm.Expr, *Error) {
	arg := args[0]
	if len(kwargs) == 0 {
		if err := arg.ConstrainType(fluentDateType, from); err != nil {
			return nil, typeMismatchError(err)
		}
		return arg, nil
	}
	updates, err := optionsUpdates(b, kwargs, kwNames, scope)
	if err != nil {
		return nil, err
	}
	initial, aerr := elm.Apply(scope.Var("Fluent.dateFormattingOptions"), []elm.Expr{arg}, from)
	if aerr != nil {
		return nil, typeMismatchError(aerr)
	}
	opts := scope.AddAssignment("initial_opts_", initial)
	options, uerr := elm.NewRecordUpdate(opts, updates)
	if uerr != nil {
		return nil, typeMismatchError(uerr)
	}
	call, aerr := elm.Apply(scope.Var("Fluent.reformattedDate"), []elm.Expr{options, arg}, from)
	if aerr != nil {
		return nil, typeMismatchError(aerr)
	}
	return scope.AddAssignment("fdate_", call), nil
}

func boolParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	n, ok := value.(*elm.Number)
	if !ok {
		return nil, &Error{Kind: TypeMismatch, Msg: fmt.Sprintf(
			"Expecting a number (0 or 1) for %s parameter, got %s", name, elm.Source(value))}
	}
	if isZero(n) {
		return elm.BoolFalse, nil
	}
	return elm.BoolTrue, nil
}

func maybeBoolParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	b, err := boolParam(name, value, scope)
	if err != nil {
		return nil, err
	}
	return just(b), nil
}

func intParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	n, ok := value.(*elm.Number)
	if !ok {
		return nil, &Error{Kind: TypeMismatch, Msg: fmt.Sprintf(
			"Expecting a number for %s parameter, got %s", name, elm.Source(value))}
	}
	return n, nil
}

func maybeIntParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	n, err := intParam(name, value, scope)
	if err != nil {
		return nil, err
	}
	return just(n), nil
}

func isZero(n *elm.Number) bool {
	if n.IsFloat {
		return n.Float == 0
	}
	return n.Int == 0
}

// just wraps a value in Maybe's Just constructor.
func just(value elm.Expr) elm.Expr {
	return mustApply(elm.MaybeJust, value)
}

type enumMapping struct{ value, constructor string }

var (
	nameStyles = []enumMapping{
		{"narrow", "NarrowName"}, {"short", "ShortName"}, {"long", "LongName"},
	}
	numberStyles = []enumMapping{
		{"numeric", "NumericNumber"}, {"2-digit", "TwoDigitNumber"},
	}
	monthStyles = []enumMapping{
		{"narrow", "NarrowMonth"}, {"short", "ShortMonth"}, {"long", "LongMonth"},
		{"numeric", "NumericMonth"}, {"2-digit", "TwoDigitMonth"},
	}
	timeZoneStyles = []enumMapping{
		{"short", "ShortTimeZone"}, {"long", "LongTimeZone"},
	}
	currencyDisplays = []enumMapping{
		{"symbol", "CurrencySymbol"}, {"code", "CurrencyCode"}, {"name", "CurrencyName"},
	}
)

func nameStyleParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	return enumParam(nameStyleType, nameStyles, name, value, scope)
}

func numberStyleParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	return enumParam(numberStyleType, numberStyles, name, value, scope)
}

func monthStyleParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	return enumParam(monthStyleType, monthStyles, name, value, scope)
}

func timeZoneStyleParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	return enumParam(timeZoneStyleType, timeZoneStyles, name, value, scope)
}

func currencyDisplayParam(name string, value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	return enumParam(currencyDisplayType, currencyDisplays, name, value, scope)
}

// enumParam maps a string argument onto a constructor of one of the
// formatting option enum types.
func enumParam(enumType *types.Named, mappings []enumMapping, name string,
	value elm.Expr, scope *elm.Let) (elm.Expr, *Error) {
	s, ok := value.(*elm.String)
	if !ok {
		return nil, &Error{Kind: TypeMismatch, Msg: fmt.Sprintf(
			"Expecting a string for %s parameter, got: %s", name, elm.Source(value))}
	}
	for _, m := range mappings {
		if m.value == s.Value {
			qual := scope.Scope().QualifierFor(enumType.Module)
			return scope.Var(qual + m.constructor), nil
		}
	}
	accepted := make([]string, len(mappings))
	for i, m := range mappings {
		accepted[i] = m.value
	}
	return nil, &Error{Kind: BadFunctionArgs, Msg: fmt.Sprintf(
		"Invalid value '%s' for %s parameter. (Expecting one of %s)",
		s.Value, name, strings.Join(accepted, ", "))}
}
