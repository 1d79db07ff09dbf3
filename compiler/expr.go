// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/inference"
	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// compileExpr compiles one FTL node to an Elm expression in scope.
// Errors are recorded in env, and a CompilationError expression stands
// in for whatever could not be compiled, so that compilation always
// produces something and can keep going.
func compileExpr(n syntax.Node, scope *elm.Let, env *compilerEnv) elm.Expr {
	switch n := n.(type) {
	case *syntax.Message:
		return compileExpr(n.Value, scope, env)
	case *syntax.Term:
		return compileExpr(n.Value, scope, env)
	case *syntax.Attribute:
		return compileExpr(n.Value, scope, env)
	case *syntax.Pattern:
		return compilePattern(n, scope, env)
	case *syntax.Text:
		return elm.NewString(n.Value)
	case *syntax.Placeable:
		return compileExpr(n.Expression, scope, env)
	case *syntax.StringLiteral:
		return elm.NewString(n.Parsed)
	case *syntax.NumberLiteral:
		return compileNumberLiteral(n)
	case *syntax.VariableReference:
		return compileVariableReference(n, scope, env)
	case *syntax.MessageReference:
		id := syntax.ReferenceID(n)
		if funcName, ok := env.mapping[id]; ok {
			return messageCall(funcName, n, scope, env)
		}
		return unknownReference(id, n, env)
	case *syntax.TermReference:
		return compileTermReference(n, scope, env)
	case *syntax.FunctionReference:
		return compileFunctionReference(n, scope, env)
	case *syntax.SelectExpression:
		return compileSelect(n, scope, env)
	}
	panic(fmt.Sprintf("cannot compile %T", n))
}

// compilePattern compiles the elements of a pattern into a string
// concatenation. Every non-text element goes through a stringable,
// which defers the choice of formatting function until the element's
// type has settled.
func compilePattern(p *syntax.Pattern, scope *elm.Let, env *compilerEnv) elm.Expr {
	useIsolating := env.useIsolating && len(p.Elements) > 1
	var parts []elm.Expr
	for _, el := range p.Elements {
		_, isText := el.(*syntax.Text)
		isolate := useIsolating && !isText
		if isolate {
			parts = append(parts, elm.NewString(fsi))
		}
		parts = append(parts, newStringable(compileExpr(el, scope, env), scope, env.source(el)))
		if isolate {
			parts = append(parts, elm.NewString(pdi))
		}
	}
	return elm.NewStringConcat(parts)
}

func compileNumberLiteral(n *syntax.NumberLiteral) elm.Expr {
	if !n.IsFloat() {
		if i, err := strconv.ParseInt(n.Source, 10, 64); err == nil {
			return elm.NewIntNumber(i)
		}
	}
	f, err := strconv.ParseFloat(n.Source, 64)
	if err != nil {
		panic(fmt.Sprintf("unparseable number literal %q", n.Source))
	}
	return elm.NewFloatNumber(f)
}

// compileVariableReference compiles $name. Inside an inlined term the
// name is a term argument; otherwise it is a field of the external
// arguments record, constrained here to whatever type inference
// established for it.
func compileVariableReference(n *syntax.VariableReference, scope *elm.Let, env *compilerEnv) elm.Expr {
	name := n.ID.Name
	if env.termArgs != nil {
		if val, ok := env.termArgs[name]; ok {
			return val
		}
		return &defaultVariantMarker{termID: env.termID, argName: name}
	}
	ref := elm.NewAttributeReference(scope.Var(messageArgsName), name)
	// Conflicted arguments are reported separately and constrain
	// nothing, leaving the generated code to fall where it may.
	if fact, ok := env.argTypes[env.messageID][name].(*inference.Fact); ok {
		if t := factElmType(fact.Type); t != nil {
			if err := ref.ConstrainType(t, &fact.Evidence[0]); err != nil {
				env.addError(typeMismatchError(err), n)
				return elm.NewCompilationError()
			}
		}
	}
	return ref
}

func factElmType(t inference.Type) types.Type {
	switch t {
	case inference.String:
		return elm.StringType
	case inference.Number:
		return fluentNumberType
	case inference.DateTime:
		return fluentDateType
	}
	return nil
}

func messageCall(funcName string, n syntax.Node, scope *elm.Let, env *compilerEnv) elm.Expr {
	args := make([]elm.Expr, 0, 2)
	for _, a := range functionArgs() {
		args = append(args, scope.Var(a))
	}
	call, err := elm.Apply(scope.Var(funcName), args, env.source(n))
	if err != nil {
		env.addError(typeMismatchError(err), n)
		return elm.NewCompilationError()
	}
	return call
}

func unknownReference(id string, n syntax.Node, env *compilerEnv) elm.Expr {
	msg := "Unknown message: " + id
	if strings.HasPrefix(id, "-") {
		msg = "Unknown term: " + id
	}
	env.addError(&Error{Kind: UnknownReference, Msg: msg}, n)
	return elm.NewCompilationError()
}

// compileTermReference compiles -term or -term.attr. Attributes of
// terms are compiled units of their own and get called like messages;
// the term itself is inlined at the reference with its call arguments
// substituted for its variables.
func compileTermReference(n *syntax.TermReference, scope *elm.Let, env *compilerEnv) elm.Expr {
	id := syntax.ReferenceID(n)
	if n.Attribute != nil {
		if funcName, ok := env.mapping[id]; ok {
			return messageCall(funcName, n, scope, env)
		}
		return unknownReference(id, n, env)
	}
	term, ok := env.terms[id]
	if !ok {
		return unknownReference(id, n, env)
	}
	return inlineTerm(term, id, n, scope, env)
}

func inlineTerm(term syntax.Node, id string, ref *syntax.TermReference, scope *elm.Let, env *compilerEnv) elm.Expr {
	subs := map[string]elm.Expr{}
	if ref.Arguments != nil {
		if len(ref.Arguments.Positional) > 0 {
			env.addError(&Error{Kind: BadTermArgs,
				Msg: fmt.Sprintf("Positional arguments passed to term: %s", id)}, ref)
			return elm.NewCompilationError()
		}
		params := termVariables(term)
		for _, arg := range ref.Arguments.Named {
			if !params[arg.Name.Name] {
				env.addError(&Error{Kind: BadTermArgs,
					Msg: fmt.Sprintf("Unknown argument passed to term %s: %s", id, arg.Name.Name)}, arg)
				continue
			}
			// Argument values are compiled outside the term, where
			// $names still mean the caller's variables.
			subs[arg.Name.Name] = compileExpr(arg.Value, scope, env)
		}
	}
	savedArgs, savedID := env.termArgs, env.termID
	env.termArgs, env.termID = subs, id
	expr := compileExpr(term, scope, env)
	env.termArgs, env.termID = savedArgs, savedID
	return expr
}

// termVariables collects the names of the variables a term's value
// uses, which are the arguments a reference to it may pass.
func termVariables(term syntax.Node) map[string]bool {
	vars := map[string]bool{}
	syntax.Walk(term, func(n syntax.Node) {
		if v, ok := n.(*syntax.VariableReference); ok {
			vars[v.ID.Name] = true
		}
	})
	return vars
}

// A defaultVariantMarker stands in for a term variable that was given
// no value at the reference site. A select expression on the marker
// resolves statically to its default variant; anywhere else the
// marker renders as an empty string.
type defaultVariantMarker struct {
	termID  string
	argName string
}

func (m *defaultVariantMarker) Type() types.Type { return elm.StringType }

func (m *defaultVariantMarker) ConstrainType(t types.Type, from *syntax.Source) error {
	_, err := t.Constrain(elm.StringType)
	return err
}

func (m *defaultVariantMarker) BuildSource(b *elm.Builder)      { b.Add(`""`) }
func (m *defaultVariantMarker) SubExpressions() []elm.Node      { return nil }
func (m *defaultVariantMarker) Simplify(changed *bool) elm.Expr { return m }

func compileFunctionReference(n *syntax.FunctionReference, scope *elm.Let, env *compilerEnv) elm.Expr {
	name := n.ID.Name
	b, ok := functions[name]
	if !ok {
		env.addError(&Error{Kind: UnknownReference, Msg: "Unknown function: " + name}, n)
		return elm.NewCompilationError()
	}
	args := make([]elm.Expr, len(n.Arguments.Positional))
	for i, arg := range n.Arguments.Positional {
		args[i] = compileExpr(arg, scope, env)
	}
	kwargs := make(map[string]elm.Expr, len(n.Arguments.Named))
	kwNames := make([]string, 0, len(n.Arguments.Named))
	for _, kw := range n.Arguments.Named {
		kwargs[kw.Name.Name] = compileExpr(kw.Value, scope, env)
		kwNames = append(kwNames, kw.Name.Name)
	}
	if err := b.checkArgs(len(args), kwNames); err != nil {
		env.addError(err, n)
		return elm.NewCompilationError()
	}
	expr, err := b.compile(b, env.source(n), args, kwargs, kwNames, scope)
	if err != nil {
		env.addError(err, n)
		return elm.NewCompilationError()
	}
	return expr
}

// compileSelect compiles a select expression. A selector known at
// compile time picks its variant statically. Everything else lowers
// to a case expression, except a mix of numeric literal keys and
// plural category keys, which needs an if chain testing each in turn.
func compileSelect(n *syntax.SelectExpression, scope *elm.Let, env *compilerEnv) elm.Expr {
	selector := compileExpr(n.Selector, scope, env)
	if expr, ok := resolveStaticSelect(n, selector, scope, env); ok {
		return expr
	}
	if _, failed := selector.(*elm.CompilationError); failed {
		return selector
	}

	var numericVariants, pluralVariants []*syntax.Variant
	for _, v := range n.Variants {
		switch {
		case isNumberKey(v.Key):
			numericVariants = append(numericVariants, v)
		case inference.IsPluralForm(v.Key):
			pluralVariants = append(pluralVariants, v)
		}
	}
	allNumerics := len(numericVariants) == len(n.Variants)
	allPlurals := len(pluralVariants) == len(n.Variants)

	// Any numeric key makes the whole select numeric, and plural
	// category keys only count as strings when a key outside the
	// categories forces string matching on everything.
	numericKey := false
	var constraining *syntax.Variant
	switch {
	case len(numericVariants) > 0:
		numericKey = true
		constraining = numericVariants[0]
	case allPlurals:
		numericKey = true
		constraining = pluralVariants[0]
	default:
		for _, v := range n.Variants {
			if !inference.IsPluralForm(v.Key) {
				constraining = v
				break
			}
		}
	}

	var keyType types.Type = elm.StringType
	if numericKey {
		if _, isNum := selector.(*elm.Number); isNum {
			keyType = elm.NumberType
		} else {
			keyType = fluentNumberType
		}
	}
	if err := selector.ConstrainType(keyType, env.source(constraining)); err != nil {
		env.addError(typeMismatchError(err), n.Selector)
		return elm.NewCompilationError()
	}

	getPluralForm := func(number elm.Expr) elm.Expr {
		return mustApply(scope.Var("PluralRules.select"),
			mustApply(scope.Var("PluralRules.fromLocale"), scope.Var(localeArgName)),
			number)
	}

	var caseSelector elm.Expr
	if numericKey {
		var numberVal elm.Expr
		switch {
		case types.Equal(selector.Type(), elm.NumberType):
			numberVal = selector
		case types.Equal(selector.Type(), fluentNumberType):
			numberVal = mustApply(scope.Var("Fluent.numberValue"), selector)
		default:
			panic(fmt.Sprintf("cannot select numerically on %s", selector.Type()))
		}
		switch {
		case allNumerics:
			caseSelector = numberVal
		case allPlurals:
			caseSelector = getPluralForm(numberVal)
		default:
			numberVar := scope.AddAssignment("val_", numberVal)
			pluralFormVar := scope.AddAssignment("pl_", getPluralForm(numberVar))
			return compileMixedSelect(n, numberVar, pluralFormVar, scope, env)
		}
	} else {
		caseSelector = selector
	}

	caseExpr := elm.NewCase(caseSelector, scope.Scope())
	sorted := append([]*syntax.Variant(nil), n.Variants...)
	sort.SliceStable(sorted, func(i, j int) bool { return !sorted[i].Default && sorted[j].Default })
	for _, v := range sorted {
		var matcher elm.Expr
		if v.Default {
			matcher = elm.NewOtherwise()
		} else {
			matcher = compileVariantKey(v.Key)
		}
		merged, err := caseSelector.Type().Constrain(matcher.Type())
		if err != nil {
			env.addError(typeMismatchError(err), v)
			continue
		}
		if err := matcher.ConstrainType(merged, env.source(v)); err != nil {
			env.addError(typeMismatchError(err), v)
			continue
		}
		branch := caseExpr.AddBranch(matcher)
		branch.Value = compileExpr(v.Value, branch, env)
	}
	return caseExpr
}

// resolveStaticSelect resolves a select whose selector value is known
// at compile time, compiling just the variant that matches. A number
// only resolves statically when no key is a plural category, since
// those need the locale's plural rules at runtime.
func resolveStaticSelect(n *syntax.SelectExpression, selector elm.Expr, scope *elm.Let, env *compilerEnv) (elm.Expr, bool) {
	switch sel := selector.(type) {
	case *defaultVariantMarker:
		return compileExpr(n.DefaultVariant().Value, scope, env), true
	case *elm.String:
		for _, v := range n.Variants {
			if key, ok := v.Key.(syntax.Identifier); ok && key.Name == sel.Value {
				return compileExpr(v.Value, scope, env), true
			}
		}
		return compileExpr(n.DefaultVariant().Value, scope, env), true
	case *elm.Number:
		for _, v := range n.Variants {
			if inference.IsPluralForm(v.Key) {
				return nil, false
			}
		}
		for _, v := range n.Variants {
			if key, ok := v.Key.(*syntax.NumberLiteral); ok && numberKeyValue(key) == numberValue(sel) {
				return compileExpr(v.Value, scope, env), true
			}
		}
		return compileExpr(n.DefaultVariant().Value, scope, env), true
	}
	return nil, false
}

func numberKeyValue(key *syntax.NumberLiteral) float64 {
	return numberValue(compileNumberLiteral(key).(*elm.Number))
}

func numberValue(n *elm.Number) float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// compileMixedSelect lowers a select mixing exact numeric keys and
// plural category keys: each variant becomes one branch of an if
// chain, comparing numeric keys against the number itself and
// category keys against its plural form.
func compileMixedSelect(n *syntax.SelectExpression, numberVar, pluralFormVar *elm.VariableReference, scope *elm.Let, env *compilerEnv) elm.Expr {
	ret := elm.NewLet(scope.Scope())
	previousElse := ret
	var defaultValue elm.Expr
	for i, v := range n.Variants {
		last := i == len(n.Variants)-1
		branchValue := compileExpr(v.Value, scope, env)
		if v.Default {
			defaultValue = branchValue
		}
		if last && v.Default {
			previousElse.Value = branchValue
			continue
		}
		matchVar := numberVar
		if inference.IsPluralForm(v.Key) {
			matchVar = pluralFormVar
		}
		ifExpr := elm.NewIf(elm.NewEquals(matchVar, compileVariantKey(v.Key)), previousElse.Scope())
		ifExpr.TrueLet().Value = branchValue
		previousElse.Value = ifExpr
		previousElse = ifExpr.FalseLet()
	}
	if previousElse.Value == nil {
		previousElse.Value = defaultValue
	}
	return ret
}

func compileVariantKey(key syntax.VariantKey) elm.Expr {
	switch key := key.(type) {
	case syntax.Identifier:
		return elm.NewString(key.Name)
	case *syntax.NumberLiteral:
		return compileNumberLiteral(key)
	}
	panic(fmt.Sprintf("cannot compile variant key %T", key))
}

func isNumberKey(key syntax.VariantKey) bool {
	_, ok := key.(*syntax.NumberLiteral)
	return ok
}
