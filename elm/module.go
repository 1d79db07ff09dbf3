// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package elm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elm-fluent/elm-fluent/types"
)

// Keywords that cannot be used for module-level names. Elm accepts
// some of its keywords as ordinary function names; those are omitted.
var elmKeywords = map[string]bool{
	"type": true, "port": true, "if": true, "then": true, "else": true,
	"case": true, "of": true, "let": true, "in": true, "infix": true,
	"module": true, "import": true, "exposing": true, "as": true, "where": true,
}

// Names every Elm module sees without an import line, per
// elm-lang/core. Names with types attached are reserved separately
// below. The operator names all clean up to "n", so reserving them
// also sets aside n, n2, n3 and so on.
var elmDefaultImports = []string{
	"max", "min", "Order", "LT", "EQ", "GT", "compare", "not",
	"&&", "||", "xor", "+", "-", "*", "/", "^", "//", "rem", "%",
	"negate", "abs", "sqrt", "clamp", "logBase", "e", "pi",
	"cos", "sin", "tan", "acos", "asin", "atan", "atan2",
	"round", "floor", "ceiling", "truncate", "toFloat",
	"degrees", "radians", "turns", "toPolar", "fromPolar",
	"isNaN", "isInfinite", "toString", "++",
	"identity", "always", "<|", "|>", "<<", ">>",
	"flip", "curry", "uncurry", "Never", "never", "::",
	"Result", "Ok", "Err", "String", "Tuple", "Debug",
	"Program", "Cmd", "!", "Sub",
}

// DefaultImports is the scope of names available to every Elm module
// without an import line, plus the modules, like String, that may be
// referred to without one.
type DefaultImports struct {
	scope   *Scope
	modules map[string]*Module
}

// NameQualifier implements types.Module. Names from the default
// imports never need a qualifier.
func (d *DefaultImports) NameQualifier(other types.Module) string {
	if other == types.Module(d) {
		return ""
	}
	panic(fmt.Sprintf("default imports do not import %s", moduleName(other)))
}

// Defaults holds Elm's standard default imports. It is fixed after
// package initialization and safe for concurrent use.
var Defaults *DefaultImports

// AddDefaultModule registers a module as referable without an
// explicit import line.
func AddDefaultModule(m *Module) {
	Defaults.modules[m.Name] = m
}

// IsKeyword reports whether name is an Elm keyword.
func IsKeyword(name string) bool { return elmKeywords[name] }

// IsDefaultImport reports whether name is bound by the default
// imports, like toString or Just.
func IsDefaultImport(name string) bool { return Defaults.scope.inUse(name) }

// Core types from the default imports.
var (
	StringType *types.Named
	FloatType  *types.Named
	IntType    *types.Named
	// NumberType is Elm's number type class, treated as a simple
	// type, which suffices for generated code.
	NumberType *types.Named
	BoolType   *types.Named
	MaybeType  *types.Named
	ListType   *types.Named
)

// Constructors from the default imports.
var (
	BoolTrue     *VariableReference
	BoolFalse    *VariableReference
	MaybeJust    *VariableReference
	MaybeNothing *VariableReference
)

func init() {
	s := NewScope(nil)
	Defaults = &DefaultImports{scope: s, modules: map[string]*Module{}}
	for _, name := range elmDefaultImports {
		s.ReserveName(name, nil)
	}

	StringType = types.NewNamed("String", Defaults)
	FloatType = types.NewNamed("Float", Defaults)
	IntType = types.NewNamed("Int", Defaults)
	NumberType = types.NewNamed("number", Defaults)

	BoolType = types.NewNamed("Bool", Defaults)
	s.ReserveName("True", BoolType)
	s.ReserveName("False", BoolType)

	MaybeType = types.NewNamed("Maybe a", Defaults)
	s.ReserveName("Nothing", MaybeType)
	s.ReserveName("Just", types.NewFunc(types.NewTypeParam("a"), MaybeType))

	ListType = types.NewNamed("List a", Defaults)

	BoolTrue = s.Var("True")
	BoolFalse = s.Var("False")
	MaybeJust = s.Var("Just")
	MaybeNothing = s.Var("Nothing")
}

// A Module is a generated Elm module: an ordered set of function
// definitions along with the imports and exports to go with them.
type Module struct {
	Name       string
	scope      *Scope
	statements map[int]*Function
	exports    []string
	imports    map[string]*Module // local name to module
}

// NewModule returns an empty module with the given dotted name.
func NewModule(name string) *Module {
	m := &Module{
		Name:       name,
		statements: map[int]*Function{},
		imports:    map[string]*Module{},
	}
	m.scope = NewScope(Defaults.scope)
	m.scope.mod = m
	return m
}

// Scope returns the module's top-level scope.
func (m *Module) Scope() *Scope { return m.scope }

// ReserveName reserves a module-level name, renaming as needed to
// avoid collisions and Elm keywords, and returns the assigned name.
func (m *Module) ReserveName(requested string, t types.Type) string {
	return m.scope.ReserveName(requested, t)
}

// ReserveFunctionArgName sets a name aside for use as a function
// argument anywhere in the module.
func (m *Module) ReserveFunctionArgName(name string) {
	m.scope.ReserveFunctionArgName(name)
}

// AddImport makes mod referable under the given local name.
func (m *Module) AddImport(mod *Module, localName string) {
	m.imports[localName] = mod
}

// AddFunction adds a function to the module's definitions and
// exports it. Functions render in increasing source order; a negative
// order appends after everything added so far.
func (m *Module) AddFunction(fn *Function, sourceOrder int) {
	m.exports = append(m.exports, fn.Name)
	if sourceOrder < 0 {
		sourceOrder = 0
		for i := range m.statements {
			if i >= sourceOrder {
				sourceOrder = i + 1
			}
		}
	}
	m.statements[sourceOrder] = fn
}

// Exports returns the exported function names in the order added.
func (m *Module) Exports() []string { return m.exports }

// Functions returns the module's functions in source order.
func (m *Module) Functions() []*Function {
	orders := make([]int, 0, len(m.statements))
	for i := range m.statements {
		orders = append(orders, i)
	}
	sort.Ints(orders)
	fns := make([]*Function, len(orders))
	for j, i := range orders {
		fns[j] = m.statements[i]
	}
	return fns
}

// NameQualifier implements types.Module: the prefix needed to refer
// to names of the given module from this one.
func (m *Module) NameQualifier(other types.Module) string {
	if other == types.Module(m) {
		return ""
	}
	if _, ok := other.(*DefaultImports); ok {
		return ""
	}
	for name, mod := range m.imports {
		if types.Module(mod) == other {
			return name + "."
		}
	}
	panic(fmt.Sprintf("module %s not found in %s. Missing AddImport?", moduleName(other), m.Name))
}

func moduleName(m types.Module) string {
	switch m := m.(type) {
	case *Module:
		return m.Name
	case *DefaultImports:
		return "default imports"
	}
	return fmt.Sprintf("%v", m)
}

// Render returns the module as Elm source.
func (m *Module) Render() string { return Source(m) }

// RenderBody returns just the function definitions, without the
// module header or imports.
func (m *Module) RenderBody() string {
	b := NewBuilder()
	m.buildStatements(b)
	return b.String()
}

// BuildSource writes the complete module: header, imports and
// function definitions.
func (m *Module) BuildSource(b *Builder) {
	b.Add("module " + m.Name + " exposing (" + strings.Join(m.exports, ", ") + ")\n")
	b.Add("\n")
	m.buildImports(b)
	m.buildStatements(b)
}

func (m *Module) buildImports(b *Builder) {
	if len(m.imports) == 0 {
		return
	}
	type imp struct {
		local string
		mod   *Module
	}
	var imps []imp
	for local, mod := range m.imports {
		imps = append(imps, imp{local, mod})
	}
	sort.Slice(imps, func(i, j int) bool { return imps[i].mod.Name < imps[j].mod.Name })
	for _, im := range imps {
		if m.importUsed(im.local, im.mod) {
			// Only 'as' imports, to avoid clashes with names
			// defined in the module itself.
			b.Add("import " + im.mod.Name + " as " + im.local + "\n")
		}
	}
	b.Add("\n")
}

func (m *Module) buildStatements(b *Builder) {
	for _, fn := range m.Functions() {
		fn.BuildSource(b)
		b.Add("\n")
		b.Add("\n")
	}
}

// importUsed reports whether anything in the module refers to the
// import: a qualified name in an expression, or a type from the
// imported module in a function signature.
func (m *Module) importUsed(localName string, mod *Module) bool {
	used := false
	Walk(m, func(n Node) {
		switch n := n.(type) {
		case *VariableReference:
			if n.ModuleName == localName {
				used = true
			}
		case *Function:
			t := n.Type()
			if t == nil {
				return
			}
			for _, sub := range types.Traverse(t) {
				if named, ok := sub.(*types.Named); ok && named.Module == types.Module(mod) {
					used = true
				}
			}
		}
	})
	return used
}

// SubExpressions returns the module's functions in source order.
func (m *Module) SubExpressions() []Node {
	fns := m.Functions()
	nodes := make([]Node, len(fns))
	for i, fn := range fns {
		nodes[i] = fn
	}
	return nodes
}

func (m *Module) simplify(changed *bool) {
	for _, fn := range m.statements {
		fn.Body = fn.Body.Simplify(changed)
	}
}

// A Function is a single Elm function definition.
type Function struct {
	Name string
	Args []string
	// Body is a *Let until simplification, which may replace it
	// with the let's own value.
	Body  Expr
	scope *Scope
}

// NewFunction returns a function definition with the given argument
// names. The function's type, if known, must already be recorded
// against its name in the parent scope; argument types are read off
// it.
func NewFunction(name string, args []string, parent *Scope) *Function {
	s := NewScope(parent)
	f := &Function{Name: name, scope: s}
	t, _ := parent.GetType(name)
	for _, arg := range args {
		if parent.inUse(arg) {
			panic(fmt.Sprintf("Can't use '%s' as function argument name because it shadows other names", arg))
		}
		var argType types.Type
		if ft, ok := t.(*types.Func); ok {
			argType = ft.In
			t = ft.Out
		}
		f.Args = append(f.Args, s.reserveArg(arg, argType))
	}
	f.Body = NewLet(s)
	return f
}

// Scope returns the function's scope, in which its arguments are
// defined.
func (f *Function) Scope() *Scope { return f.scope }

// Type returns the function's type as recorded in its parent scope,
// or nil.
func (f *Function) Type() types.Type {
	if f.scope.parent == nil {
		return nil
	}
	t, _ := f.scope.parent.GetType(f.Name)
	return t
}

// Finalize constrains the body against the function's output type.
func (f *Function) Finalize() error {
	t := f.Type()
	if t == nil {
		return nil
	}
	for range f.Args {
		ft, ok := t.(*types.Func)
		if !ok {
			panic(fmt.Sprintf("type %s has too few arguments for function %s", t, f.Name))
		}
		t = ft.Out
	}
	return f.Body.ConstrainType(t, nil)
}

func (f *Function) BuildSource(b *Builder) {
	if t := f.Type(); t != nil {
		var from types.Module
		if mod := f.scope.moduleOf(); mod != nil {
			from = mod
		}
		b.Add(f.Name + " : " + types.SignatureOf(t, from) + "\n")
	}
	b.Add(f.Name)
	for _, arg := range f.Args {
		b.Add(" " + arg)
	}
	b.Add(" =\n")
	b.Indented(func() {
		f.Body.BuildSource(b)
	})
}

// SubExpressions returns the function body.
func (f *Function) SubExpressions() []Node { return []Node{f.Body} }
