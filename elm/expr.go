// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package elm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// constrainLiteral checks a literal's fixed type against a
// requirement. Literal types never change.
func constrainLiteral(e Expr, t types.Type) error {
	merged, err := t.Constrain(e.Type())
	if err != nil {
		return err
	}
	if !types.Equal(merged, e.Type()) {
		panic(fmt.Sprintf("expected %s is %s", merged, e.Type()))
	}
	return nil
}

// A String is an Elm string literal.
type String struct {
	Value string
}

// NewString returns a string literal.
func NewString(value string) *String { return &String{Value: value} }

func (s *String) Type() types.Type { return StringType }

func (s *String) ConstrainType(t types.Type, from *syntax.Source) error {
	return constrainLiteral(s, t)
}

func (s *String) BuildSource(b *Builder) {
	v := strings.ReplaceAll(s.Value, `"`, `\"`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	b.Add(`"` + v + `"`)
}

func (s *String) SubExpressions() []Node      { return nil }
func (s *String) Simplify(changed *bool) Expr { return s }
func (s *String) selfDelimiting()             {}

// A Number is an Elm number literal, integral or floating point.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// NewIntNumber returns an integral number literal.
func NewIntNumber(v int64) *Number { return &Number{Int: v} }

// NewFloatNumber returns a floating point number literal.
func NewFloatNumber(v float64) *Number { return &Number{Float: v, IsFloat: true} }

func (n *Number) Type() types.Type { return NumberType }

func (n *Number) ConstrainType(t types.Type, from *syntax.Source) error {
	return constrainLiteral(n, t)
}

func (n *Number) BuildSource(b *Builder) {
	if !n.IsFloat {
		b.Add(strconv.FormatInt(n.Int, 10))
		return
	}
	s := strconv.FormatFloat(n.Float, 'f', -1, 64)
	// A float literal keeps its decimal point, so that it stays a
	// Float on the Elm side.
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	b.Add(s)
}

func (n *Number) SubExpressions() []Node      { return nil }
func (n *Number) Simplify(changed *bool) Expr { return n }
func (n *Number) selfDelimiting()             {}

// A List is an Elm list literal.
type List struct {
	Items []Expr
}

// NewList returns a list literal.
func NewList(items []Expr) *List { return &List{Items: items} }

func (l *List) Type() types.Type {
	if len(l.Items) > 0 {
		return ListType.Specialize(map[string]types.Type{"a": l.Items[0].Type()})
	}
	return ListType
}

func (l *List) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(l.Type())
	if err != nil {
		return err
	}
	named, ok := merged.(*types.Named)
	if !ok {
		panic(fmt.Sprintf("expected a list type, got %s", merged))
	}
	elem := named.Param("a")
	for _, item := range l.Items {
		c, err := elem.Constrain(item.Type())
		if err != nil {
			return err
		}
		if err := item.ConstrainType(c, from); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) BuildSource(b *Builder) {
	if len(l.Items) == 0 {
		b.Add("[]")
		return
	}
	b.Aligned(func() {
		for i, item := range l.Items {
			if i == 0 {
				b.Add("[ ")
			} else {
				b.Add(", ")
			}
			item.BuildSource(b)
			b.Add("\n")
		}
		b.Add("]")
	})
}

func (l *List) SubExpressions() []Node {
	nodes := make([]Node, len(l.Items))
	for i, item := range l.Items {
		nodes[i] = item
	}
	return nodes
}

func (l *List) Simplify(changed *bool) Expr {
	for i, item := range l.Items {
		l.Items[i] = item.Simplify(changed)
	}
	return l
}

func (l *List) selfDelimiting() {}

// A StringConcat renders as a String.concat call on its parts.
// Simplification merges adjacent string literals and drops empty
// ones, eliminating the call altogether when one part remains.
type StringConcat struct {
	Parts []Expr
}

// NewStringConcat returns the concatenation of parts.
func NewStringConcat(parts []Expr) *StringConcat { return &StringConcat{Parts: parts} }

func (s *StringConcat) Type() types.Type { return StringType }

func (s *StringConcat) ConstrainType(t types.Type, from *syntax.Source) error {
	for _, p := range s.Parts {
		merged, err := t.Constrain(p.Type())
		if err != nil {
			return err
		}
		if err := p.ConstrainType(merged, from); err != nil {
			return err
		}
	}
	return nil
}

func (s *StringConcat) BuildSource(b *Builder) {
	b.Add("String.concat ")
	NewList(s.Parts).BuildSource(b)
}

func (s *StringConcat) SubExpressions() []Node {
	nodes := make([]Node, len(s.Parts))
	for i, p := range s.Parts {
		nodes[i] = p
	}
	return nodes
}

func (s *StringConcat) Simplify(changed *bool) Expr {
	for i, p := range s.Parts {
		s.Parts[i] = p.Simplify(changed)
	}
	var kept []Expr
	for _, p := range s.Parts {
		lit, isLit := p.(*String)
		if isLit && len(kept) > 0 {
			if last, ok := kept[len(kept)-1].(*String); ok {
				kept[len(kept)-1] = NewString(last.Value + lit.Value)
				continue
			}
		}
		if isLit && lit.Value == "" {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) < len(s.Parts) {
		*changed = true
	}
	s.Parts = kept
	switch len(s.Parts) {
	case 0:
		*changed = true
		return NewString("")
	case 1:
		*changed = true
		return s.Parts[0]
	}
	return s
}

// A VariableReference is a use of a bound name, possibly qualified
// with the local name of an imported module. Obtain one through
// Scope.Var.
type VariableReference struct {
	Name       string
	ModuleName string
	scope      *Scope
}

// Type returns the type recorded for the referenced name.
func (v *VariableReference) Type() types.Type {
	t, ok := v.scope.GetType(v.Name)
	if !ok {
		panic(fmt.Sprintf("no type recorded for name '%s'", v.Name))
	}
	return t
}

func (v *VariableReference) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(v.Type())
	if err != nil {
		return err
	}
	v.scope.setType(v.Name, merged)
	return nil
}

func (v *VariableReference) BuildSource(b *Builder) {
	if v.ModuleName != "" {
		b.Add(v.ModuleName + "." + v.Name)
		return
	}
	b.Add(v.Name)
}

func (v *VariableReference) SubExpressions() []Node      { return nil }
func (v *VariableReference) Simplify(changed *bool) Expr { return v }
func (v *VariableReference) selfDelimiting()             {}

// An AttributeReference is a field access on a record-typed
// expression, such as args_.count. Accessing a field adds it to the
// record type.
type AttributeReference struct {
	Variable Expr
	Name     string
}

// NewAttributeReference returns a field access on variable, which
// must have a record type.
func NewAttributeReference(variable Expr, name string) *AttributeReference {
	rt, ok := variable.Type().(*types.Record)
	if !ok {
		panic(fmt.Sprintf("%s is not a record", variable.Type()))
	}
	if err := rt.AddField(name, nil, nil); err != nil {
		panic(err)
	}
	return &AttributeReference{Variable: variable, Name: name}
}

func (a *AttributeReference) Type() types.Type {
	rt := a.Variable.Type().(*types.Record)
	t, ok := rt.Field(a.Name)
	if !ok {
		panic(fmt.Sprintf("record has no field '%s'", a.Name))
	}
	return t
}

func (a *AttributeReference) ConstrainType(t types.Type, from *syntax.Source) error {
	rt := a.Variable.Type().(*types.Record)
	return rt.AddField(a.Name, t, from)
}

func (a *AttributeReference) BuildSource(b *Builder) {
	a.Variable.BuildSource(b)
	b.Add(".")
	b.Add(a.Name)
}

func (a *AttributeReference) SubExpressions() []Node      { return []Node{a.Variable} }
func (a *AttributeReference) Simplify(changed *bool) Expr { return a }
func (a *AttributeReference) selfDelimiting()             {}

// A FunctionCall applies arguments to a callable expression. Obtain
// one through Apply, which constrains the argument types against the
// callee's function type.
type FunctionCall struct {
	Callee Expr
	Args   []Expr
	typ    types.Type
}

func (c *FunctionCall) Type() types.Type { return c.typ }

func (c *FunctionCall) ConstrainType(t types.Type, from *syntax.Source) error {
	// Generated functions have concrete return types, so there is
	// nothing to narrow here.
	if !types.Equal(c.typ, t) {
		panic(fmt.Sprintf("expected %s == %s", c.typ, t))
	}
	return nil
}

func (c *FunctionCall) BuildSource(b *Builder) {
	c.Callee.BuildSource(b)
	for _, arg := range c.Args {
		b.Add(" ")
		b.parens(arg, func() { arg.BuildSource(b) })
	}
}

func (c *FunctionCall) SubExpressions() []Node {
	nodes := []Node{c.Callee}
	for _, a := range c.Args {
		nodes = append(nodes, a)
	}
	return nodes
}

func (c *FunctionCall) Simplify(changed *bool) Expr {
	for i, a := range c.Args {
		c.Args[i] = a.Simplify(changed)
	}
	return c
}

// Otherwise is the wildcard matcher of a case branch.
type Otherwise struct {
	typ types.Type
}

// NewOtherwise returns a wildcard matcher.
func NewOtherwise() *Otherwise {
	return &Otherwise{typ: types.NewUnconstrained()}
}

func (o *Otherwise) Type() types.Type { return o.typ }

func (o *Otherwise) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(o.typ)
	if err != nil {
		return err
	}
	o.typ = merged
	return nil
}

func (o *Otherwise) BuildSource(b *Builder)      { b.Add("_") }
func (o *Otherwise) SubExpressions() []Node      { return nil }
func (o *Otherwise) Simplify(changed *bool) Expr { return o }

// A CompilationError stands in for an expression that could not be
// compiled. It renders as text no Elm compiler accepts, so a bad
// module cannot be built by mistake; it exists so that compilation
// can continue and collect further errors.
type CompilationError struct {
	typ types.Type
}

// NewCompilationError returns a fresh error placeholder.
func NewCompilationError() *CompilationError {
	return &CompilationError{typ: types.NewUnconstrained()}
}

func (c *CompilationError) Type() types.Type { return c.typ }

func (c *CompilationError) ConstrainType(t types.Type, from *syntax.Source) error {
	// Accept whatever is asked, without complaint.
	c.typ = t
	return nil
}

func (c *CompilationError) BuildSource(b *Builder)      { b.Add("!!!COMPILATION_ERROR!!!") }
func (c *CompilationError) SubExpressions() []Node      { return nil }
func (c *CompilationError) Simplify(changed *bool) Expr { return c }

// An Infix is a binary operator expression. It renders inside its own
// parentheses.
type Infix struct {
	Op          string
	Left, Right Expr
	typ         types.Type
	operandType types.Type
}

// NewEquals returns the comparison left == right.
func NewEquals(left, right Expr) *Infix {
	return &Infix{
		Op: "==", Left: left, Right: right,
		typ: BoolType, operandType: types.NewUnconstrained(),
	}
}

// NewAdd returns the sum left + right.
func NewAdd(left, right Expr) *Infix {
	return &Infix{Op: "+", Left: left, Right: right, typ: NumberType, operandType: NumberType}
}

func (i *Infix) Type() types.Type { return i.typ }

func (i *Infix) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(i.operandType)
	if err != nil {
		return err
	}
	if err := i.Left.ConstrainType(merged, nil); err != nil {
		return err
	}
	merged, err = t.Constrain(i.operandType)
	if err != nil {
		return err
	}
	return i.Right.ConstrainType(merged, nil)
}

func (i *Infix) BuildSource(b *Builder) {
	b.Add("(")
	i.Left.BuildSource(b)
	b.Add(" " + i.Op + " ")
	i.Right.BuildSource(b)
	b.Add(")")
}

func (i *Infix) SubExpressions() []Node { return []Node{i.Left, i.Right} }

func (i *Infix) Simplify(changed *bool) Expr {
	i.Left = i.Left.Simplify(changed)
	i.Right = i.Right.Simplify(changed)
	return i
}

func (i *Infix) selfDelimiting() {}

// A RecordUpdate is Elm record update syntax,
// { r | field = value, ... }. Updated fields are added to the
// record's type.
type RecordUpdate struct {
	Variable *VariableReference
	updates  []recordUpdateField
}

type recordUpdateField struct {
	name  string
	value Expr
}

// NewRecordUpdate returns an update of the record held by variable,
// which must be an unqualified name of record type. The values'
// types are checked against the record's fields.
func NewRecordUpdate(variable *VariableReference, updates map[string]Expr) (*RecordUpdate, error) {
	rt, ok := variable.Type().(*types.Record)
	if !ok {
		panic(fmt.Sprintf("%s is not a record", variable.Type()))
	}
	if variable.ModuleName != "" {
		panic(fmt.Sprintf("record update syntax does not allow a qualified name like %s.%s",
			variable.ModuleName, variable.Name))
	}
	r := &RecordUpdate{Variable: variable}
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := rt.AddField(name, updates[name].Type(), nil); err != nil {
			return nil, err
		}
		r.updates = append(r.updates, recordUpdateField{name: name, value: updates[name]})
	}
	return r, nil
}

func (r *RecordUpdate) Type() types.Type { return r.Variable.Type() }

func (r *RecordUpdate) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(r.Variable.Type())
	if err != nil {
		return err
	}
	return r.Variable.ConstrainType(merged, from)
}

func (r *RecordUpdate) BuildSource(b *Builder) {
	b.Add("{ ")
	r.Variable.BuildSource(b)
	b.Add(" | ")
	for i, u := range r.updates {
		b.Add(u.name)
		b.Add(" = ")
		u.value.BuildSource(b)
		if i < len(r.updates)-1 {
			b.Add(", ")
		}
	}
	b.Add(" }")
}

func (r *RecordUpdate) SubExpressions() []Node {
	var nodes []Node
	for _, u := range r.updates {
		nodes = append(nodes, u.value)
	}
	return nodes
}

func (r *RecordUpdate) Simplify(changed *bool) Expr { return r }
func (r *RecordUpdate) selfDelimiting()             {}

// A Let is an Elm let expression: a run of assignments and the value
// computed from them. A Let is also a scope; until it has any
// assignments, simplification replaces it with its value.
type Let struct {
	// Value is the expression after "in".
	Value       Expr
	scope       *Scope
	assignments []*assignment
}

type assignment struct {
	name  string
	value Expr
}

// NewLet returns an empty let in a new scope under parent.
func NewLet(parent *Scope) *Let {
	return &Let{scope: NewScope(parent)}
}

// Scope returns the let's scope.
func (l *Let) Scope() *Scope { return l.scope }

// Var returns a reference to a name visible from the let.
func (l *Let) Var(qualifiedName string) *VariableReference {
	return l.scope.Var(qualifiedName)
}

// AddAssignment binds value to the requested name, renamed as needed,
// and returns a reference to the binding.
func (l *Let) AddAssignment(name string, value Expr) *VariableReference {
	assigned := l.scope.ReserveName(name, value.Type())
	l.assignments = append(l.assignments, &assignment{name: assigned, value: value})
	return l.scope.Var(assigned)
}

func (l *Let) Type() types.Type { return l.Value.Type() }

func (l *Let) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(l.Value.Type())
	if err != nil {
		return err
	}
	return l.Value.ConstrainType(merged, nil)
}

func (l *Let) BuildSource(b *Builder) {
	b.Aligned(func() {
		b.Add("let\n")
		b.Indented(func() {
			for _, a := range l.assignments {
				b.Add(a.name)
				b.Add(" = ")
				a.value.BuildSource(b)
				b.Add("\n")
			}
		})
		b.Add("in\n")
		b.Indented(func() {
			l.Value.BuildSource(b)
		})
	})
}

func (l *Let) SubExpressions() []Node {
	var nodes []Node
	for _, a := range l.assignments {
		nodes = append(nodes, a.value)
	}
	return append(nodes, l.Value)
}

func (l *Let) Simplify(changed *bool) Expr {
	l.Value = l.Value.Simplify(changed)
	for _, a := range l.assignments {
		a.value = a.value.Simplify(changed)
	}
	if len(l.assignments) == 0 {
		*changed = true
		return l.Value
	}
	if len(l.assignments) == 1 {
		if v, ok := l.Value.(*VariableReference); ok && v.Name == l.assignments[0].name {
			*changed = true
			return l.assignments[0].value
		}
	}
	return l
}

// An If is an Elm if-then-else. Its branches are Lets until
// simplification.
type If struct {
	Condition Expr
	True      Expr
	False     Expr
}

// NewIf returns an if on condition with empty branch Lets scoped
// under parent.
func NewIf(condition Expr, parent *Scope) *If {
	return &If{
		Condition: condition,
		True:      NewLet(parent),
		False:     NewLet(parent),
	}
}

// TrueLet returns the true branch, which must not yet have been
// simplified away.
func (i *If) TrueLet() *Let { return i.True.(*Let) }

// FalseLet returns the false branch, which must not yet have been
// simplified away.
func (i *If) FalseLet() *Let { return i.False.(*Let) }

func (i *If) Type() types.Type { return i.True.Type() }

func (i *If) ConstrainType(t types.Type, from *syntax.Source) error {
	merged, err := t.Constrain(i.True.Type())
	if err != nil {
		return err
	}
	if err := i.True.ConstrainType(merged, from); err != nil {
		return err
	}
	merged, err = t.Constrain(i.False.Type())
	if err != nil {
		return err
	}
	return i.False.ConstrainType(merged, from)
}

func (i *If) BuildSource(b *Builder) {
	b.Aligned(func() {
		b.Add("if ")
		i.Condition.BuildSource(b)
		b.Add(" then\n")
		b.Indented(func() {
			i.True.BuildSource(b)
			b.Add("\n")
		})
		b.Add("else\n")
		b.Indented(func() {
			i.False.BuildSource(b)
		})
	})
}

func (i *If) SubExpressions() []Node {
	return []Node{i.Condition, i.True, i.False}
}

func (i *If) Simplify(changed *bool) Expr {
	i.Condition = i.Condition.Simplify(changed)
	i.True = i.True.Simplify(changed)
	i.False = i.False.Simplify(changed)
	return i
}

// A Case is an Elm case expression. Branch values are Lets until
// simplification.
type Case struct {
	Selector Expr
	parent   *Scope
	branches []*caseBranch
}

type caseBranch struct {
	matcher Expr
	value   Expr
}

// NewCase returns a case on selector with no branches yet.
func NewCase(selector Expr, parent *Scope) *Case {
	return &Case{Selector: selector, parent: parent}
}

// AddBranch appends a branch matching matcher and returns the Let
// holding its value.
func (c *Case) AddBranch(matcher Expr) *Let {
	value := NewLet(c.parent)
	c.branches = append(c.branches, &caseBranch{matcher: matcher, value: value})
	return value
}

func (c *Case) Type() types.Type {
	if len(c.branches) == 0 {
		panic("a case with no branches has no type")
	}
	return c.branches[0].value.Type()
}

func (c *Case) ConstrainType(t types.Type, from *syntax.Source) error {
	for _, br := range c.branches {
		merged, err := t.Constrain(br.value.Type())
		if err != nil {
			return err
		}
		if err := br.value.ConstrainType(merged, from); err != nil {
			return err
		}
	}
	return nil
}

func (c *Case) BuildSource(b *Builder) {
	b.Aligned(func() {
		b.Add("case ")
		c.Selector.BuildSource(b)
		b.Add(" of\n")
		b.Indented(func() {
			for _, br := range c.branches {
				br.matcher.BuildSource(b)
				b.Add(" ->\n")
				b.Indented(func() {
					br.value.BuildSource(b)
					b.Add("\n")
				})
			}
		})
	})
}

func (c *Case) SubExpressions() []Node {
	nodes := []Node{c.Selector}
	for _, br := range c.branches {
		nodes = append(nodes, br.matcher, br.value)
	}
	return nodes
}

func (c *Case) Simplify(changed *bool) Expr {
	c.Selector = c.Selector.Simplify(changed)
	for _, br := range c.branches {
		br.matcher = br.matcher.Simplify(changed)
		br.value = br.value.Simplify(changed)
	}
	return c
}
