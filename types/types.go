// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package types tracks the Elm types of generated code.
//
// The compiler associates a type with every expression it builds.
// The tracking serves three purposes: it catches type errors that FTL
// authors can make, such as using one argument as both a number and a
// date; it tells the compiler which conversions to insert and when,
// for example numbers are run through a formatter only once they must
// become strings; and it determines the record type of the message
// argument so generated functions get correct signatures.
//
// The system is deliberately simple. Type variables are compared
// loosely and there is no unification in the Hindley-Milner sense,
// which suffices for the shapes of types this compiler produces.
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elm-fluent/elm-fluent/syntax"
)

// A Module resolves how names from one module are written in another.
// It is implemented by the code generator's module type.
type Module interface {
	// NameQualifier returns the prefix, such as "Alias.", needed to
	// reference names of the given module from the receiver, or ""
	// if no qualifier is needed.
	NameQualifier(other Module) string
}

// A Type is the Elm type of a generated expression.
type Type interface {
	// Constrain makes other compatible with (equal to or more
	// specific than) the receiver. It may return a new type, other
	// unchanged, or other mutated.
	Constrain(other Type) (Type, error)

	// Signature renders the type as it appears in an Elm type
	// annotation, with names qualified as seen from the given module.
	Signature(from Module, env *SignatureEnv) string

	String() string

	subTypes() []Type
	equal(other Type) bool
}

// A SignatureEnv allocates type variable names while rendering
// a single signature.
type SignatureEnv struct {
	used map[string]Type
}

// NewSignatureEnv returns an empty environment.
func NewSignatureEnv() *SignatureEnv {
	return &SignatureEnv{used: map[string]Type{}}
}

// Reserve marks a type variable name as taken.
func (e *SignatureEnv) Reserve(name string) {
	e.used[name] = nil
}

// next returns a fresh single-letter variable, one past the greatest
// letter already used. This fails if it reaches past "z", which does
// not happen for the signatures this compiler generates.
func (e *SignatureEnv) next(owner Type) string {
	max := byte(0)
	for name := range e.used {
		if name[0] > max {
			max = name[0]
		}
	}
	v := "a"
	if max != 0 {
		v = string(max + 1)
	}
	e.used[v] = owner
	return v
}

// SignatureOf renders a type with a fresh environment.
func SignatureOf(t Type, from Module) string {
	return t.Signature(from, NewSignatureEnv())
}

// Mismatch is returned when a type cannot be constrained
// to be compatible with another.
type Mismatch struct {
	Msg string
}

func (e *Mismatch) Error() string { return e.Msg }

// RecordMismatch is a Mismatch that occurred setting the type of a
// record field. The record's field sources identify the FTL
// expressions the conflicting types were inferred from.
type RecordMismatch struct {
	Err    *Mismatch
	Record *Record
	Field  string
}

func (e *RecordMismatch) Error() string { return e.Err.Msg }

// A TypeSource records the FTL expression a field type
// was inferred from.
type TypeSource struct {
	FtlSource syntax.Source
	Type      Type
}

// isUnconstrained reports whether t places no constraint of its own:
// a fresh type variable or a type parameter.
func isUnconstrained(t Type) bool {
	switch t.(type) {
	case *Unconstrained, *TypeParam:
		return true
	}
	return false
}

// An Unconstrained type is a fresh type variable.
// Each value is a distinct variable: two are never equal.
type Unconstrained struct{}

// NewUnconstrained returns a fresh type variable.
func NewUnconstrained() *Unconstrained { return &Unconstrained{} }

func (u *Unconstrained) Constrain(other Type) (Type, error) { return other, nil }

func (u *Unconstrained) Signature(from Module, env *SignatureEnv) string {
	return env.next(u)
}

func (u *Unconstrained) String() string   { return SignatureOf(u, nil) }
func (u *Unconstrained) subTypes() []Type { return nil }
func (u *Unconstrained) equal(Type) bool  { return false }

// A TypeParam is a named type parameter of a declared type,
// such as the a of List a.
type TypeParam struct {
	Preferred string
}

// NewTypeParam returns a type parameter with a preferred
// variable name.
func NewTypeParam(preferred string) *TypeParam {
	return &TypeParam{Preferred: preferred}
}

func (p *TypeParam) Constrain(other Type) (Type, error) {
	if isUnconstrained(other) {
		return p, nil
	}
	return other, nil
}

func (p *TypeParam) Signature(from Module, env *SignatureEnv) string {
	for name, t := range env.used {
		if t == Type(p) {
			return name
		}
	}
	candidate := p.Preferred
	for c := 1; ; c++ {
		if _, taken := env.used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s%d", p.Preferred, c+1)
	}
	env.used[candidate] = p
	return candidate
}

func (p *TypeParam) String() string   { return SignatureOf(p, nil) }
func (p *TypeParam) subTypes() []Type { return nil }

// Type parameters are compared loosely: any two are equal.
// This is a weak check but it is what makes signatures come
// out the way we need.
func (p *TypeParam) equal(other Type) bool {
	_, ok := other.(*TypeParam)
	return ok
}

// A Named type is a declared Elm type such as String or Dict k v,
// possibly with parameters.
type Named struct {
	Name   string
	Module Module
	params []namedParam
}

type namedParam struct {
	name string
	typ  Type
}

// NewNamed returns the type written fullName as declared in module.
// Type parameters are given by spaces in the name: "Dict k v"
// declares a Dict with parameters k and v.
func NewNamed(fullName string, module Module) *Named {
	parts := strings.Split(fullName, " ")
	n := &Named{Name: parts[0], Module: module}
	for _, p := range parts[1:] {
		n.params = append(n.params, namedParam{name: p, typ: NewTypeParam(p)})
	}
	return n
}

// Param returns the type of the named parameter.
func (n *Named) Param(name string) Type {
	for _, p := range n.params {
		if p.name == name {
			return p.typ
		}
	}
	panic(fmt.Sprintf("%s is not a parameter of type %s", name, n))
}

// Specialize returns a copy of the type with the given parameters
// constrained to the given types.
func (n *Named) Specialize(params map[string]Type) *Named {
	retval := n.clone()
	for name, t := range params {
		found := false
		for i, p := range retval.params {
			if p.name != name {
				continue
			}
			c, err := t.Constrain(p.typ)
			if err != nil {
				panic(fmt.Sprintf("impossible specialization of %s: %s", n, err))
			}
			retval.params[i].typ = c
			found = true
			break
		}
		if !found {
			panic(fmt.Sprintf("%s is not a parameter of type %s", name, n))
		}
	}
	return retval
}

func (n *Named) clone() *Named {
	retval := &Named{Name: n.Name, Module: n.Module}
	retval.params = append(retval.params, n.params...)
	return retval
}

func (n *Named) compatible(other Type) bool {
	o, ok := other.(*Named)
	return ok && o.Module == n.Module && o.Name == n.Name && len(o.params) == len(n.params)
}

func (n *Named) Constrain(other Type) (Type, error) {
	if isUnconstrained(other) {
		return n, nil
	}
	if !n.compatible(other) {
		return nil, &Mismatch{Msg: fmt.Sprintf("%s is not compatible with %s", n, other)}
	}
	o := other.(*Named)
	diff := map[string]Type{}
	for i, p := range n.params {
		if !p.typ.equal(o.params[i].typ) {
			diff[p.name] = p.typ
		}
	}
	if len(diff) > 0 {
		return o.Specialize(diff), nil
	}
	return n, nil
}

func (n *Named) Signature(from Module, env *SignatureEnv) string {
	qual := ""
	if from != nil && n.Module != nil {
		qual = from.NameQualifier(n.Module)
	}
	s := qual + n.Name
	for _, p := range n.params {
		s += " " + parenWrap(p.typ.Signature(from, env))
	}
	return s
}

func (n *Named) String() string { return SignatureOf(n, nil) }

func (n *Named) subTypes() []Type {
	var ts []Type
	for _, p := range n.params {
		ts = append(ts, p.typ)
	}
	return ts
}

func (n *Named) equal(other Type) bool {
	if !n.compatible(other) {
		return false
	}
	o := other.(*Named)
	for i, p := range n.params {
		if p.name != o.params[i].name || !p.typ.equal(o.params[i].typ) {
			return false
		}
	}
	return true
}

// A Tuple is an Elm tuple type such as (String, number).
type Tuple struct {
	Elems []Type
}

// NewTuple returns the tuple of the given element types.
func NewTuple(elems ...Type) *Tuple {
	return &Tuple{Elems: elems}
}

func (t *Tuple) Constrain(other Type) (Type, error) {
	if isUnconstrained(other) {
		return t, nil
	}
	o, ok := other.(*Tuple)
	if !ok || len(o.Elems) != len(t.Elems) {
		return nil, &Mismatch{Msg: fmt.Sprintf("%s is not compatible with %s", t, other)}
	}
	for i, e := range t.Elems {
		c, err := e.Constrain(o.Elems[i])
		if err != nil {
			return nil, err
		}
		o.Elems[i] = c
	}
	return o, nil
}

func (t *Tuple) Signature(from Module, env *SignatureEnv) string {
	var parts []string
	for _, e := range t.Elems {
		parts = append(parts, e.Signature(from, env))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) String() string   { return SignatureOf(t, nil) }
func (t *Tuple) subTypes() []Type { return t.Elems }

func (t *Tuple) equal(other Type) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.Elems) != len(t.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

// A Record is an Elm record type. An extensible record accumulates
// fields as uses of it are discovered and remembers, per field, the
// FTL expressions each field type was inferred from. A fixed record
// has exactly its declared fields.
type Record struct {
	Fixed        bool
	fields       map[string]Type
	FieldSources map[string][]TypeSource
}

// NewRecord returns an extensible record with no fields yet.
func NewRecord() *Record {
	return &Record{
		fields:       map[string]Type{},
		FieldSources: map[string][]TypeSource{},
	}
}

// NewFixedRecord returns a record type with exactly the given fields.
func NewFixedRecord(fields map[string]Type) *Record {
	r := &Record{Fixed: true, fields: map[string]Type{}}
	for name, t := range fields {
		r.fields[name] = t
	}
	return r
}

// AddField adds a field or refines the type of an existing one.
// A nil type adds the field as a fresh type variable. The ftl source,
// if given, is recorded as evidence for the field's type.
func (r *Record) AddField(name string, t Type, from *syntax.Source) error {
	if t == nil {
		t = NewUnconstrained()
	}
	existing, ok := r.fields[name]
	if !ok {
		if r.Fixed {
			panic(fmt.Sprintf("cannot add field %s to a fixed record type, only %s available",
				name, strings.Join(r.FieldNames(), ", ")))
		}
		r.fields[name] = t
		if from != nil {
			r.FieldSources[name] = append(r.FieldSources[name], TypeSource{FtlSource: *from, Type: t})
		}
		return nil
	}
	if r.Fixed {
		_, err := t.Constrain(existing)
		return err
	}
	if from != nil && !t.equal(existing) {
		r.FieldSources[name] = append(r.FieldSources[name], TypeSource{FtlSource: *from, Type: t})
	}
	newType, err := t.Constrain(existing)
	if err != nil {
		if m, ok := err.(*Mismatch); ok {
			return &RecordMismatch{Err: m, Record: r, Field: name}
		}
		return err
	}
	r.fields[name] = newType
	return nil
}

// Field returns the type of a field, if present.
func (r *Record) Field(name string) (Type, bool) {
	t, ok := r.fields[name]
	return t, ok
}

// FieldNames returns the field names in sorted order.
func (r *Record) FieldNames() []string {
	var names []string
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Record) Constrain(other Type) (Type, error) {
	if isUnconstrained(other) {
		return r, nil
	}
	o, ok := other.(*Record)
	if !ok {
		return nil, &Mismatch{Msg: fmt.Sprintf("Expected type %s is not compatible with a record type", other)}
	}
	if o.Fixed {
		for name := range r.fields {
			if _, ok := o.fields[name]; !ok {
				return nil, &Mismatch{Msg: fmt.Sprintf("Unexpected field %s, only %s available",
					name, strings.Join(o.FieldNames(), ", "))}
			}
		}
		return o, nil
	}
	// Merge into other rather than cloning: expression nodes already
	// hold a reference to other as their type.
	for _, name := range r.FieldNames() {
		o.FieldSources[name] = append(o.FieldSources[name], r.FieldSources[name]...)
		if err := o.AddField(name, r.fields[name], nil); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (r *Record) Signature(from Module, env *SignatureEnv) string {
	fieldsSig := func() string {
		var parts []string
		for _, name := range r.FieldNames() {
			parts = append(parts, name+" : "+r.fields[name].Signature(from, env))
		}
		return strings.Join(parts, ", ")
	}
	if r.Fixed {
		return "{ " + fieldsSig() + " }"
	}
	base := env.next(r)
	if len(r.fields) == 0 {
		return base
	}
	return "{ " + base + " | " + fieldsSig() + " }"
}

func (r *Record) String() string { return SignatureOf(r, nil) }

func (r *Record) subTypes() []Type {
	var ts []Type
	for _, name := range r.FieldNames() {
		ts = append(ts, r.fields[name])
	}
	return ts
}

// Records are compared by identity: each is its own type.
func (r *Record) equal(other Type) bool { return Type(r) == other }

// A Func is an Elm function type. Functions always have a single
// input and a single output; multiple inputs are curried.
type Func struct {
	In  Type
	Out Type
}

// NewFunc returns the function type In -> Out.
func NewFunc(in, out Type) *Func {
	return &Func{In: in, Out: out}
}

// FuncOf returns the curried function type over the given inputs,
// or just the output type when there are none.
func FuncOf(inputs []Type, out Type) Type {
	if len(inputs) == 0 {
		return out
	}
	return NewFunc(inputs[0], FuncOf(inputs[1:], out))
}

func (f *Func) Constrain(other Type) (Type, error) {
	o, ok := other.(*Func)
	if !ok {
		panic(fmt.Sprintf("expecting %s to be a function", other))
	}
	in, err := o.In.Constrain(f.In)
	if err != nil {
		return nil, err
	}
	out, err := o.Out.Constrain(f.Out)
	if err != nil {
		return nil, err
	}
	return NewFunc(in, out), nil
}

func (f *Func) Signature(from Module, env *SignatureEnv) string {
	return f.In.Signature(from, env) + " -> " + f.Out.Signature(from, env)
}

func (f *Func) String() string   { return SignatureOf(f, nil) }
func (f *Func) subTypes() []Type { return []Type{f.In, f.Out} }

func (f *Func) equal(other Type) bool {
	o, ok := other.(*Func)
	return ok && f.In.equal(o.In) && f.Out.equal(o.Out)
}

// A TypedExpr is an expression whose type can be constrained.
// It is implemented by the code generator's expression nodes.
type TypedExpr interface {
	ConstrainType(t Type, from *syntax.Source) error
}

// ApplyArgs returns the type remaining after applying the given
// argument expressions to a function of type t, constraining the
// arguments' types as it goes.
func ApplyArgs(t Type, args []TypedExpr, from *syntax.Source) (Type, error) {
	if len(args) == 0 {
		return t, nil
	}
	f, ok := t.(*Func)
	if !ok {
		panic(fmt.Sprintf("%s is not a function, cannot apply arguments to it", t))
	}
	if err := args[0].ConstrainType(f.In, from); err != nil {
		return nil, err
	}
	return ApplyArgs(f.Out, args[1:], from)
}

// Equal reports whether two types are the same for the purposes of
// evidence tracking. Type parameters compare loosely and fresh type
// variables never compare equal.
func Equal(a, b Type) bool { return a.equal(b) }

// Traverse returns t and all types appearing in its signature,
// sub-types first.
func Traverse(t Type) []Type {
	var ts []Type
	for _, sub := range t.subTypes() {
		ts = append(ts, Traverse(sub)...)
	}
	return append(ts, t)
}

func parenWrap(sig string) string {
	if strings.Contains(sig, " ") && !(strings.HasPrefix(sig, "(") && strings.HasSuffix(sig, ")")) {
		return "(" + sig + ")"
	}
	return sig
}
