// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package types

import (
	"testing"

	"github.com/elm-fluent/elm-fluent/syntax"
)

// testModule is a minimal Module for signature tests.
// The real implementation lives in the code generator.
type testModule struct {
	name    string
	imports map[Module]string
}

func newTestModule(name string) *testModule {
	return &testModule{name: name, imports: map[Module]string{}}
}

func (m *testModule) addImport(other Module, alias string) {
	m.imports[other] = alias
}

func (m *testModule) NameQualifier(other Module) string {
	if other == Module(m) {
		return ""
	}
	if alias, ok := m.imports[other]; ok {
		return alias + "."
	}
	return ""
}

var (
	defaultsMod = newTestModule("")
	tString     = NewNamed("String", defaultsMod)
	tNumber     = NewNamed("number", defaultsMod)
	tBool       = NewNamed("Bool", defaultsMod)
	tInt        = NewNamed("Int", defaultsMod)
	tFloat      = NewNamed("Float", defaultsMod)
	tList       = NewNamed("List a", defaultsMod)
)

func sig(t Type) string {
	return SignatureOf(t, newTestModule(""))
}

func TestNamedSignature(t *testing.T) {
	t.Parallel()
	if got := sig(tString); got != "String" {
		t.Errorf("got %q, expected %q", got, "String")
	}
	if got := tString.String(); got != "String" {
		t.Errorf("got %q, expected %q", got, "String")
	}
}

func TestNamedEqual(t *testing.T) {
	t.Parallel()
	if !Equal(tString, tString) {
		t.Errorf("String should equal String")
	}
	if Equal(tString, tNumber) {
		t.Errorf("String should not equal number")
	}
}

func TestFuncSignature(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ  Type
		want string
	}{
		{NewFunc(tString, tNumber), "String -> number"},
		{FuncOf([]Type{tString, tNumber}, tBool), "String -> number -> Bool"},
		{FuncOf(nil, tBool), "Bool"},
	}
	for _, test := range tests {
		if got := sig(test.typ); got != test.want {
			t.Errorf("got %q, expected %q", got, test.want)
		}
	}
}

func TestFuncEqual(t *testing.T) {
	t.Parallel()
	f1 := FuncOf([]Type{tString, tNumber}, tString)
	f2 := FuncOf([]Type{tString, tNumber}, tString)
	f3 := FuncOf([]Type{tBool, tNumber}, tString)
	if !Equal(f1, f2) {
		t.Errorf("identically built functions should be equal")
	}
	if Equal(f1, f3) {
		t.Errorf("functions with different inputs should not be equal")
	}
}

// typedExpr is the least expression that ApplyArgs can constrain.
type typedExpr struct {
	typ Type
}

func (e *typedExpr) ConstrainType(t Type, from *syntax.Source) error {
	e.typ = t
	return nil
}

func TestApplyArgs(t *testing.T) {
	t.Parallel()
	function := FuncOf([]Type{tString, tNumber}, tBool)

	zero, err := ApplyArgs(function, nil, nil)
	if err != nil {
		t.Fatalf("ApplyArgs failed: %s", err)
	}
	if got := sig(zero); got != "String -> number -> Bool" {
		t.Errorf("got %q, expected %q", got, "String -> number -> Bool")
	}

	one, err := ApplyArgs(function, []TypedExpr{&typedExpr{typ: tString}}, nil)
	if err != nil {
		t.Fatalf("ApplyArgs failed: %s", err)
	}
	if got := sig(one); got != "number -> Bool" {
		t.Errorf("got %q, expected %q", got, "number -> Bool")
	}
	if !Equal(one, NewFunc(tNumber, tBool)) {
		t.Errorf("one-applied function has wrong type")
	}

	two, err := ApplyArgs(function, []TypedExpr{
		&typedExpr{typ: tString},
		&typedExpr{typ: tNumber},
	}, nil)
	if err != nil {
		t.Fatalf("ApplyArgs failed: %s", err)
	}
	if !Equal(two, tBool) {
		t.Errorf("got %s, expected Bool", two)
	}
}

func TestUnconstrainedSignature(t *testing.T) {
	t.Parallel()
	if got := sig(NewUnconstrained()); got != "a" {
		t.Errorf("got %q, expected %q", got, "a")
	}
	f := FuncOf([]Type{NewUnconstrained(), NewUnconstrained()}, NewUnconstrained())
	if got := sig(f); got != "a -> b -> c" {
		t.Errorf("got %q, expected %q", got, "a -> b -> c")
	}
}

func TestRecordSignature(t *testing.T) {
	t.Parallel()
	if got := sig(NewRecord()); got != "a" {
		t.Errorf("got %q, expected %q", got, "a")
	}

	f := NewFunc(NewRecord(), NewUnconstrained())
	if got := sig(f); got != "a -> b" {
		t.Errorf("got %q, expected %q", got, "a -> b")
	}

	r := NewRecord()
	r.AddField("foo", tString, nil)
	if got := sig(r); got != "{ a | foo : String }" {
		t.Errorf("got %q, expected %q", got, "{ a | foo : String }")
	}

	r.AddField("bar", nil, nil)
	if got := sig(r); got != "{ a | bar : b, foo : String }" {
		t.Errorf("got %q, expected %q", got, "{ a | bar : b, foo : String }")
	}

	fixed := NewFixedRecord(map[string]Type{"foo": tString})
	if got := sig(fixed); got != "{ foo : String }" {
		t.Errorf("got %q, expected %q", got, "{ foo : String }")
	}
}

func TestRecordSignatureTypeVariables(t *testing.T) {
	t.Parallel()
	r1 := NewRecord()
	r1.AddField("foo", nil, nil)
	r1.AddField("bar", nil, nil)
	r2 := NewRecord()
	r2.AddField("baz", nil, nil)
	f := FuncOf([]Type{r1, r2}, NewUnconstrained())
	want := "{ a | bar : b, foo : c } -> { d | baz : e } -> f"
	if got := sig(f); got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}

func TestNameQualifier(t *testing.T) {
	t.Parallel()
	source := newTestModule("MyModule")
	myType := NewNamed("MyType", source)
	if got := SignatureOf(myType, source); got != "MyType" {
		t.Errorf("got %q, expected %q", got, "MyType")
	}

	main := newTestModule("")
	main.addImport(source, "MyAlias")
	if got := SignatureOf(myType, main); got != "MyAlias.MyType" {
		t.Errorf("got %q, expected %q", got, "MyAlias.MyType")
	}
}

func TestTypeParameterSignatures(t *testing.T) {
	t.Parallel()
	source := newTestModule("MyModule")
	dict := NewNamed("Dict k v", source)
	if got := SignatureOf(dict, source); got != "Dict k v" {
		t.Errorf("got %q, expected %q", got, "Dict k v")
	}

	env := NewSignatureEnv()
	env.Reserve("k")
	env.Reserve("v")
	if got := dict.Signature(source, env); got != "Dict k2 v2" {
		t.Errorf("got %q, expected %q", got, "Dict k2 v2")
	}

	strToFloat := dict.Specialize(map[string]Type{"k": tString, "v": tFloat})
	if got := SignatureOf(strToFloat, source); got != "Dict String Float" {
		t.Errorf("got %q, expected %q", got, "Dict String Float")
	}

	container := NewNamed("Container a", source)
	complexType := container.Specialize(map[string]Type{"a": dict})
	if got := SignatureOf(complexType, source); got != "Container (Dict k v)" {
		t.Errorf("got %q, expected %q", got, "Container (Dict k v)")
	}
}

func TestTypeParamReuse(t *testing.T) {
	t.Parallel()
	p := NewTypeParam("a")
	f := NewFunc(p, p)
	if got := sig(f); got != "a -> a" {
		t.Errorf("got %q, expected %q", got, "a -> a")
	}

	f2 := NewFunc(p, tList.Specialize(map[string]Type{"a": p}))
	if got := sig(f2); got != "a -> List a" {
		t.Errorf("got %q, expected %q", got, "a -> List a")
	}
}

func TestTupleSignature(t *testing.T) {
	t.Parallel()
	tup := NewTuple(tString, tNumber)
	if got := sig(tup); got != "(String, number)" {
		t.Errorf("got %q, expected %q", got, "(String, number)")
	}
}

func TestSpecializedConstrain(t *testing.T) {
	t.Parallel()
	source := newTestModule("MyModule")
	container := NewNamed("Container a", source)
	specialized := container.Specialize(map[string]Type{"a": tInt})
	specialized2 := container.Specialize(map[string]Type{"a": tInt})
	if !Equal(specialized, specialized2) {
		t.Errorf("identical specializations should be equal")
	}
	if Equal(specialized, container) {
		t.Errorf("specialized type should not equal the generic type")
	}
	got, err := specialized.Constrain(container)
	if err != nil {
		t.Fatalf("Constrain failed: %s", err)
	}
	if !Equal(got, specialized) {
		t.Errorf("got %s, expected %s", got, specialized)
	}
}

func TestRecordFieldMismatch(t *testing.T) {
	t.Parallel()
	src1 := syntax.Source{Path: "a.ftl", MessageID: "foo"}
	src2 := syntax.Source{Path: "a.ftl", MessageID: "bar"}
	r := NewRecord()
	if err := r.AddField("count", tNumber, &src1); err != nil {
		t.Fatalf("AddField failed: %s", err)
	}
	err := r.AddField("count", tString, &src2)
	if err == nil {
		t.Fatalf("expected a mismatch adding a conflicting field type")
	}
	rm, ok := err.(*RecordMismatch)
	if !ok {
		t.Fatalf("got %T, expected *RecordMismatch", err)
	}
	if rm.Field != "count" {
		t.Errorf("got field %q, expected %q", rm.Field, "count")
	}
	if rm.Record != r {
		t.Errorf("mismatch should reference the record it occurred in")
	}
	if n := len(r.FieldSources["count"]); n != 2 {
		t.Errorf("got %d field sources, expected 2", n)
	}
}

func TestRecordConstrainMerge(t *testing.T) {
	t.Parallel()
	src := syntax.Source{Path: "a.ftl", MessageID: "foo"}
	r1 := NewRecord()
	r1.AddField("foo", tString, &src)
	r2 := NewRecord()
	r2.AddField("bar", tNumber, &src)
	got, err := r1.Constrain(r2)
	if err != nil {
		t.Fatalf("Constrain failed: %s", err)
	}
	if got != Type(r2) {
		t.Errorf("constraining a record should merge into the target record")
	}
	if _, ok := r2.Field("foo"); !ok {
		t.Errorf("merged record should have gained field foo")
	}
	if n := len(r2.FieldSources["foo"]); n != 1 {
		t.Errorf("got %d field sources for foo, expected 1", n)
	}
}
