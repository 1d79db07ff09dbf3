// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elm-fluent/elm-fluent/inference"
	"github.com/elm-fluent/elm-fluent/loc"
)

func compileSource(t *testing.T, src string, cfg Config) (*Compiled, []*Error, loc.Files) {
	t.Helper()
	locs := make(loc.Files)
	cfg.Locs = locs
	if cfg.ModuleName == "" {
		cfg.ModuleName = "Ftl.EN.Test"
	}
	c, errs := CompileMessages(src, "test.ftl", cfg)
	return c, errs, locs
}

func compileGood(t *testing.T, src string) *Compiled {
	t.Helper()
	c, errs, files := compileSource(t, src, Config{})
	if len(errs) > 0 {
		var msgs []string
		for _, err := range errs {
			msgs = append(msgs, err.Display(files))
		}
		t.Fatalf("unexpected errors:\n%s", strings.Join(msgs, "\n"))
	}
	return c
}

func TestCompileSimpleMessage(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "foo = Foo\n")
	want := "module Ftl.EN.Test exposing (foo)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"foo : Locale.Locale -> a -> String\n" +
		"foo locale_ args_ =\n" +
		"    \"Foo\"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileInterpolation(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "hello = Hello { $name }\n")
	want := "module Ftl.EN.Test exposing (hello)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"hello : Locale.Locale -> { a | name : String } -> String\n" +
		"hello locale_ args_ =\n" +
		"    String.concat [ \"Hello \"\n" +
		"                  , args_.name\n" +
		"                  ]\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileAttributes(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "login = Log in\n    .title = Sign in here\n")
	want := "module Ftl.EN.Test exposing (login, login_title)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"login : Locale.Locale -> a -> String\n" +
		"login locale_ args_ =\n" +
		"    \"Log in\"\n" +
		"\n" +
		"login_title : Locale.Locale -> a -> String\n" +
		"login_title locale_ args_ =\n" +
		"    \"Sign in here\"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileNumberBuiltin(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "foo = { NUMBER($count) }\n")
	want := "module Ftl.EN.Test exposing (foo)\n" +
		"\n" +
		"import Fluent as Fluent\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"foo : Locale.Locale -> { a | count : Fluent.FluentNumber number } -> String\n" +
		"foo locale_ args_ =\n" +
		"    Fluent.formatNumber locale_ args_.count\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
	f, ok := c.ArgTypes["foo"]["count"].(*inference.Fact)
	if !ok {
		t.Fatalf("got %T for count, expected *inference.Fact", c.ArgTypes["foo"]["count"])
	}
	if f.Type != inference.Number {
		t.Errorf("got %s for count, expected Number", f.Type)
	}
}

func TestCompileNumberFormattingOptions(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "foo = { NUMBER($count, useGrouping: 0, minimumIntegerDigits: 2) }\n")
	want := "module Ftl.EN.Test exposing (foo)\n" +
		"\n" +
		"import Fluent as Fluent\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"foo : Locale.Locale -> { a | count : Fluent.FluentNumber number } -> String\n" +
		"foo locale_ args_ =\n" +
		"    let\n" +
		"        initial_opts_ = Fluent.numberFormattingOptions args_.count\n" +
		"        fnum_ = Fluent.reformattedNumber { initial_opts_ | locale = locale_, minimumIntegerDigits = Just 2, useGrouping = False } args_.count\n" +
		"    in\n" +
		"        Fluent.formatNumber locale_ fnum_\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileMessageReference(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "greeting = { NUMBER($count) }\nwelcome = You have { greeting }\n")
	want := "module Ftl.EN.Test exposing (greeting, welcome)\n" +
		"\n" +
		"import Fluent as Fluent\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"greeting : Locale.Locale -> { a | count : Fluent.FluentNumber number } -> String\n" +
		"greeting locale_ args_ =\n" +
		"    Fluent.formatNumber locale_ args_.count\n" +
		"\n" +
		"welcome : Locale.Locale -> { a | count : Fluent.FluentNumber number } -> String\n" +
		"welcome locale_ args_ =\n" +
		"    String.concat [ \"You have \"\n" +
		"                  , greeting locale_ args_\n" +
		"                  ]\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileReferenceBeforeDefinition(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "welcome = { greeting }!\ngreeting = Hello\n")
	// greeting is compiled, and so exported, before the message that
	// refers to it, while the definitions keep their source order.
	wantExports := []string{"greeting", "welcome"}
	if got := c.Module.Exports(); !cmp.Equal(got, wantExports) {
		t.Errorf("got exports %v, expected %v", got, wantExports)
	}
	fns := c.Module.Functions()
	if len(fns) != 2 || fns[0].Name != "welcome" || fns[1].Name != "greeting" {
		var names []string
		for _, fn := range fns {
			names = append(names, fn.Name)
		}
		t.Errorf("got definitions %v, expected [welcome greeting]", names)
	}
}

func TestCompilePluralSelect(t *testing.T) {
	t.Parallel()
	src := `notices = { $count ->
    [one] One notice
   *[other] { $count } notices
 }
`
	c := compileGood(t, src)
	want := "module Ftl.EN.Test exposing (notices)\n" +
		"\n" +
		"import Fluent as Fluent\n" +
		"import Intl.Locale as Locale\n" +
		"import Intl.PluralRules as PluralRules\n" +
		"\n" +
		"notices : Locale.Locale -> { a | count : Fluent.FluentNumber number } -> String\n" +
		"notices locale_ args_ =\n" +
		"    case PluralRules.select (PluralRules.fromLocale locale_) (Fluent.numberValue args_.count) of\n" +
		"        \"one\" ->\n" +
		"            \"One notice\"\n" +
		"        _ ->\n" +
		"            String.concat [ Fluent.formatNumber locale_ args_.count\n" +
		"                          , \" notices\"\n" +
		"                          ]\n" +
		"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileNumericSelect(t *testing.T) {
	t.Parallel()
	src := `items = { $position ->
    [1] First
   *[2] Second
 }
`
	c := compileGood(t, src)
	want := "module Ftl.EN.Test exposing (items)\n" +
		"\n" +
		"import Fluent as Fluent\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"items : Locale.Locale -> { a | position : Fluent.FluentNumber number } -> String\n" +
		"items locale_ args_ =\n" +
		"    case Fluent.numberValue args_.position of\n" +
		"        1 ->\n" +
		"            \"First\"\n" +
		"        _ ->\n" +
		"            \"Second\"\n" +
		"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileMixedSelect(t *testing.T) {
	t.Parallel()
	src := `fruits = { $count ->
    [0] No fruit
    [one] One fruit
   *[other] { $count } fruits
 }
`
	c := compileGood(t, src)
	want := "module Ftl.EN.Test exposing (fruits)\n" +
		"\n" +
		"import Fluent as Fluent\n" +
		"import Intl.Locale as Locale\n" +
		"import Intl.PluralRules as PluralRules\n" +
		"\n" +
		"fruits : Locale.Locale -> { a | count : Fluent.FluentNumber number } -> String\n" +
		"fruits locale_ args_ =\n" +
		"    let\n" +
		"        val_ = Fluent.numberValue args_.count\n" +
		"        pl_ = PluralRules.select (PluralRules.fromLocale locale_) val_\n" +
		"    in\n" +
		"        if (val_ == 0) then\n" +
		"            \"No fruit\"\n" +
		"        else\n" +
		"            if (pl_ == \"one\") then\n" +
		"                \"One fruit\"\n" +
		"            else\n" +
		"                String.concat [ Fluent.formatNumber locale_ args_.count\n" +
		"                              , \" fruits\"\n" +
		"                              ]\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileStringSelect(t *testing.T) {
	t.Parallel()
	src := `who = { $gender ->
    [male] his
    [female] her
   *[other] their
 }
`
	c := compileGood(t, src)
	want := "module Ftl.EN.Test exposing (who)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"who : Locale.Locale -> { a | gender : String } -> String\n" +
		"who locale_ args_ =\n" +
		"    case args_.gender of\n" +
		"        \"male\" ->\n" +
		"            \"his\"\n" +
		"        \"female\" ->\n" +
		"            \"her\"\n" +
		"        _ ->\n" +
		"            \"their\"\n" +
		"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileSelectOnLiterals(t *testing.T) {
	t.Parallel()
	src := `chosen = { "b" ->
    [a] A
   *[b] B
 }
numeric = { 2 ->
    [1] One
   *[2] Two
 }
plural = { 5 ->
    [one] One
   *[other] Other
 }
`
	c := compileGood(t, src)
	// A literal selector picks its variant at compile time, except
	// that plural category keys need the locale's plural rules.
	want := "module Ftl.EN.Test exposing (chosen, numeric, plural)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"import Intl.PluralRules as PluralRules\n" +
		"\n" +
		"chosen : Locale.Locale -> a -> String\n" +
		"chosen locale_ args_ =\n" +
		"    \"B\"\n" +
		"\n" +
		"numeric : Locale.Locale -> a -> String\n" +
		"numeric locale_ args_ =\n" +
		"    \"Two\"\n" +
		"\n" +
		"plural : Locale.Locale -> a -> String\n" +
		"plural locale_ args_ =\n" +
		"    case PluralRules.select (PluralRules.fromLocale locale_) 5 of\n" +
		"        \"one\" ->\n" +
		"            \"One\"\n" +
		"        _ ->\n" +
		"            \"Other\"\n" +
		"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileTermInline(t *testing.T) {
	t.Parallel()
	c := compileGood(t, "-brand = Chrome\nabout = About { -brand }\n")
	want := "module Ftl.EN.Test exposing (about)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"about : Locale.Locale -> a -> String\n" +
		"about locale_ args_ =\n" +
		"    \"About Chrome\"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
	wantMapping := map[string]string{"about": "about"}
	if !cmp.Equal(c.Mapping, wantMapping) {
		t.Errorf("got mapping %v, expected %v", c.Mapping, wantMapping)
	}
}

func TestCompileTermParameters(t *testing.T) {
	t.Parallel()
	src := `-thing = { $article ->
    [indefinite] a thing
   *[definite] the thing
 }
this-one = This is { -thing(article: "indefinite") }.
that-one = That is { -thing }.
`
	c := compileGood(t, src)
	want := "module Ftl.EN.Test exposing (thisOne, thatOne)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"thisOne : Locale.Locale -> a -> String\n" +
		"thisOne locale_ args_ =\n" +
		"    \"This is a thing.\"\n" +
		"\n" +
		"thatOne : Locale.Locale -> a -> String\n" +
		"thatOne locale_ args_ =\n" +
		"    \"That is the thing.\"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileTermAttributeCall(t *testing.T) {
	t.Parallel()
	src := `-brand = Chrome
    .gender = masculine
usage = { -brand.gender ->
    [masculine] Use his app
   *[feminine] Use her app
 }
`
	c := compileGood(t, src)
	want := "module Ftl.EN.Test exposing (brand_gender, usage)\n" +
		"\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"brand_gender : Locale.Locale -> a -> String\n" +
		"brand_gender locale_ args_ =\n" +
		"    \"masculine\"\n" +
		"\n" +
		"usage : Locale.Locale -> a -> String\n" +
		"usage locale_ args_ =\n" +
		"    case brand_gender locale_ args_ of\n" +
		"        \"masculine\" ->\n" +
		"            \"Use his app\"\n" +
		"        _ ->\n" +
		"            \"Use her app\"\n" +
		"\n" +
		"\n"
	if got := c.Module.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileBidiIsolation(t *testing.T) {
	t.Parallel()
	c, errs, _ := compileSource(t, "hello = Hi { $name }!\n", Config{UseIsolating: true})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := "hello : Locale.Locale -> { a | name : String } -> String\n" +
		"hello locale_ args_ =\n" +
		"    String.concat [ \"Hi \u2068\"\n" +
		"                  , args_.name\n" +
		"                  , \"\u2069!\"\n" +
		"                  ]\n" +
		"\n"
	if got := c.Module.RenderBody(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileJunk(t *testing.T) {
	t.Parallel()
	_, errs, files := compileSource(t, "foo = Foo\n= bad\n", Config{})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, expected 1: %v", len(errs), errs)
	}
	if errs[0].Kind != JunkFound {
		t.Errorf("got kind %v, expected JunkFound", errs[0].Kind)
	}
	want := "test.ftl:2:1: Junk found: Expected an entry start"
	if got := errs[0].Display(files); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileUnknownReferences(t *testing.T) {
	t.Parallel()
	src := "foo = { bar }\nbaz = { -quux }\nqux = { MISSING($x) }\n"
	_, errs, files := compileSource(t, src, Config{})
	if len(errs) != 3 {
		t.Fatalf("got %d errors, expected 3: %v", len(errs), errs)
	}
	wants := []string{
		"test.ftl:1:9: In message 'foo': Unknown message: bar",
		"test.ftl:2:9: In message 'baz': Unknown term: -quux",
		"test.ftl:3:9: In message 'qux': Unknown function: MISSING",
	}
	for i, want := range wants {
		if errs[i].Kind != UnknownReference {
			t.Errorf("error %d: got kind %v, expected UnknownReference", i, errs[i].Kind)
		}
		if got := errs[i].Display(files); got != want {
			t.Errorf("error %d: got:\n%s\nexpected:\n%s", i, got, want)
		}
	}
}

func TestCompileCyclicReference(t *testing.T) {
	t.Parallel()
	c, errs, files := compileSource(t, "foo = { bar }\nbar = { foo }\n", Config{})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, expected 2: %v", len(errs), errs)
	}
	wants := []string{
		"test.ftl:1:1: In message 'foo': Cyclic reference in foo",
		"test.ftl:2:1: In message 'bar': Cyclic reference in bar",
	}
	for i, want := range wants {
		if errs[i].Kind != CyclicReference {
			t.Errorf("error %d: got kind %v, expected CyclicReference", i, errs[i].Kind)
		}
		if got := errs[i].Display(files); got != want {
			t.Errorf("error %d: got:\n%s\nexpected:\n%s", i, got, want)
		}
	}
	if got := c.Module.Exports(); len(got) != 0 {
		t.Errorf("got exports %v, expected none", got)
	}
}

func TestCompileSelfCycle(t *testing.T) {
	t.Parallel()
	_, errs, files := compileSource(t, "foo = { foo }\n", Config{})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, expected 1: %v", len(errs), errs)
	}
	want := "test.ftl:1:1: In message 'foo': Cyclic reference in foo"
	if got := errs[0].Display(files); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileBadMessageIDs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "keyword",
			src:  "if = Yes\n",
			want: "test.ftl:1:1: In message 'if': 'if' is not allowed as a message ID " +
				"because it clashes with an Elm keyword. Please choose another ID.",
		},
		{
			name: "default import",
			src:  "max = Max\n",
			want: "test.ftl:1:1: In message 'max': 'max' is not allowed as a message ID " +
				"because it clashes with an Elm default import. Please choose another ID.",
		},
		{
			name: "clashing ids",
			src:  "foo-bar = A\nfooBar = B\n",
			want: "test.ftl:2:1: In message 'fooBar': 'fooBar' is not allowed as a message ID " +
				"because it clashes with another message ID - 'foo-bar'. Please choose another ID.",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, errs, files := compileSource(t, test.src, Config{})
			if len(errs) != 1 {
				t.Fatalf("got %d errors, expected 1: %v", len(errs), errs)
			}
			if errs[0].Kind != BadMessageID {
				t.Errorf("got kind %v, expected BadMessageID", errs[0].Kind)
			}
			if got := errs[0].Display(files); got != test.want {
				t.Errorf("got:\n%s\nexpected:\n%s", got, test.want)
			}
		})
	}
}

func TestCompileTermArgumentErrors(t *testing.T) {
	t.Parallel()
	src := "-t = T\nfoo = { -t(\"x\") }\nbar = { -t(x: \"y\") }\n"
	_, errs, files := compileSource(t, src, Config{})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, expected 2: %v", len(errs), errs)
	}
	wants := []string{
		"test.ftl:2:9: In message 'foo': Positional arguments passed to term: -t",
		"test.ftl:3:12: In message 'bar': Unknown argument passed to term -t: x",
	}
	for i, want := range wants {
		if errs[i].Kind != BadTermArgs {
			t.Errorf("error %d: got kind %v, expected BadTermArgs", i, errs[i].Kind)
		}
		if got := errs[i].Display(files); got != want {
			t.Errorf("error %d: got:\n%s\nexpected:\n%s", i, got, want)
		}
	}
}

func TestCompileBadFunctionArgs(t *testing.T) {
	t.Parallel()
	src := "foo = { NUMBER($count, bogus: 1) }\nbar = { DATETIME($date, month: \"nope\") }\n"
	_, errs, files := compileSource(t, src, Config{})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, expected 2: %v", len(errs), errs)
	}
	wants := []string{
		"test.ftl:1:9: In message 'foo': NUMBER() got an unexpected keyword argument 'bogus'",
		"test.ftl:2:9: In message 'bar': Invalid value 'nope' for month parameter. " +
			"(Expecting one of narrow, short, long, numeric, 2-digit)",
	}
	for i, want := range wants {
		if errs[i].Kind != BadFunctionArgs {
			t.Errorf("error %d: got kind %v, expected BadFunctionArgs", i, errs[i].Kind)
		}
		if got := errs[i].Display(files); got != want {
			t.Errorf("error %d: got:\n%s\nexpected:\n%s", i, got, want)
		}
	}
}

func TestCompileArgumentTypeConflict(t *testing.T) {
	t.Parallel()
	c, errs, files := compileSource(t, "foo = { NUMBER($arg) } { DATETIME($arg) }\n", Config{})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, expected 2: %v", len(errs), errs)
	}
	if errs[0].Kind != ArgumentConflict {
		t.Errorf("got kind %v, expected ArgumentConflict", errs[0].Kind)
	}
	wantConflict := "test.ftl:1:1: In message 'foo': Conflicting inferred types for argument '$arg'\n" +
		"  Compare the following:\n" +
		"    test.ftl:1:9: Inferred type: Number\n" +
		"    test.ftl:1:26: Inferred type: DateTime"
	if got := errs[0].Display(files); got != wantConflict {
		t.Errorf("got:\n%s\nexpected:\n%s", got, wantConflict)
	}
	if errs[1].Kind != TypeMismatch {
		t.Errorf("got kind %v, expected TypeMismatch", errs[1].Kind)
	}
	wantMismatch := "test.ftl:1:26: In message 'foo': FluentDate is not compatible with FluentNumber number\n" +
		"  Explanation: incompatible types were detected for message argument '$arg'\n" +
		"  Compare the following:\n" +
		"    test.ftl:1:9: Inferred type: FluentNumber number\n" +
		"    test.ftl:1:26: Inferred type: FluentDate"
	if got := errs[1].Display(files); got != wantMismatch {
		t.Errorf("got:\n%s\nexpected:\n%s", got, wantMismatch)
	}
	// The function is still emitted, with a placeholder where the
	// second use could not compile.
	if got := c.Module.Exports(); len(got) != 1 || got[0] != "foo" {
		t.Errorf("got exports %v, expected [foo]", got)
	}
}

func TestCompileConflictHints(t *testing.T) {
	t.Parallel()
	src := `foo = { NUMBER($arg) } { $arg ->
    [male] A
   *[female] B
 }
`
	_, errs, files := compileSource(t, src, Config{})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, expected 2: %v", len(errs), errs)
	}
	wantConflict := "test.ftl:1:1: In message 'foo': Conflicting inferred types for argument '$arg'\n" +
		"  Compare the following:\n" +
		"    test.ftl:1:9: Inferred type: Number\n" +
		"    test.ftl:2:6: Inferred type: String\n" +
		"    test.ftl:3:6: Inferred type: String\n" +
		"\n" +
		"  Hint: You may need to use NUMBER() or DATETIME() builtins to force the correct type."
	if got := errs[0].Display(files); got != wantConflict {
		t.Errorf("got:\n%s\nexpected:\n%s", got, wantConflict)
	}
	wantMismatch := "test.ftl:1:26: In message 'foo': String is not compatible with FluentNumber number\n" +
		"  Explanation: incompatible types were detected for message argument '$arg'\n" +
		"  Compare the following:\n" +
		"    test.ftl:1:9: Inferred type: FluentNumber number\n" +
		"    test.ftl:2:5: Inferred type: String\n" +
		"\n" +
		"  Hint: You may need to use NUMBER() or DATETIME() builtins to force the correct type"
	if got := errs[1].Display(files); got != wantMismatch {
		t.Errorf("got:\n%s\nexpected:\n%s", got, wantMismatch)
	}
}

func TestMessageFunctionNames(t *testing.T) {
	t.Parallel()
	tests := []struct{ id, want string }{
		{"foo", "foo"},
		{"foo-bar", "fooBar"},
		{"hello-html.foo", "helloHtml_foo"},
		{"foo_", "foo"},
		{"foo-", "foo"},
		{"big2-bad3", "big2Bad3"},
		{"a-b-c", "aBC"},
		{"-brand.gender", "brand_gender"},
		{"attr-msg.attr-one", "attrMsg_attrOne"},
	}
	for _, test := range tests {
		if got := messageFunctionName(test.id); got != test.want {
			t.Errorf("messageFunctionName(%q)=%q, expected %q", test.id, got, test.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"foo", "Foo"},
		{"FOO", "Foo"},
		{"big2bad", "Big2Bad"},
		{"2x", "2X"},
		{"", ""},
	}
	for _, test := range tests {
		if got := titleCase(test.in); got != test.want {
			t.Errorf("titleCase(%q)=%q, expected %q", test.in, got, test.want)
		}
	}
}
