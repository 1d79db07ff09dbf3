// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elm-fluent/elm-fluent/loc"
)

// testStrategy reports missing translations with fixed texts, routing
// them to errors or warnings by the asErrors flag.
type testStrategy struct {
	fallback string
	asErrors bool
}

func (s testStrategy) FallbackLocale(locale string) string { return s.fallback }

func (s testStrategy) MissingMessage(messageID, locale string) (*Error, bool) {
	return &Error{Kind: MissingMessage, Msg: fmt.Sprintf(
		"Locale '%s' - Message '%s' missing", locale, messageID)}, s.asErrors
}

func (s testStrategy) MissingFile(path, locale string) (*Error, bool) {
	return &Error{Kind: MissingMessageFile, Msg: fmt.Sprintf(
		"Message file '%s' not found", path)}, s.asErrors
}

func compileLocale(t *testing.T, locale, src string, locs loc.Files) *Compiled {
	t.Helper()
	cfg := Config{
		ModuleName: "Ftl." + ModuleNameForLocale(locale) + ".Test",
		Locs:       locs,
	}
	c, errs := CompileMessages(src, strings.ToLower(locale)+"/test.ftl", cfg)
	if len(errs) > 0 {
		var msgs []string
		for _, err := range errs {
			msgs = append(msgs, err.Display(locs))
		}
		t.Fatalf("unexpected errors for %s:\n%s", locale, strings.Join(msgs, "\n"))
	}
	return c
}

func TestCompileMasterDispatch(t *testing.T) {
	t.Parallel()
	locs := make(loc.Files)
	compiled := map[string]*Compiled{
		"en": compileLocale(t, "en", "foo = Foo\n", locs),
		"fr": compileLocale(t, "fr", "foo = Fou\n", locs),
	}
	m, errs, warns := CompileMaster("Ftl.Translations.Test", []string{"en", "fr"}, compiled,
		MasterConfig{DefaultLocale: "en", Missing: testStrategy{fallback: "en"}})
	if len(errs) > 0 || len(warns) > 0 {
		t.Fatalf("got errors %v, warnings %v, expected none", errs, warns)
	}
	want := "module Ftl.Translations.Test exposing (foo)\n" +
		"\n" +
		"import Ftl.EN.Test as EN\n" +
		"import Ftl.FR.Test as FR\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"foo : Locale.Locale -> a -> String\n" +
		"foo locale_ args_ =\n" +
		"    case String.toLower (Locale.toLanguageTag locale_) of\n" +
		"        \"en\" ->\n" +
		"            EN.foo locale_ args_\n" +
		"        \"fr\" ->\n" +
		"            FR.foo locale_ args_\n" +
		"        _ ->\n" +
		"            EN.foo locale_ args_\n" +
		"\n" +
		"\n"
	if got := m.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCompileMasterMissingMessage(t *testing.T) {
	t.Parallel()
	locs := make(loc.Files)
	compiled := map[string]*Compiled{
		"en": compileLocale(t, "en", "foo = Foo\nbar = Bar\n", locs),
		"fr": compileLocale(t, "fr", "foo = Fou\n", locs),
	}
	m, errs, warns := CompileMaster("Ftl.Translations.Test", []string{"en", "fr"}, compiled,
		MasterConfig{DefaultLocale: "en", Missing: testStrategy{fallback: "en"}})
	if len(errs) > 0 {
		t.Fatalf("got errors %v, expected none", errs)
	}
	if len(warns) != 1 {
		t.Fatalf("got %d warnings, expected 1: %v", len(warns), warns)
	}
	if warns[0].Kind != MissingMessage {
		t.Errorf("got kind %v, expected MissingMessage", warns[0].Kind)
	}
	if want := "Locale 'fr' - Message 'bar' missing"; warns[0].Msg != want {
		t.Errorf("got %q, expected %q", warns[0].Msg, want)
	}
	want := "module Ftl.Translations.Test exposing (foo, bar)\n" +
		"\n" +
		"import Ftl.EN.Test as EN\n" +
		"import Ftl.FR.Test as FR\n" +
		"import Intl.Locale as Locale\n" +
		"\n" +
		"foo : Locale.Locale -> a -> String\n" +
		"foo locale_ args_ =\n" +
		"    case String.toLower (Locale.toLanguageTag locale_) of\n" +
		"        \"en\" ->\n" +
		"            EN.foo locale_ args_\n" +
		"        \"fr\" ->\n" +
		"            FR.foo locale_ args_\n" +
		"        _ ->\n" +
		"            EN.foo locale_ args_\n" +
		"\n" +
		"bar : Locale.Locale -> a -> String\n" +
		"bar locale_ args_ =\n" +
		"    case String.toLower (Locale.toLanguageTag locale_) of\n" +
		"        \"en\" ->\n" +
		"            EN.bar locale_ args_\n" +
		"        \"fr\" ->\n" +
		"            EN.bar locale_ args_\n" +
		"        _ ->\n" +
		"            EN.bar locale_ args_\n" +
		"\n" +
		"\n"
	if got := m.Render(); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}

	// The same strategy routed to errors instead.
	_, errs, warns = CompileMaster("Ftl.Translations.Test", []string{"en", "fr"}, compiled,
		MasterConfig{DefaultLocale: "en", Missing: testStrategy{fallback: "en", asErrors: true}})
	if len(warns) > 0 {
		t.Errorf("got warnings %v, expected none", warns)
	}
	if len(errs) != 1 || errs[0].Kind != MissingMessage {
		t.Errorf("got errors %v, expected one MissingMessage", errs)
	}
}

func TestCompileMasterDefaultLocaleMissing(t *testing.T) {
	t.Parallel()
	locs := make(loc.Files)
	compiled := map[string]*Compiled{
		"en": compileLocale(t, "en", "foo = Foo\n", locs),
		"fr": compileLocale(t, "fr", "foo = Fou\nbar = Bar\n", locs),
	}
	m, errs, _ := CompileMaster("Ftl.Translations.Test", []string{"en", "fr"}, compiled,
		MasterConfig{DefaultLocale: "en", Missing: testStrategy{asErrors: true}})
	// bar has no default locale translation to dispatch to, so there
	// is no bar function at all.
	if got, want := m.Exports(), []string{"foo"}; !cmp.Equal(got, want) {
		t.Errorf("got exports %v, expected %v", got, want)
	}
	if len(errs) != 1 || errs[0].Kind != MissingMessage {
		t.Fatalf("got errors %v, expected one MissingMessage", errs)
	}
	if want := "Locale 'en' - Message 'bar' missing"; errs[0].Msg != want {
		t.Errorf("got %q, expected %q", errs[0].Msg, want)
	}
}

func TestCompileMasterArgumentConflict(t *testing.T) {
	t.Parallel()
	locs := make(loc.Files)
	compiled := map[string]*Compiled{
		"en": compileLocale(t, "en", "foo = { NUMBER($count) }\n", locs),
		"fr": compileLocale(t, "fr", "foo = { $count }\n", locs),
	}
	m, errs, warns := CompileMaster("Ftl.Translations.Test", []string{"en", "fr"}, compiled,
		MasterConfig{DefaultLocale: "en", Missing: testStrategy{fallback: "en"}})
	if len(warns) > 0 {
		t.Errorf("got warnings %v, expected none", warns)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, expected 1: %v", len(errs), errs)
	}
	if errs[0].Kind != ArgumentConflict {
		t.Errorf("got kind %v, expected ArgumentConflict", errs[0].Kind)
	}
	want := "For master 'foo' function: Conflicting inferred types for argument '$count'\n" +
		"  Compare the following:\n" +
		"    en/test.ftl:1:9: Inferred type: Number\n" +
		"    fr/test.ftl:1:9: Inferred type: String\n" +
		"\n" +
		"  Hint: You may need to use NUMBER() or DATETIME() builtins to force the correct type."
	if got := errs[0].Display(locs); got != want {
		t.Errorf("got:\n%s\nexpected:\n%s", got, want)
	}
	if got := m.Exports(); len(got) != 0 {
		t.Errorf("got exports %v, expected none", got)
	}
}

func TestModuleNameForLocale(t *testing.T) {
	t.Parallel()
	tests := []struct{ locale, want string }{
		{"en", "EN"},
		{"en-GB", "ENGB"},
		{"tr-Cyrl", "TRCYRL"},
	}
	for _, test := range tests {
		if got := ModuleNameForLocale(test.locale); got != test.want {
			t.Errorf("ModuleNameForLocale(%q)=%q, expected %q", test.locale, got, test.want)
		}
	}
}
