// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/inference"
)

// A MissingTranslationStrategy decides what happens when a locale has
// no translation for a message, or no messages file at all.
type MissingTranslationStrategy interface {
	// FallbackLocale returns the locale whose translation stands in
	// for locale's missing messages, or "" when there is none.
	FallbackLocale(locale string) string
	// MissingMessage reports a message a locale does not translate.
	// The second return makes the report an error rather than a
	// warning.
	MissingMessage(messageID, locale string) (*Error, bool)
	// MissingFile reports an FTL file a locale does not have.
	MissingFile(path, locale string) (*Error, bool)
}

// MasterConfig controls the compilation of a master dispatch module.
type MasterConfig struct {
	// DefaultLocale serves any locale no case branch matches.
	DefaultLocale string
	// Missing decides how untranslated messages are handled.
	Missing MissingTranslationStrategy
}

// CompileMaster builds the module that ties the per-locale modules
// together: for every message function exported by any locale it
// defines a function of the same name and type that cases on the
// locale's language tag and calls into the right locale module.
// Locales missing a message dispatch to the strategy's fallback
// locale. A function whose argument types disagree between locales,
// or whose default locale translation is missing, is left out.
func CompileMaster(moduleName string, locales []string, compiled map[string]*Compiled, cfg MasterConfig) (*elm.Module, []*Error, []*Error) {
	var errors, warnings []*Error
	module := elm.NewModule(moduleName)
	module.AddImport(localeModule, "Locale")
	module.AddImport(fluentModule, "Fluent")
	for _, arg := range functionArgs() {
		module.ReserveFunctionArgName(arg)
	}

	localNames := make(map[string]string, len(locales))
	hasExport := map[string]map[string]bool{}
	var allExports []string
	seen := map[string]bool{}
	for _, locale := range locales {
		localNames[locale] = ModuleNameForLocale(locale)
		c, ok := compiled[locale]
		if !ok {
			continue
		}
		exports := c.Module.Exports()
		if len(exports) > 0 {
			module.AddImport(c.Module, localNames[locale])
		}
		set := make(map[string]bool, len(exports))
		for _, name := range exports {
			set[name] = true
			if !seen[name] {
				seen[name] = true
				allExports = append(allExports, name)
			}
		}
		hasExport[locale] = set
	}

	funcNameToMessageID := map[string]string{}
	for _, locale := range locales {
		c, ok := compiled[locale]
		if !ok {
			continue
		}
		ids := make([]string, 0, len(c.Mapping))
		for id := range c.Mapping {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if _, ok := funcNameToMessageID[c.Mapping[id]]; !ok {
				funcNameToMessageID[c.Mapping[id]] = id
			}
		}
	}

	for _, funcName := range allExports {
		name := module.ReserveName(funcName, messageFunctionType())
		if name != funcName {
			panic(fmt.Sprintf("%s != %s unexpectedly", name, funcName))
		}
		messageID := funcNameToMessageID[funcName]

		if err := masterArgConflict(funcName, messageID, locales, compiled, hasExport); err != nil {
			errors = append(errors, err)
			continue
		}

		fn := elm.NewFunction(funcName, functionArgs(), module.Scope())
		body := fn.Body.(*elm.Let)
		localeTag := mustApply(body.Var("Locale.toLanguageTag"), body.Var(localeArgName))
		caseExpr := elm.NewCase(mustApply(body.Var("String.toLower"), localeTag), body.Scope())

		doCall := func(locale string) elm.Expr {
			if !hasExport[locale][funcName] {
				// The fallback locale itself has no translation. An
				// error was already recorded for the locale that
				// needed it.
				return elm.NewCompilationError()
			}
			args := make([]elm.Expr, 0, 2)
			for _, a := range functionArgs() {
				args = append(args, body.Var(a))
			}
			call, err := elm.Apply(body.Var(localNames[locale]+"."+funcName), args, nil)
			if err != nil {
				e := typeMismatchError(err)
				e.FuncName = funcName
				errors = append(errors, e)
				return elm.NewCompilationError()
			}
			return call
		}

		for _, locale := range locales {
			branch := caseExpr.AddBranch(elm.NewString(strings.ToLower(locale)))
			useLocale := locale
			if !hasExport[locale][funcName] {
				useLocale = cfg.Missing.FallbackLocale(locale)
				if err, isError := cfg.Missing.MissingMessage(messageID, locale); err != nil {
					if isError {
						errors = append(errors, err)
					} else {
						warnings = append(warnings, err)
					}
				}
			}
			if useLocale == "" {
				branch.Value = elm.NewCompilationError()
			} else {
				branch.Value = doCall(useLocale)
			}
		}

		if hasExport[cfg.DefaultLocale][funcName] {
			otherwise := caseExpr.AddBranch(elm.NewOtherwise())
			otherwise.Value = doCall(cfg.DefaultLocale)
			body.Value = caseExpr
			module.AddFunction(fn, -1)
		}
	}

	if err := elm.Simplify(module); err != nil {
		errors = append(errors, typeMismatchError(err))
	}
	return module, errors, warnings
}

// masterArgConflict looks for an argument whose inferred types
// disagree between locales, which would make the dispatch function
// impossible to type. The evidence of every locale is reported
// together.
func masterArgConflict(funcName, messageID string, locales []string, compiled map[string]*Compiled, hasExport map[string]map[string]bool) *Error {
	byArg := map[string][]*inference.Fact{}
	var argOrder []string
	for _, locale := range locales {
		if !hasExport[locale][funcName] {
			continue
		}
		args := compiled[locale].ArgTypes[messageID]
		names := make([]string, 0, len(args))
		for name := range args {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fact, ok := args[name].(*inference.Fact)
			if !ok || fact.Type == inference.Unknown {
				// Per-locale conflicts were already reported when the
				// locale itself was compiled.
				continue
			}
			if _, ok := byArg[name]; !ok {
				argOrder = append(argOrder, name)
			}
			byArg[name] = append(byArg[name], fact)
		}
	}
	for _, name := range argOrder {
		facts := byArg[name]
		for _, f := range facts[1:] {
			if f.Type != facts[0].Type {
				err := conflictError(name, &inference.Conflict{Facts: facts})
				err.FuncName = funcName
				return err
			}
		}
	}
	return nil
}

// ModuleNameForLocale returns the module name component used for a
// locale's generated modules: "tr-Cyrl" becomes "TRCYRL".
func ModuleNameForLocale(locale string) string {
	return strings.ToUpper(strings.ReplaceAll(locale, "-", ""))
}
