// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package run drives whole-directory compilation: it finds the locale
// directories and their ftl files, compiles each file for every locale
// along with the master dispatch module, reports errors and warnings,
// and writes the generated Elm sources.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/elm-fluent/elm-fluent/compiler"
	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/loc"
)

// ErrFailed reports that compile errors were found and printed.
var ErrFailed = errors.New("compilation failed")

// A UsageError is a problem with how the tool was invoked, rather
// than with the FTL content.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Options configures a compilation run.
type Options struct {
	// LocalesDir is the directory whose subdirectories hold each
	// locale's ftl files.
	LocalesDir string
	// OutputDir is the root the generated Elm files are written under.
	OutputDir string
	// DefaultLocale serves any locale the master dispatch does not
	// recognize, and is the fallback for missing translations.
	DefaultLocale string
	// Missing decides whether untranslated messages fail the build or
	// fall back to the default locale.
	Missing compiler.MissingTranslationStrategy
	// UseIsolating wraps interpolations in Unicode bidi isolates.
	UseIsolating bool
	// Include restricts compilation to ftl stems matching the glob.
	Include string
	// Cwd, when set, is the base directory reported paths are made
	// relative to.
	Cwd string
	// Verbose reports per-file progress.
	Verbose bool
	// Out is where reports are printed. Defaults to stdout.
	Out io.Writer
}

// ErrorWhenMissing is the strict missing-translation strategy: any
// missing message or message file fails the build.
type ErrorWhenMissing struct{}

// FallbackLocale returns no fallback; a missing translation has
// nothing to dispatch to.
func (ErrorWhenMissing) FallbackLocale(locale string) string { return "" }

func (ErrorWhenMissing) MissingMessage(messageID, locale string) (*compiler.Error, bool) {
	return &compiler.Error{Kind: compiler.MissingMessage, Msg: fmt.Sprintf(
		"Locale '%s' - Message '%s' missing", locale, messageID)}, true
}

func (ErrorWhenMissing) MissingFile(path, locale string) (*compiler.Error, bool) {
	return missingFile(path), true
}

// FallbackToDefaultLocaleWhenMissing dispatches missing translations
// to the fallback locale and downgrades the reports to warnings. The
// fallback locale itself has nowhere left to fall back to: its missing
// message files are errors, and its missing messages are warnings
// whose dispatch functions are omitted from the master module.
type FallbackToDefaultLocaleWhenMissing struct {
	Fallback string
}

func (s FallbackToDefaultLocaleWhenMissing) FallbackLocale(locale string) string {
	if locale == s.Fallback {
		return ""
	}
	return s.Fallback
}

func (s FallbackToDefaultLocaleWhenMissing) MissingMessage(messageID, locale string) (*compiler.Error, bool) {
	extra := ""
	if locale == s.Fallback {
		extra = " This message will be omitted since it is not in the fallback locale."
	}
	return &compiler.Error{Kind: compiler.MissingMessage, Msg: fmt.Sprintf(
		"Locale '%s' - Message '%s' missing.%s", locale, messageID, extra)}, false
}

func (s FallbackToDefaultLocaleWhenMissing) MissingFile(path, locale string) (*compiler.Error, bool) {
	return missingFile(path), locale == s.Fallback
}

func missingFile(path string) *compiler.Error {
	return &compiler.Error{Kind: compiler.MissingMessageFile, Msg: fmt.Sprintf(
		"Message file '%s' not found", path)}
}

// Run compiles every ftl file under the locales directory and writes
// the generated Elm modules. Nothing is written unless the whole run
// is error free; ErrFailed is returned after errors were printed.
func Run(opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	locales, err := FindLocales(opts.LocalesDir)
	if err != nil {
		return err
	}
	if len(locales) == 0 {
		return &UsageError{Msg: fmt.Sprintf(
			"No locale directories (directories containing .ftl files) found in %s directory",
			opts.LocalesDir)}
	}
	var bad []string
	for _, locale := range locales {
		if _, err := language.Parse(locale); err != nil {
			bad = append(bad, locale)
		}
	}
	if len(bad) > 0 {
		return &UsageError{Msg: "The following directory names are not valid BCP 47 language tags: " +
			strings.Join(bad, ", ")}
	}

	stems, err := FindAllStems(opts.LocalesDir, locales)
	if err != nil {
		return err
	}
	if opts.Include != "" {
		var kept []string
		for _, stem := range stems {
			ok, err := path.Match(opts.Include, stem)
			if err != nil {
				return &UsageError{Msg: "Bad include pattern: " + opts.Include}
			}
			if ok {
				kept = append(kept, stem)
			}
		}
		stems = kept
	}

	var results []*stemResult
	for _, stem := range stems {
		res, err := generateStem(opts, locales, stem)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	anyWarnings, anyErrors := false, false
	for _, res := range results {
		anyWarnings = anyWarnings || len(res.warnings) > 0
		anyErrors = anyErrors || len(res.errors) > 0
	}

	if anyWarnings {
		fmt.Fprint(out, "\nWarnings:\n\n")
		for _, res := range results {
			for _, w := range res.warnings {
				fmt.Fprintln(out, w.Msg)
			}
		}
	}
	if anyErrors {
		fmt.Fprint(out, "\nErrors:\n\n")
		for _, res := range results {
			for _, e := range res.errors {
				fmt.Fprintln(out, e.Display(res.files))
			}
		}
		if opts.Verbose {
			fmt.Fprintln(out, "Failed!")
		}
		return ErrFailed
	}

	if opts.Verbose {
		fmt.Fprint(out, "\nWriting files:\n\n")
	}
	for _, res := range results {
		for _, mf := range res.writes {
			// A module with no exports has nothing worth importing,
			// and "exposing ()" is not valid Elm anyway.
			if len(mf.module.Exports()) == 0 {
				continue
			}
			if err := writeModule(mf, opts, out); err != nil {
				return err
			}
		}
	}
	if opts.Verbose {
		fmt.Fprintln(out, "Success!")
	}
	return nil
}

type stemResult struct {
	stem     string
	errors   []*compiler.Error
	warnings []*compiler.Error
	files    loc.Files
	writes   []moduleFile
}

type moduleFile struct {
	path   string
	module *elm.Module
}

// generateStem compiles one ftl file for every locale, in parallel,
// and then the master dispatch module over all of them. The returned
// error is for infrastructure failures only; ftl problems end up in
// the result's errors and warnings.
func generateStem(opts Options, locales []string, stem string) (*stemResult, error) {
	res := &stemResult{stem: stem, files: make(loc.Files)}

	type localeOutput struct {
		filename string
		missing  bool
		compiled *compiler.Compiled
		errs     []*compiler.Error
		locs     loc.Files
		outPath  string
	}
	outputs := make([]*localeOutput, len(locales))
	var g errgroup.Group
	for i, locale := range locales {
		i, locale := i, locale
		g.Go(func() error {
			o := &localeOutput{
				filename: filepath.Join(opts.LocalesDir, locale, filepath.FromSlash(stem)),
				locs:     make(loc.Files),
			}
			outputs[i] = o
			data, err := os.ReadFile(o.filename)
			if os.IsNotExist(err) {
				o.missing = true
				return nil
			}
			if err != nil {
				return err
			}
			moduleName := moduleNameForStem(stem, locale)
			o.compiled, o.errs = compiler.CompileMessages(string(data), o.filename, compiler.Config{
				ModuleName:   moduleName,
				UseIsolating: opts.UseIsolating,
				Locs:         o.locs,
			})
			o.outPath = modulePath(opts, moduleName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compiled := map[string]*compiler.Compiled{}
	for i, locale := range locales {
		o := outputs[i]
		if o.missing {
			err, isError := opts.Missing.MissingFile(relPath(o.filename, opts.Cwd), locale)
			if err == nil {
				continue
			}
			if isError {
				res.errors = append(res.errors, err)
			} else {
				res.warnings = append(res.warnings, err)
			}
			continue
		}
		for p, f := range o.locs {
			res.files[p] = f
		}
		compiled[locale] = o.compiled
		if len(o.errs) > 0 {
			res.errors = append(res.errors, o.errs...)
		} else {
			res.writes = append(res.writes, moduleFile{path: o.outPath, module: o.compiled.Module})
		}
	}

	masterName := moduleNameForStem(stem, "")
	master, errs, warns := compiler.CompileMaster(masterName, locales, compiled, compiler.MasterConfig{
		DefaultLocale: opts.DefaultLocale,
		Missing:       opts.Missing,
	})
	res.errors = append(res.errors, errs...)
	res.warnings = append(res.warnings, warns...)
	if len(errs) == 0 {
		res.writes = append(res.writes, moduleFile{path: modulePath(opts, masterName), module: master})
	}
	return res, nil
}

func writeModule(mf moduleFile, opts Options, out io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(mf.path), 0755); err != nil {
		return err
	}
	if opts.Verbose {
		fmt.Fprintf(out, "Writing %s\n", relPath(mf.path, opts.Cwd))
	}
	return os.WriteFile(mf.path, []byte(mf.module.Render()), 0644)
}

// FindLocales returns the names of the subdirectories of dir that
// contain at least one ftl file, sorted.
func FindLocales(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var locales []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		has, err := containsFTL(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if has {
			locales = append(locales, entry.Name())
		}
	}
	sort.Strings(locales)
	return locales, nil
}

var errFoundFTL = errors.New("found an ftl file")

func containsFTL(dir string) (bool, error) {
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isFTL(path) {
			return errFoundFTL
		}
		return nil
	})
	if err == errFoundFTL {
		return true, nil
	}
	return false, err
}

func isFTL(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".ftl") && !strings.HasPrefix(base, ".")
}

// FindAllStems returns the union of the locale-relative ftl paths
// across all the locale directories, slash separated and sorted, so
// en/foo/bar.ftl and de/foo/bar.ftl are the single stem foo/bar.ftl.
func FindAllStems(localesDir string, locales []string) ([]string, error) {
	seen := map[string]bool{}
	var stems []string
	for _, locale := range locales {
		base := filepath.Join(localesDir, locale)
		err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !isFTL(path) {
				return nil
			}
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if !seen[rel] {
				seen[rel] = true
				stems = append(stems, rel)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(stems)
	return stems, nil
}

// moduleNameForStem returns the Elm module name for one locale's
// translations of an ftl file, or for the master dispatch module when
// locale is empty: foo/bar.ftl becomes Ftl.EN.Foo.Bar for locale en
// and Ftl.Translations.Foo.Bar for the master.
func moduleNameForStem(stem, locale string) string {
	first := "Translations"
	if locale != "" {
		first = compiler.ModuleNameForLocale(locale)
	}
	parts := strings.Split(strings.ReplaceAll(stem, ".ftl", ""), "/")
	for i, part := range parts {
		parts[i] = titleCase(part)
	}
	return "Ftl." + first + "." + strings.Join(parts, ".")
}

func titleCase(s string) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			inRun = false
			b.WriteRune(r)
		case inRun:
			b.WriteRune(unicode.ToLower(r))
		default:
			inRun = true
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func modulePath(opts Options, moduleName string) string {
	return filepath.Join(opts.OutputDir,
		filepath.FromSlash(strings.ReplaceAll(moduleName, ".", "/"))+".elm")
}

func relPath(path, cwd string) string {
	if cwd == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
