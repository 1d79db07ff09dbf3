// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elm-fluent/elm-fluent/compiler"
	"github.com/elm-fluent/elm-fluent/run"
)

const version = "0.2.0"

var (
	localesDir    = flag.String("locales-dir", "locales", "location of the directory holding the per-locale ftl files")
	outputDir     = flag.String("output-dir", ".", "location to write the generated Elm files")
	whenMissing   = flag.String("when-missing", "error", "missing translation handling: error or fallback")
	defaultLocale = flag.String("default-locale", "en", "locale the master modules fall back to")
	bdiIsolating  = flag.Bool("bdi-isolating", true, "wrap interpolations in Unicode bidi isolating characters")
	include       = flag.String("include", "", "only compile ftl files whose stem matches this glob")
	cwd           = flag.String("cwd", "", "directory reported paths are relative to (default the working directory)")
	watch         = flag.Bool("watch", false, "recompile whenever the ftl files change")
	verbose       = flag.Bool("verbose", false, "enable verbose output")
	showVersion   = flag.Bool("version", false, "print the version and exit")
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) != 0 {
		usage()
		os.Exit(1)
	}
	if *showVersion {
		fmt.Println("ftl2elm " + version)
		return
	}

	dir := *cwd
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			die("failed to get the current directory", err)
		}
	}
	locales, err := filepath.Abs(*localesDir)
	if err != nil {
		die("failed to resolve the locales directory", err)
	}
	checkDir(locales, "Locales", "locales-dir")
	output, err := filepath.Abs(*outputDir)
	if err != nil {
		die("failed to resolve the output directory", err)
	}
	checkDir(output, "Output", "output-dir")

	var missing compiler.MissingTranslationStrategy
	switch *whenMissing {
	case "error":
		missing = run.ErrorWhenMissing{}
	case "fallback":
		missing = run.FallbackToDefaultLocaleWhenMissing{Fallback: *defaultLocale}
	default:
		fmt.Fprintf(flag.CommandLine.Output(),
			"Bad --when-missing value '%s': must be error or fallback\n", *whenMissing)
		os.Exit(1)
	}

	if warning, err := run.CheckRuntime(dir); err != nil {
		die("failed to check the fluent runtime version", err)
	} else if warning != "" {
		fmt.Fprintln(os.Stderr, warning)
	}

	opts := run.Options{
		LocalesDir:    locales,
		OutputDir:     output,
		DefaultLocale: *defaultLocale,
		Missing:       missing,
		UseIsolating:  *bdiIsolating,
		Include:       *include,
		Cwd:           dir,
		Verbose:       *verbose,
	}

	if *watch {
		// The first pass may fail while the user is still setting the
		// directories up; watching continues either way.
		switch err := run.Run(opts); {
		case err == nil || err == run.ErrFailed:
		default:
			if ue, ok := err.(*run.UsageError); ok {
				fmt.Fprintln(flag.CommandLine.Output(), ue.Msg)
			} else {
				die("", err)
			}
		}
		if err := run.Watch(context.Background(), opts); err != nil {
			die("", err)
		}
		return
	}
	if err := run.Run(opts); err != nil {
		if err != run.ErrFailed {
			fmt.Fprintln(flag.CommandLine.Output(), err)
		}
		os.Exit(1)
	}
}

func checkDir(dir, what, option string) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err) || err == nil && !info.IsDir():
		fmt.Fprintf(flag.CommandLine.Output(),
			"%s directory '%s' does not exist. Please specify a correct %s directory using the --%s option\n",
			what, dir, strings.ToLower(what), option)
		os.Exit(1)
	case err != nil:
		die("", err)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "%s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func die(s string, err error) {
	if s == "" {
		fmt.Fprintln(flag.CommandLine.Output(), err)
	} else {
		fmt.Fprintf(flag.CommandLine.Output(), "%s: %s\n", s, err)
	}
	os.Exit(1)
}
