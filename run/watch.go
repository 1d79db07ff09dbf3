// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long Watch waits after the last change before
// recompiling, so an editor saving several files triggers one run.
const debounce = 250 * time.Millisecond

// Watch recompiles whenever an ftl file under the locales directory
// changes, until ctx is canceled. Compile failures are reported and
// watching continues; only infrastructure failures end the watch.
func Watch(ctx context.Context, opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := watchTree(w, opts.LocalesDir); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// A new directory may be a new locale, or a
					// subtree moved in with ftl files already inside.
					if err := watchTree(w, ev.Name); err != nil {
						return err
					}
					pending = time.After(debounce)
					continue
				}
			}
			if isFTL(ev.Name) {
				pending = time.After(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-pending:
			pending = nil
			if err := rerun(opts, out); err != nil {
				return err
			}
		}
	}
}

// rerun runs one compile pass for Watch. Compile errors were already
// printed by Run and usage errors may be transient while the user is
// rearranging directories, so neither ends the watch.
func rerun(opts Options, out io.Writer) error {
	switch err := Run(opts); {
	case err == nil || err == ErrFailed:
		return nil
	default:
		if ue, ok := err.(*UsageError); ok {
			fmt.Fprintln(out, ue.Msg)
			return nil
		}
		return err
	}
}

func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
