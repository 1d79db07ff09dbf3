// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package loc has routines for tracking file locations.
package loc

import "fmt"

// A Range is a start and end byte offset within a single file.
type Range [2]int

// GetRange returns itself.
// This is useful so that Range can be embedded in a struct
// and that struct can implement interface{GetRange() Range}.
func (r Range) GetRange() Range { return r }

// A Loc describes a file location.
type Loc struct {
	Path string
	Line [2]int
	Col  [2]int
}

// String returns the location of the start of the range
// in path:line:col form, as expected by diagnostics.
func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line[0], l.Col[0])
}

// Files tracks locations within a set of files,
// each with its own byte-offset space.
type Files map[string]*File

// A File is a single file in a Files.
type File struct {
	Path  string
	Len   int
	Lines []int
}

// Add adds a new file to the set given its path and text.
// Adding a path twice replaces the earlier text.
func (fs Files) Add(path, text string) *File {
	var lines []int
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, i)
		}
	}
	f := &File{Path: path, Len: len(text), Lines: lines}
	fs[path] = f
	return f
}

// Loc returns the Loc for a range within the file at path.
func (fs Files) Loc(path string, r Range) *Loc {
	f, ok := fs[path]
	if !ok {
		return nil
	}
	return f.Loc(r)
}

// Loc returns the Loc for a range within the file.
func (f *File) Loc(r Range) *Loc {
	if r[0] < 0 || r[1] > f.Len {
		return nil
	}
	var l Loc
	l.Path = f.Path
	l.Line[0], l.Col[0] = f.loc1(r[0])
	l.Line[1], l.Col[1] = f.loc1(r[1])
	return &l
}

func (f *File) loc1(p int) (int, int) {
	line, col1 := 1, -1
	for _, nl := range f.Lines {
		if nl >= p {
			break
		}
		col1 = nl
		line++
	}
	return line, p - col1
}
