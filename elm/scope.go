// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package elm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/elm-fluent/elm-fluent/types"
)

// A Scope tracks the names in use across a stretch of Elm code, so
// that generated bindings never collide, along with the types of
// those names where known. Scopes nest: a name is taken if it is
// taken anywhere up the chain.
type Scope struct {
	parent      *Scope
	mod         *Module // set on a module's own scope
	names       map[string]bool
	argReserved map[string]bool
	types       map[string]types.Type
}

// NewScope returns a scope nested in parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:      parent,
		names:       map[string]bool{},
		argReserved: map[string]bool{},
		types:       map[string]types.Type{},
	}
}

func (s *Scope) inUse(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.names[name] {
			return true
		}
	}
	return false
}

func (s *Scope) argNameReserved(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.argReserved[name] {
			return true
		}
	}
	return false
}

// reserved reports whether name cannot be newly bound in this scope.
// Elm keywords are blocked only for module-level names: some are
// accepted by Elm in local binding positions.
func (s *Scope) reserved(name string) bool {
	return s.inUse(name) || s.argNameReserved(name) || (s.mod != nil && elmKeywords[name])
}

// ReserveName reserves a name in the scope, renaming as needed to
// avoid everything already reserved here or in enclosing scopes, and
// returns the name actually assigned. The type, if non-nil, is
// recorded against the name.
func (s *Scope) ReserveName(requested string, t types.Type) string {
	cleaned := CleanupName(requested)
	attempt := cleaned
	// The unsuffixed name counts as 1.
	for count := 2; s.reserved(attempt); count++ {
		attempt = cleaned + strconv.Itoa(count)
	}
	s.add(attempt, t)
	return attempt
}

// reserveArg reserves a function argument name. A name set aside with
// ReserveFunctionArgName is taken exactly; any other name falls back
// to normal reservation and may be renamed.
func (s *Scope) reserveArg(requested string, t types.Type) string {
	if s.argNameReserved(requested) {
		if s.inUse(requested) {
			panic(fmt.Sprintf("function arg name '%s' is already in use", requested))
		}
		s.add(requested, t)
		return requested
	}
	if s.reserved(requested) {
		panic(fmt.Sprintf("Cannot use '%s' as argument name as it is already in use", requested))
	}
	return s.ReserveName(requested, t)
}

func (s *Scope) add(name string, t types.Type) {
	s.names[name] = true
	if t != nil {
		s.types[name] = t
	}
}

// ReserveFunctionArgName sets a name aside for later use as a
// function argument. The name is not considered in use yet, but
// nothing other than a function argument may take it.
func (s *Scope) ReserveFunctionArgName(name string) {
	if s.reserved(name) {
		panic(fmt.Sprintf("Can't reserve '%s' as function arg name as it is already reserved", name))
	}
	s.argReserved[name] = true
}

// GetType returns the type recorded for a name here or in an
// enclosing scope.
func (s *Scope) GetType(name string) (types.Type, bool) {
	for c := s; c != nil; c = c.parent {
		if t, ok := c.types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *Scope) setType(name string, t types.Type) {
	for c := s; c != nil; c = c.parent {
		if _, ok := c.types[name]; ok {
			c.types[name] = t
			return
		}
	}
	panic(fmt.Sprintf("no type recorded for name '%s'", name))
}

// Var returns a reference to a name visible in the scope. The name
// may be qualified with the local name of an imported module, as in
// "NumberFormat.fromLocale".
func (s *Scope) Var(qualifiedName string) *VariableReference {
	var moduleName string
	name := qualifiedName
	if before, after, found := strings.Cut(qualifiedName, "."); found {
		moduleName, name = before, after
	}
	def := s
	if moduleName != "" {
		m := s.importedModule(moduleName)
		if m == nil {
			panic(fmt.Sprintf("no module imported as '%s'", moduleName))
		}
		def = m.scope
	}
	if !def.inUse(name) {
		panic(fmt.Sprintf("Cannot refer to undefined name '%s'", name))
	}
	return &VariableReference{Name: name, ModuleName: moduleName, scope: def}
}

// importedModule resolves the local name of an import, looking for
// the module this scope is part of. Modules registered with
// AddDefaultModule resolve without an import.
func (s *Scope) importedModule(name string) *Module {
	if d, ok := Defaults.modules[name]; ok {
		return d
	}
	m := s.moduleOf()
	if m == nil {
		return nil
	}
	return m.imports[name]
}

func (s *Scope) moduleOf() *Module {
	for c := s; c != nil; c = c.parent {
		if c.mod != nil {
			return c.mod
		}
	}
	return nil
}

// QualifierFor returns the prefix needed to refer to names of the
// given module from this scope, such as "NumberFormat." for a module
// imported under that local name.
func (s *Scope) QualifierFor(m types.Module) string {
	own := s.moduleOf()
	if own == nil {
		panic("scope is not part of a module")
	}
	return own.NameQualifier(m)
}

var (
	identSanitizer = regexp.MustCompile("[^a-zA-Z0-9_]")
	identStart     = regexp.MustCompile("^[a-zA-Z]")
)

// CleanupName strips a name down to a safe subset of Elm identifier
// characters, prefixing "n" if what is left does not start with a
// letter.
func CleanupName(name string) string {
	name = identSanitizer.ReplaceAllString(name, "")
	if !identStart.MatchString(name) {
		name = "n" + name
	}
	return name
}
