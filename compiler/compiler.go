// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

// Package compiler generates Elm source from FTL resources.
//
// Every message and every attribute of a message becomes one Elm
// function taking a locale and a record of external arguments. The
// types of the arguments are not declared anywhere in FTL, so they are
// established from how each argument is used, with the inference
// package supplying usage evidence gathered ahead of compilation.
// Terms never become functions: their bodies are inlined at each
// reference, with named call arguments substituted for the term's
// parameters.
//
// CompileMessages compiles one locale's resource file. CompileMaster
// builds the module that dispatches between the per-locale modules.
package compiler

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/eaburns/pretty"

	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/inference"
	"github.com/elm-fluent/elm-fluent/loc"
	"github.com/elm-fluent/elm-fluent/syntax"
	"github.com/elm-fluent/elm-fluent/types"
)

// Arguments shared by every generated message function.
const (
	localeArgName   = "locale_"
	messageArgsName = "args_"
)

// Unicode directional isolation marks wrapped around interpolated
// values when bidi isolation is on.
const (
	fsi = "\u2068"
	pdi = "\u2069"
)

var moduleImports = []struct {
	module *elm.Module
	name   string
}{
	{localeModule, "Locale"},
	{numberFormatModule, "NumberFormat"},
	{dateTimeFormatModule, "DateTimeFormat"},
	{pluralRulesModule, "PluralRules"},
	{fluentModule, "Fluent"},
}

// Config controls the compilation of one locale's messages.
type Config struct {
	// ModuleName is the dotted name of the generated Elm module.
	ModuleName string
	// UseIsolating wraps interpolated values in Unicode bidi
	// isolation marks.
	UseIsolating bool
	// Locs collects the source positions of the parsed file, shared
	// with the caller so that diagnostics from later stages can be
	// resolved. If nil a private file set is used.
	Locs loc.Files
	// Trace prints a log of the compilation to standard output.
	Trace bool
}

// Compiled is the result of compiling one locale's resource.
type Compiled struct {
	// Module is the generated Elm module.
	Module *elm.Module
	// Mapping gives the generated function name for each message id.
	Mapping map[string]string
	// ArgTypes holds the inferred argument types of each message.
	// The master compiler compares them across locales.
	ArgTypes map[string]inference.MessageArgs
}

// compilerEnv carries the state of compiling one resource.
type compilerEnv struct {
	path         string
	useIsolating bool
	messages     map[string]syntax.Node
	terms        map[string]syntax.Node
	mapping      map[string]string
	argTypes     map[string]inference.MessageArgs

	// messageID is the id of the message being compiled.
	messageID string
	// termArgs is the active substitution map while a term body is
	// inlined: variable references resolve against it instead of the
	// external arguments record.
	termArgs map[string]elm.Expr
	// termID names the term being inlined, for diagnostics.
	termID string

	errors []*Error

	trace  bool
	indent string
}

func (env *compilerEnv) source(n syntax.Node) *syntax.Source {
	return &syntax.Source{Node: n, MessageID: env.messageID, Path: env.path}
}

func (env *compilerEnv) addError(err *Error, n syntax.Node) {
	if n != nil {
		err.Sources = append(err.Sources, *env.source(n))
	}
	env.errors = append(env.errors, err)
}

func (env *compilerEnv) tr(f string, vs ...interface{}) func() {
	if !env.trace {
		return func() {}
	}
	env.log(f, vs...)
	olddent := env.indent
	env.indent += "---"
	return func() { env.indent = olddent }
}

func (env *compilerEnv) log(f string, vs ...interface{}) {
	if !env.trace {
		return
	}
	fmt.Print(env.indent)
	fmt.Printf(f, vs...)
	fmt.Println("")
}

// CompileMessages compiles the FTL resource src, which came from the
// file named path, into an Elm module. Compilation continues past
// errors so that everything wrong with a file is reported at once;
// the module is usable only when no errors are returned.
func CompileMessages(src, path string, cfg Config) (*Compiled, []*Error) {
	locs := cfg.Locs
	if locs == nil {
		locs = make(loc.Files)
	}
	res := syntax.NewParserWithLocs(locs).ParseString(path, src)

	module := elm.NewModule(cfg.ModuleName)
	for _, imp := range moduleImports {
		module.AddImport(imp.module, imp.name)
	}
	// Function argument names are fixed, so that a message function
	// can be called without looking at its definition.
	for _, arg := range functionArgs() {
		module.ReserveFunctionArgName(arg)
	}

	env := &compilerEnv{
		path:         path,
		useIsolating: cfg.UseIsolating,
		mapping:      map[string]string{},
		trace:        cfg.Trace,
	}
	defer env.tr("compiling module %s from %s", cfg.ModuleName, path)()
	var order []string
	order, env.messages, env.terms = splitResource(res, env)

	// Pass 1: reserve every function name up front, so that a
	// reference to a message can be compiled before the message is.
	for _, id := range order {
		env.mapping[id] = module.ReserveName(messageFunctionName(id), messageFunctionType())
	}
	reverseMapping := make(map[string]string, len(env.mapping))
	for id, name := range env.mapping {
		reverseMapping[name] = id
	}

	// Messages are compiled after the messages they reference, so
	// that argument types established there carry over to the caller.
	// Functions are emitted in source order regardless.
	processing := processingOrder(order, env.messages)
	sorted := append([]string(nil), order...)
	sort.Slice(sorted, func(i, j int) bool { return processing[sorted[i]] < processing[sorted[j]] })
	sourceOrder := make(map[string]int, len(order))
	for i, id := range order {
		sourceOrder[id] = i
	}

	env.argTypes = inference.Infer(env.messages, sorted, path)
	if env.trace {
		env.log("inferred argument types:\n%s", pretty.String(env.argTypes))
	}

	// Pass 2: compile the bodies.
	for _, id := range sorted {
		env.messageID = id
		name := env.mapping[id]
		if expected := messageFunctionName(id); name != expected {
			// The names of generated functions need to be easily
			// predictable, so a sanitized id that did not get the
			// expected name is refused rather than renamed.
			env.addError(&Error{Kind: BadMessageID, Msg: badMessageIDText(id, expected, reverseMapping)},
				env.messages[id])
			fn := elm.NewFunction(name, functionArgs(), module.Scope())
			fn.Body.(*elm.Let).Value = elm.NewCompilationError()
			module.AddFunction(fn, sourceOrder[id])
			continue
		}
		if fn := compileMessage(id, name, module, env); fn != nil {
			module.AddFunction(fn, sourceOrder[id])
		}
	}
	env.messageID = ""

	if err := elm.Simplify(module); err != nil {
		env.errors = append(env.errors, typeMismatchError(err))
	}

	return &Compiled{Module: module, Mapping: env.mapping, ArgTypes: env.argTypes}, env.errors
}

func badMessageIDText(id, expected string, reverseMapping map[string]string) string {
	switch {
	case elm.IsKeyword(expected):
		return fmt.Sprintf("'%s' is not allowed as a message ID because it "+
			"clashes with an Elm keyword. Please choose another ID.", id)
	case elm.IsDefaultImport(expected):
		return fmt.Sprintf("'%s' is not allowed as a message ID because it "+
			"clashes with an Elm default import. Please choose another ID.", id)
	default:
		other, ok := reverseMapping[expected]
		if !ok {
			panic(fmt.Sprintf("no other use of the name %s, yet it was not available", expected))
		}
		return fmt.Sprintf("'%s' is not allowed as a message ID because it "+
			"clashes with another message ID - '%s'. Please choose another ID.", id, other)
	}
}

// compileMessage compiles one message into its function. It returns
// nil, with errors recorded in env, when no usable function can be
// produced.
func compileMessage(id, name string, module *elm.Module, env *compilerEnv) *elm.Function {
	defer env.tr("message %s", id)()
	fn := elm.NewFunction(name, functionArgs(), module.Scope())
	msg := env.messages[id]
	if findCycle(msg, env, map[syntax.Node]bool{}) {
		env.addError(&Error{Kind: CyclicReference, Msg: fmt.Sprintf("Cyclic reference in %s", id)}, msg)
		return nil
	}
	for _, argName := range conflictedArgs(env.argTypes[id]) {
		env.errors = append(env.errors,
			conflictError(argName, env.argTypes[id][argName].(*inference.Conflict)))
	}
	body := fn.Body.(*elm.Let)
	body.Value = compileExpr(msg, body, env)
	if err := elm.Finalize(fn); err != nil {
		env.addError(typeMismatchError(err), msg)
		return nil
	}
	return fn
}

func conflictedArgs(args inference.MessageArgs) []string {
	var names []string
	for name, t := range args {
		if _, ok := t.(*inference.Conflict); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// splitResource indexes the compiled units of a resource: an ordered
// id table of messages, with attributes as their own units under
// compound "parent.attr" ids, and the term table consulted when
// inlining. Junk entries turn into errors straight away.
func splitResource(res *syntax.Resource, env *compilerEnv) (order []string, messages, terms map[string]syntax.Node) {
	messages = map[string]syntax.Node{}
	terms = map[string]syntax.Node{}
	addMessage := func(id string, n syntax.Node) {
		if _, ok := messages[id]; !ok {
			order = append(order, id)
		}
		messages[id] = n
	}
	for _, entry := range res.Entries {
		switch entry := entry.(type) {
		case *syntax.Message:
			if entry.Value != nil {
				addMessage(entry.ID.Name, entry)
			}
			for _, attr := range entry.Attributes {
				id := entry.ID.Name + "." + attr.ID.Name
				addMessage(id, attr)
				terms[id] = attr
			}
		case *syntax.Term:
			id := "-" + entry.ID.Name
			if entry.Value != nil {
				terms[id] = entry
			}
			for _, attr := range entry.Attributes {
				attrID := id + "." + attr.ID.Name
				addMessage(attrID, attr)
				terms[attrID] = attr
			}
		case *syntax.Junk:
			msgs := make([]string, len(entry.Annotations))
			for i, a := range entry.Annotations {
				msgs[i] = a.Message
			}
			env.addError(&Error{Kind: JunkFound, Msg: "Junk found: " + strings.Join(msgs, "; ")}, entry)
		}
	}
	return order, messages, terms
}

// processingOrder decides the order messages are compiled in: after
// the messages they reference where possible, falling back to source
// order once a reference loop makes a clean ordering impossible.
func processingOrder(order []string, messages map[string]syntax.Node) map[string]int {
	callGraph := make(map[string][]string, len(order))
	for _, id := range order {
		var calls []string
		syntax.Walk(messages[id], func(n syntax.Node) {
			var ref string
			switch n := n.(type) {
			case *syntax.MessageReference:
				ref = syntax.ReferenceID(n)
			case *syntax.TermReference:
				if n.Attribute == nil {
					return
				}
				ref = syntax.ReferenceID(n)
			default:
				return
			}
			if _, ok := messages[ref]; ok {
				calls = append(calls, ref)
			}
		})
		callGraph[id] = calls
	}

	type visit struct {
		id        string
		remaining int
	}
	var history []visit
	sawBefore := func(v visit) bool {
		for _, h := range history {
			if h == v {
				return true
			}
		}
		return false
	}

	processed := make([]string, 0, len(order))
	toProcess := append([]string(nil), order...)
	current := ""
	for len(toProcess) > 0 {
		if current == "" {
			current = toProcess[0]
		}
		// Same message with the same amount of work left: we are
		// going in circles. Take the rest in source order; cycle
		// detection reports the problem when the messages compile.
		if sawBefore(visit{current, len(toProcess)}) {
			processed = append(processed, toProcess...)
			break
		}
		history = append(history, visit{current, len(toProcess)})

		next := ""
		for _, c := range callGraph[current] {
			if indexOf(toProcess, c) >= 0 {
				next = c
				break
			}
		}
		if next != "" {
			current = next
			continue
		}
		processed = append(processed, current)
		i := indexOf(toProcess, current)
		toProcess = append(toProcess[:i], toProcess[i+1:]...)
		current = ""
	}

	result := make(map[string]int, len(processed))
	for i, id := range processed {
		result[id] = i
	}
	return result
}

func indexOf(ids []string, id string) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

// findCycle reports whether compiling node would recurse forever. It
// follows references into their targets the same way compilation
// does. Each jump works on a copy of the visited set, so a fragment
// reachable twice along separate paths is fine, while anything
// reachable from itself is a cycle.
func findCycle(n syntax.Node, env *compilerEnv, visited map[syntax.Node]bool) bool {
	if visited[n] {
		return true
	}
	visited[n] = true
	if target := referenceTarget(n, env); target != nil {
		if findCycle(target, env, copyVisited(visited)) {
			return true
		}
	}
	for _, child := range syntax.Children(n) {
		if findCycle(child, env, visited) {
			return true
		}
	}
	return false
}

// referenceTarget resolves a reference the way compilation does:
// attribute references try the compiled units first and then the term
// table; unknown references resolve to nothing and are reported
// during compilation instead.
func referenceTarget(n syntax.Node, env *compilerEnv) syntax.Node {
	switch n := n.(type) {
	case *syntax.MessageReference:
		id := syntax.ReferenceID(n)
		if t, ok := env.messages[id]; ok {
			return t
		}
		if n.Attribute != nil {
			if t, ok := env.terms[id]; ok {
				return t
			}
		}
	case *syntax.TermReference:
		id := syntax.ReferenceID(n)
		if n.Attribute != nil {
			if t, ok := env.messages[id]; ok {
				return t
			}
		}
		if t, ok := env.terms[id]; ok {
			return t
		}
	}
	return nil
}

func copyVisited(visited map[syntax.Node]bool) map[syntax.Node]bool {
	c := make(map[syntax.Node]bool, len(visited))
	for n := range visited {
		c[n] = true
	}
	return c
}

// messageFunctionName converts a message id to the name of its
// generated function: the term sigil is dropped, attribute separators
// become underscores, and hyphenated sections camel case, so
// "hello-html.foo" becomes "helloHtml_foo".
func messageFunctionName(id string) string {
	id = strings.TrimPrefix(id, "-")
	sections := strings.Split(id, ".")
	for i, section := range sections {
		section = strings.TrimRight(section, "_")
		section = strings.TrimRight(section, "-")
		parts := strings.Split(section, "-")
		for j := 1; j < len(parts); j++ {
			parts[j] = titleCase(parts[j])
		}
		sections[i] = strings.Join(parts, "")
	}
	return strings.Join(sections, "_")
}

// titleCase uppercases the first letter of every alphabetic run and
// lowercases the rest, so "big2bad" becomes "Big2Bad".
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

// messageFunctionType is the type of a generated message function.
// Each function gets its own fresh record type, which accumulates the
// argument fields the message body turns out to use.
func messageFunctionType() types.Type {
	return types.FuncOf([]types.Type{localeType, types.NewRecord()}, elm.StringType)
}

func functionArgs() []string { return []string{localeArgName, messageArgsName} }

// mustApply applies arguments the compiler itself built, whose types
// are known to fit the callee.
func mustApply(callee elm.Expr, args ...elm.Expr) elm.Expr {
	call, err := elm.Apply(callee, args, nil)
	if err != nil {
		panic(err)
	}
	return call
}
