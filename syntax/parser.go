// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package syntax

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/elm-fluent/elm-fluent/loc"
)

// A Parser parses FTL resource files.
// Parsing never fails as a whole: entries that cannot be parsed
// become Junk entries and parsing resumes at the next entry start.
type Parser struct {
	locs loc.Files
}

// NewParser returns a new parser with its own location set.
func NewParser() *Parser {
	return &Parser{locs: loc.Files{}}
}

// NewParserWithLocs returns a new parser that registers parsed files
// in the given loc.Files.
func NewParserWithLocs(locs loc.Files) *Parser {
	return &Parser{locs: locs}
}

// Locs returns the location set of all files parsed so far.
func (p *Parser) Locs() loc.Files { return p.locs }

// Parse parses a resource from an io.Reader.
// The first argument is the file path or "" if unspecified.
func (p *Parser) Parse(path string, r io.Reader) (*Resource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseString(path, string(data)), nil
}

// ParseFile parses the resource in the file specified by a path.
func (p *Parser) ParseFile(path string) (*Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(path, f)
}

// ParseString parses a resource from a string.
// Line endings are normalized to \n first; all spans refer to the
// normalized text, which is what gets registered in the location set.
func (p *Parser) ParseString(path, src string) *Resource {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if p.locs != nil {
		p.locs.Add(path, src)
	}
	s := &stream{src: src}
	res := &Resource{Range: loc.Range{0, len(src)}}
	for {
		s.skipBlankBlock()
		if s.eof() {
			break
		}
		res.Entries = append(res.Entries, s.entryOrJunk())
	}
	return res
}

type parseError struct {
	code string
	msg  string
	pos  int
}

func (e *parseError) Error() string { return e.msg }

// A stream is a cursor over the source text of one resource.
type stream struct {
	src string
	pos int
}

const eofByte = byte(0)

func (s *stream) eof() bool { return s.pos >= len(s.src) }

func (s *stream) cur() byte {
	if s.eof() {
		return eofByte
	}
	return s.src[s.pos]
}

func (s *stream) at(i int) byte {
	if i >= len(s.src) {
		return eofByte
	}
	return s.src[i]
}

func (s *stream) atEOL() bool { return s.cur() == '\n' }

func (s *stream) errorf(code, format string, vs ...interface{}) *parseError {
	return &parseError{code: code, msg: fmt.Sprintf(format, vs...), pos: s.pos}
}

func (s *stream) expect(c byte) *parseError {
	if s.cur() != c {
		return s.errorf("E0003", "Expected token: %q", string(c))
	}
	s.pos++
	return nil
}

// expectLineEnd requires the entry to stop at a line break or EOF.
func (s *stream) expectLineEnd() *parseError {
	if s.eof() {
		return nil
	}
	if s.atEOL() {
		s.pos++
		return nil
	}
	return s.errorf("E0003", "Expected token: %q", "␤")
}

// skipBlankInline consumes spaces on the current line
// and returns how many were consumed.
func (s *stream) skipBlankInline() int {
	n := 0
	for s.cur() == ' ' {
		s.pos++
		n++
	}
	return n
}

// skipBlankBlock consumes fully-blank lines and returns how many
// line breaks were consumed. The cursor ends at the start of the
// first non-blank line.
func (s *stream) skipBlankBlock() int {
	n := 0
	for {
		lineStart := s.pos
		s.skipBlankInline()
		if s.atEOL() {
			s.pos++
			n++
			continue
		}
		s.pos = lineStart
		return n
	}
}

// skipBlank consumes any run of spaces and line breaks.
func (s *stream) skipBlank() {
	for s.cur() == ' ' || s.cur() == '\n' {
		s.pos++
	}
}

func isIDStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIDChar(c byte) bool {
	return isIDStart(c) || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (s *stream) isNumberStart() bool {
	if s.cur() == '-' {
		return isDigit(s.at(s.pos + 1))
	}
	return isDigit(s.cur())
}

func (s *stream) entryOrJunk() Entry {
	entryStart := s.pos
	e, err := s.entry()
	if err == nil {
		err = s.expectLineEnd()
		if err == nil {
			return e
		}
	}
	errPos := err.pos
	s.skipToNextEntryStart(entryStart)
	if s.pos < errPos {
		errPos = s.pos
	}
	return &Junk{
		Range:   loc.Range{entryStart, s.pos},
		Content: s.src[entryStart:s.pos],
		Annotations: []Annotation{{
			Range:   loc.Range{errPos, errPos},
			Code:    err.code,
			Message: err.msg,
		}},
	}
}

// skipToNextEntryStart moves the cursor to the first line at or after
// the current position whose first character could begin an entry.
func (s *stream) skipToNextEntryStart(junkStart int) {
	lastNewline := strings.LastIndexByte(s.src[:s.pos], '\n')
	if junkStart < lastNewline {
		s.pos = lastNewline
	}
	for !s.eof() {
		if !s.atEOL() {
			s.pos++
			continue
		}
		s.pos++
		c := s.cur()
		if isIDStart(c) || c == '-' || c == '#' {
			return
		}
	}
}

func (s *stream) entry() (Entry, *parseError) {
	switch {
	case s.cur() == '#':
		return s.comment()
	case s.cur() == '-':
		return s.term()
	case isIDStart(s.cur()):
		return s.message()
	default:
		return nil, s.errorf("E0002", "Expected an entry start")
	}
}

func (s *stream) comment() (Entry, *parseError) {
	start := s.pos
	level := 0
	var content []string
	end := s.pos
	for {
		l := 0
		for s.cur() == '#' && l < 3 {
			l++
			s.pos++
		}
		if level == 0 {
			level = l
		}
		var line string
		if !s.atEOL() && !s.eof() {
			if err := s.expect(' '); err != nil {
				return nil, err
			}
			cs := s.pos
			for !s.atEOL() && !s.eof() {
				s.pos++
			}
			line = s.src[cs:s.pos]
		}
		content = append(content, line)
		end = s.pos
		if s.eof() {
			break
		}
		// Merge a directly following comment line of the same level.
		next := s.pos + 1
		l2 := 0
		for s.at(next+l2) == '#' {
			l2++
		}
		if l2 != level {
			break
		}
		if c := s.at(next + l2); c != ' ' && c != '\n' && c != eofByte {
			break
		}
		s.pos = next
	}
	return &Comment{
		Range:   loc.Range{start, end},
		Level:   level,
		Content: strings.Join(content, "\n"),
	}, nil
}

func (s *stream) message() (Entry, *parseError) {
	start := s.pos
	id, err := s.identifier()
	if err != nil {
		return nil, err
	}
	s.skipBlankInline()
	if err := s.expect('='); err != nil {
		return nil, err
	}
	value, err := s.maybePattern()
	if err != nil {
		return nil, err
	}
	attrs, err := s.attributes()
	if err != nil {
		return nil, err
	}
	if value == nil && len(attrs) == 0 {
		return nil, s.errorf("E0005", "Expected message %q to have a value or attributes", id.Name)
	}
	return &Message{
		Range:      loc.Range{start, s.pos},
		ID:         id,
		Value:      value,
		Attributes: attrs,
	}, nil
}

func (s *stream) term() (Entry, *parseError) {
	start := s.pos
	if err := s.expect('-'); err != nil {
		return nil, err
	}
	id, err := s.identifier()
	if err != nil {
		return nil, err
	}
	s.skipBlankInline()
	if err := s.expect('='); err != nil {
		return nil, err
	}
	value, err := s.maybePattern()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, s.errorf("E0006", "Expected term %q to have a value", "-"+id.Name)
	}
	attrs, err := s.attributes()
	if err != nil {
		return nil, err
	}
	return &Term{
		Range:      loc.Range{start, s.pos},
		ID:         id,
		Value:      value,
		Attributes: attrs,
	}, nil
}

func (s *stream) attributes() ([]*Attribute, *parseError) {
	var attrs []*Attribute
	for {
		save := s.pos
		s.skipBlank()
		if s.cur() != '.' {
			s.pos = save
			return attrs, nil
		}
		start := s.pos
		s.pos++
		id, err := s.identifier()
		if err != nil {
			return nil, err
		}
		s.skipBlankInline()
		if err := s.expect('='); err != nil {
			return nil, err
		}
		value, err := s.maybePattern()
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, s.errorf("E0012", "Expected value")
		}
		attrs = append(attrs, &Attribute{
			Range: loc.Range{start, s.pos},
			ID:    id,
			Value: value,
		})
	}
}

func (s *stream) identifier() (Identifier, *parseError) {
	start := s.pos
	if !isIDStart(s.cur()) {
		return Identifier{}, s.errorf("E0004", "Expected a character from range: %q", "a-zA-Z")
	}
	for isIDChar(s.cur()) {
		s.pos++
	}
	return Identifier{
		Range: loc.Range{start, s.pos},
		Name:  s.src[start:s.pos],
	}, nil
}

// isValueContinuation reports whether the line at the cursor continues
// a block pattern: any indent before a placeable brace, or a non-empty
// indent before a character that cannot begin an attribute or variant.
func (s *stream) isValueContinuation() bool {
	save := s.pos
	defer func() { s.pos = save }()
	indent := s.skipBlankInline()
	if s.cur() == '{' {
		return true
	}
	if indent == 0 {
		return false
	}
	switch s.cur() {
	case '}', '.', '[', '*', '\n', eofByte:
		return false
	}
	return true
}

// maybePattern parses an inline or block pattern if one follows,
// or returns nil, nil if the value is absent.
func (s *stream) maybePattern() (*Pattern, *parseError) {
	save := s.pos
	s.skipBlankInline()
	if !s.atEOL() && !s.eof() {
		return s.pattern(false)
	}
	s.pos = save
	s.skipBlankBlock()
	if s.isValueContinuation() {
		return s.pattern(true)
	}
	s.pos = save
	return nil, nil
}

// indentElement is a pattern element private to the parser: the line
// breaks and indent between block-pattern lines, to be dedented and
// merged into text once the common indent is known.
type indentElement struct {
	loc.Range
	value string
}

func (*indentElement) isPatternElement() {}

func (s *stream) pattern(isBlock bool) (*Pattern, *parseError) {
	var elements []PatternElement
	commonIndent := -1
	start := s.pos
	if isBlock {
		blankStart := s.pos
		n := s.skipBlankInline()
		elements = append(elements, &indentElement{
			Range: loc.Range{blankStart, s.pos},
			value: s.src[blankStart:s.pos],
		})
		commonIndent = n
	}
	for !s.eof() {
		if s.atEOL() {
			blankStart := s.pos
			save := s.pos
			breaks := s.skipBlankBlock()
			if !s.isValueContinuation() {
				s.pos = save
				break
			}
			indentStart := s.pos
			indent := s.skipBlankInline()
			if commonIndent < 0 || indent < commonIndent {
				commonIndent = indent
			}
			elements = append(elements, &indentElement{
				Range: loc.Range{blankStart, s.pos},
				value: strings.Repeat("\n", breaks) + s.src[indentStart:s.pos],
			})
			continue
		}
		if s.cur() == '}' {
			return nil, s.errorf("E0027", "Unbalanced closing brace in TextElement")
		}
		if s.cur() == '{' {
			pl, err := s.placeable()
			if err != nil {
				return nil, err
			}
			elements = append(elements, pl)
			continue
		}
		elements = append(elements, s.textElement())
	}
	dedented := dedent(elements, commonIndent)
	end := start
	if n := len(dedented); n > 0 {
		start = dedented[0].GetRange()[0]
		end = dedented[n-1].GetRange()[1]
	}
	return &Pattern{Range: loc.Range{start, end}, Elements: dedented}, nil
}

func (s *stream) textElement() *Text {
	start := s.pos
	for !s.eof() && !s.atEOL() && s.cur() != '{' && s.cur() != '}' {
		s.pos++
	}
	return &Text{
		Range: loc.Range{start, s.pos},
		Value: s.src[start:s.pos],
	}
}

// dedent strips the common indent from the indent elements of a block
// pattern, merges adjacent text, and trims trailing whitespace from
// the final text element.
func dedent(elements []PatternElement, commonIndent int) []PatternElement {
	var out []PatternElement
	for _, e := range elements {
		if ind, ok := e.(*indentElement); ok {
			v := ind.value
			if commonIndent > 0 && commonIndent <= len(v) {
				v = v[:len(v)-commonIndent]
			}
			if v == "" {
				continue
			}
			e = &Text{Range: ind.Range, Value: v}
		}
		if t, ok := e.(*Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok {
				prev.Value += t.Value
				prev.Range[1] = t.Range[1]
				continue
			}
		}
		out = append(out, e)
	}
	if n := len(out); n > 0 {
		if t, ok := out[n-1].(*Text); ok {
			t.Value = strings.TrimRight(t.Value, " \t\n\r")
			if t.Value == "" {
				out = out[:n-1]
			}
		}
	}
	return out
}

func (s *stream) placeable() (*Placeable, *parseError) {
	start := s.pos
	if err := s.expect('{'); err != nil {
		return nil, err
	}
	s.skipBlank()
	expr, err := s.expression()
	if err != nil {
		return nil, err
	}
	if err := s.expect('}'); err != nil {
		return nil, err
	}
	return &Placeable{
		Range:      loc.Range{start, s.pos},
		Expression: expr,
	}, nil
}

func (s *stream) expression() (Expression, *parseError) {
	selector, err := s.inlineExpression()
	if err != nil {
		return nil, err
	}
	s.skipBlank()
	if s.cur() != '-' || s.at(s.pos+1) != '>' {
		return selector, nil
	}
	switch sel := selector.(type) {
	case *MessageReference:
		if sel.Attribute == nil {
			return nil, s.errorf("E0016", "Message references cannot be used as selectors")
		}
		return nil, s.errorf("E0018", "Attributes of messages cannot be used as selectors")
	case *TermReference:
		if sel.Attribute == nil {
			return nil, s.errorf("E0017", "Terms cannot be used as selectors")
		}
	case *Placeable:
		return nil, s.errorf("E0028", "Expected an inline expression")
	}
	s.pos += 2
	s.skipBlankInline()
	if err := s.expectLineEnd(); err != nil {
		return nil, err
	}
	variants, perr := s.variants()
	if perr != nil {
		return nil, perr
	}
	start := selector.GetRange()[0]
	return &SelectExpression{
		Range:    loc.Range{start, s.pos},
		Selector: selector,
		Variants: variants,
	}, nil
}

func (s *stream) isVariantStart() bool {
	if s.cur() == '*' {
		return s.at(s.pos+1) == '['
	}
	return s.cur() == '['
}

func (s *stream) variants() ([]*Variant, *parseError) {
	var variants []*Variant
	hasDefault := false
	s.skipBlank()
	for s.isVariantStart() {
		start := s.pos
		def := false
		if s.cur() == '*' {
			if hasDefault {
				return nil, s.errorf("E0015", "Only one variant can be marked as default (*)")
			}
			s.pos++
			def = true
			hasDefault = true
		}
		if err := s.expect('['); err != nil {
			return nil, err
		}
		s.skipBlank()
		key, err := s.variantKey()
		if err != nil {
			return nil, err
		}
		s.skipBlank()
		if err := s.expect(']'); err != nil {
			return nil, err
		}
		value, err := s.maybePattern()
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, s.errorf("E0012", "Expected value")
		}
		variants = append(variants, &Variant{
			Range:   loc.Range{start, s.pos},
			Key:     key,
			Value:   value,
			Default: def,
		})
		s.skipBlank()
	}
	if len(variants) == 0 {
		return nil, s.errorf("E0011", "Expected at least one variant after \"->\"")
	}
	if !hasDefault {
		return nil, s.errorf("E0010", "Expected one of the variants to be marked as default (*)")
	}
	return variants, nil
}

func (s *stream) variantKey() (VariantKey, *parseError) {
	if s.eof() {
		return nil, s.errorf("E0013", "Expected variant key")
	}
	if isDigit(s.cur()) || s.cur() == '-' {
		return s.number()
	}
	return s.identifier()
}

func (s *stream) inlineExpression() (Expression, *parseError) {
	switch {
	case s.cur() == '{':
		return s.placeable()
	case s.isNumberStart():
		return s.number()
	case s.cur() == '"':
		return s.stringLiteral()
	case s.cur() == '$':
		start := s.pos
		s.pos++
		id, err := s.identifier()
		if err != nil {
			return nil, err
		}
		return &VariableReference{Range: loc.Range{start, s.pos}, ID: id}, nil
	case s.cur() == '-':
		start := s.pos
		s.pos++
		id, err := s.identifier()
		if err != nil {
			return nil, err
		}
		var attr *Identifier
		if s.cur() == '.' {
			s.pos++
			a, err := s.identifier()
			if err != nil {
				return nil, err
			}
			attr = &a
		}
		var args *CallArguments
		save := s.pos
		s.skipBlank()
		if s.cur() == '(' {
			a, err := s.callArguments()
			if err != nil {
				return nil, err
			}
			args = a
		} else {
			s.pos = save
		}
		return &TermReference{
			Range:     loc.Range{start, s.pos},
			ID:        id,
			Attribute: attr,
			Arguments: args,
		}, nil
	case isIDStart(s.cur()):
		start := s.pos
		id, err := s.identifier()
		if err != nil {
			return nil, err
		}
		save := s.pos
		s.skipBlank()
		if s.cur() == '(' {
			if !functionName.MatchString(id.Name) {
				return nil, s.errorf("E0008", "The callee has to be an upper-case identifier or a term")
			}
			args, err := s.callArguments()
			if err != nil {
				return nil, err
			}
			return &FunctionReference{
				Range:     loc.Range{start, s.pos},
				ID:        id,
				Arguments: args,
			}, nil
		}
		s.pos = save
		var attr *Identifier
		if s.cur() == '.' {
			s.pos++
			a, err := s.identifier()
			if err != nil {
				return nil, err
			}
			attr = &a
		}
		return &MessageReference{
			Range:     loc.Range{start, s.pos},
			ID:        id,
			Attribute: attr,
		}, nil
	default:
		return nil, s.errorf("E0028", "Expected an inline expression")
	}
}

var functionName = regexp.MustCompile(`^[A-Z][A-Z0-9_-]*$`)

func (s *stream) callArguments() (*CallArguments, *parseError) {
	start := s.pos
	if err := s.expect('('); err != nil {
		return nil, err
	}
	s.skipBlank()
	var positional []Expression
	var named []*NamedArgument
	seen := map[string]bool{}
	for {
		if s.cur() == ')' || s.eof() {
			break
		}
		arg, namedArg, err := s.callArgument()
		if err != nil {
			return nil, err
		}
		if namedArg != nil {
			if seen[namedArg.Name.Name] {
				return nil, s.errorf("E0022", "Named arguments must be unique")
			}
			seen[namedArg.Name.Name] = true
			named = append(named, namedArg)
		} else {
			if len(named) > 0 {
				return nil, s.errorf("E0021", "Positional arguments must not follow named arguments")
			}
			positional = append(positional, arg)
		}
		s.skipBlank()
		if s.cur() != ',' {
			break
		}
		s.pos++
		s.skipBlank()
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	return &CallArguments{
		Range:      loc.Range{start, s.pos},
		Positional: positional,
		Named:      named,
	}, nil
}

func (s *stream) callArgument() (Expression, *NamedArgument, *parseError) {
	expr, err := s.inlineExpression()
	if err != nil {
		return nil, nil, err
	}
	s.skipBlank()
	if s.cur() != ':' {
		return expr, nil, nil
	}
	ref, ok := expr.(*MessageReference)
	if !ok || ref.Attribute != nil {
		return nil, nil, s.errorf("E0009", "The argument name has to be a simple identifier")
	}
	s.pos++
	s.skipBlank()
	value, lerr := s.literal()
	if lerr != nil {
		return nil, nil, lerr
	}
	return nil, &NamedArgument{
		Range: loc.Range{ref.Range[0], s.pos},
		Name:  ref.ID,
		Value: value,
	}, nil
}

func (s *stream) literal() (Expression, *parseError) {
	if s.isNumberStart() {
		return s.number()
	}
	if s.cur() == '"' {
		return s.stringLiteral()
	}
	return nil, s.errorf("E0014", "Expected literal")
}

func (s *stream) number() (*NumberLiteral, *parseError) {
	start := s.pos
	if s.cur() == '-' {
		s.pos++
	}
	if err := s.digits(); err != nil {
		return nil, err
	}
	if s.cur() == '.' {
		s.pos++
		if err := s.digits(); err != nil {
			return nil, err
		}
	}
	return &NumberLiteral{
		Range:  loc.Range{start, s.pos},
		Source: s.src[start:s.pos],
	}, nil
}

func (s *stream) digits() *parseError {
	if !isDigit(s.cur()) {
		return s.errorf("E0004", "Expected a character from range: %q", "0-9")
	}
	for isDigit(s.cur()) {
		s.pos++
	}
	return nil
}

func (s *stream) stringLiteral() (*StringLiteral, *parseError) {
	start := s.pos
	if err := s.expect('"'); err != nil {
		return nil, err
	}
	rawStart := s.pos
	var parsed strings.Builder
	for !s.eof() && s.cur() != '"' && !s.atEOL() {
		if s.cur() == '\\' {
			r, err := s.escape()
			if err != nil {
				return nil, err
			}
			parsed.WriteRune(r)
			continue
		}
		parsed.WriteByte(s.cur())
		s.pos++
	}
	if s.cur() != '"' {
		return nil, s.errorf("E0020", "Unterminated string expression")
	}
	raw := s.src[rawStart:s.pos]
	s.pos++
	return &StringLiteral{
		Range:  loc.Range{start, s.pos},
		Value:  raw,
		Parsed: parsed.String(),
	}, nil
}

func (s *stream) escape() (rune, *parseError) {
	s.pos++ // backslash
	switch c := s.cur(); c {
	case '"', '\\':
		s.pos++
		return rune(c), nil
	case 'u':
		return s.unicodeEscape(4)
	case 'U':
		return s.unicodeEscape(6)
	default:
		return 0, s.errorf("E0025", "Unknown escape sequence: %q", "\\"+string(c))
	}
}

func (s *stream) unicodeEscape(digits int) (rune, *parseError) {
	kind := s.cur()
	s.pos++
	start := s.pos
	cp := 0
	for i := 0; i < digits; i++ {
		d := hexDigit(s.cur())
		if d < 0 {
			seq := "\\" + string(kind) + s.src[start:s.pos]
			return 0, s.errorf("E0026", "Invalid Unicode escape sequence: %q", seq)
		}
		cp = cp*16 + d
		s.pos++
	}
	if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return '�', nil
	}
	return rune(cp), nil
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
