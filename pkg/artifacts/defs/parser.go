package defs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

// parser is a single-pass scanner over a definitions file. Records start
// at "@field(" and end at the balanced closing paren; anything between
// records is ignored so surrounding legacy source survives a parse.
type parser struct {
	data      []byte
	file      string
	pos       int
	line      int
	lineStart int
}

func newParser(data []byte, file string) *parser {
	return &parser{data: data, file: file, line: 1}
}

func (p *parser) parse() ([]registry.Field, error) {
	var fields []registry.Field
	declared := make(map[string]int) // key -> line first declared

	for p.pos < len(p.data) {
		switch {
		case p.data[p.pos] == '#':
			p.skipComment()
		case p.hasPrefix("@field"):
			line := p.line
			field, err := p.parseRecord()
			if err != nil {
				return nil, err
			}
			if first, dup := declared[field.Key]; dup {
				return nil, p.errorf(line, "duplicate field key %q (first declared on line %d)", field.Key, first)
			}
			declared[field.Key] = line
			fields = append(fields, field)
		default:
			p.advance()
		}
	}

	return fields, nil
}

// parseRecord consumes one @field(...) record. The position is at '@'.
func (p *parser) parseRecord() (registry.Field, error) {
	var field registry.Field
	start := p.line
	p.pos += len("@field")
	p.skipTrivia()

	if p.pos >= len(p.data) || p.data[p.pos] != '(' {
		return field, p.errorf(start, "expected '(' after @field")
	}
	p.advance()

	seen := make(map[string]bool)
	for {
		p.skipTrivia()
		if p.pos >= len(p.data) {
			return field, p.errorf(start, "unterminated @field record")
		}
		if p.data[p.pos] == ')' {
			p.advance()
			break
		}

		argLine := p.line
		name, err := p.parseIdent()
		if err != nil {
			return field, err
		}
		if seen[name] {
			return field, p.errorf(argLine, "duplicate argument %q", name)
		}
		seen[name] = true

		p.skipTrivia()
		if p.pos >= len(p.data) || p.data[p.pos] != '=' {
			return field, p.errorf(argLine, "expected '=' after argument %q", name)
		}
		p.advance()
		p.skipTrivia()

		val, err := p.parseValue()
		if err != nil {
			return field, err
		}
		if err := setAttribute(&field, name, val, argLine, p); err != nil {
			return field, err
		}

		p.skipTrivia()
		if p.pos >= len(p.data) {
			return field, p.errorf(start, "unterminated @field record")
		}
		switch p.data[p.pos] {
		case ',':
			p.advance()
		case ')':
			// Closing paren handled at the top of the loop.
		default:
			return field, p.errorf(p.line, "expected ',' or ')' after argument %q", name)
		}
	}

	for _, required := range []string{"key", "column", "kind"} {
		if !seen[required] {
			return field, p.errorf(start, "record is missing required argument %q", required)
		}
	}

	return field, nil
}

// value is a parsed argument value.
type value struct {
	str     string
	num     int
	boolean bool
	isStr   bool
	isNum   bool
	isBool  bool
	isIdent bool
}

func (p *parser) parseValue() (value, error) {
	if p.pos >= len(p.data) {
		return value{}, p.errorf(p.line, "expected a value")
	}

	switch c := p.data[p.pos]; {
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return value{}, err
		}
		return value{str: s, isStr: true}, nil
	case c == '-' || (c >= '0' && c <= '9'):
		start := p.pos
		if c == '-' {
			p.advance()
		}
		for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
			p.advance()
		}
		n, err := strconv.Atoi(string(p.data[start:p.pos]))
		if err != nil {
			return value{}, p.errorf(p.line, "invalid integer %q", string(p.data[start:p.pos]))
		}
		return value{num: n, isNum: true}, nil
	default:
		ident, err := p.parseIdent()
		if err != nil {
			return value{}, err
		}
		switch strings.ToLower(ident) {
		case "true":
			return value{boolean: true, isBool: true}, nil
		case "false":
			return value{boolean: false, isBool: true}, nil
		}
		return value{str: ident, isIdent: true}, nil
	}
}

// parseString consumes a double-quoted string with \" and \\ escapes.
func (p *parser) parseString() (string, error) {
	line := p.line
	p.advance() // opening quote

	var b strings.Builder
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch c {
		case '"':
			p.advance()
			return b.String(), nil
		case '\\':
			p.advance()
			if p.pos >= len(p.data) {
				return "", p.errorf(line, "unterminated string literal")
			}
			switch p.data[p.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				return "", p.errorf(p.line, "unsupported escape \\%c", p.data[p.pos])
			}
			p.advance()
		default:
			b.WriteByte(c)
			p.advance()
		}
	}
	return "", p.errorf(line, "unterminated string literal")
}

func (p *parser) parseIdent() (string, error) {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (p.pos > start && c >= '0' && c <= '9') {
			p.advance()
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf(p.line, "expected an identifier")
	}
	return string(p.data[start:p.pos]), nil
}

// skipTrivia skips whitespace, newlines, and comments inside a record.
func (p *parser) skipTrivia() {
	for p.pos < len(p.data) {
		switch c := p.data[p.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.advance()
		case c == '#':
			p.skipComment()
		default:
			return
		}
	}
}

// skipComment skips a #-to-end-of-line comment.
func (p *parser) skipComment() {
	for p.pos < len(p.data) && p.data[p.pos] != '\n' {
		p.pos++
	}
}

// advance moves one byte forward, tracking line numbers.
func (p *parser) advance() {
	if p.data[p.pos] == '\n' {
		p.line++
		p.lineStart = p.pos + 1
	}
	p.pos++
}

// hasPrefix reports whether the input at the current position starts the
// given token, not followed by another identifier character.
func (p *parser) hasPrefix(token string) bool {
	if p.pos+len(token) > len(p.data) {
		return false
	}
	if string(p.data[p.pos:p.pos+len(token)]) != token {
		return false
	}
	if p.pos+len(token) < len(p.data) {
		c := p.data[p.pos+len(token)]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func (p *parser) errorf(line int, format string, args ...any) error {
	e := errors.NewParseError(SourceName, p.file, line, fmt.Sprintf(format, args...))
	e.Column = p.pos - p.lineStart + 1
	return e
}

// setAttribute assigns a parsed value to the named field attribute.
func setAttribute(f *registry.Field, name string, v value, line int, p *parser) error {
	wantString := func() (string, error) {
		if !v.isStr {
			return "", p.errorf(line, "argument %q expects a quoted string", name)
		}
		return v.str, nil
	}
	wantBool := func() (bool, error) {
		if !v.isBool {
			return false, p.errorf(line, "argument %q expects a boolean", name)
		}
		return v.boolean, nil
	}

	var err error
	switch name {
	case "key":
		f.Key, err = wantString()
	case "column":
		f.Column, err = wantString()
	case "kind":
		var raw string
		switch {
		case v.isIdent:
			raw = v.str
		case v.isStr:
			raw = v.str
		default:
			return p.errorf(line, "argument %q expects a kind identifier", name)
		}
		kind, kerr := registry.ParseKind(raw)
		if kerr != nil {
			return p.errorf(line, "unknown kind %q", raw)
		}
		f.Kind = kind
	case "label":
		f.Label, err = wantString()
	case "description":
		f.Description, err = wantString()
	case "default":
		f.Default, err = wantString()
	case "group":
		f.Group, err = wantString()
	case "since":
		f.Since, err = wantString()
	case "width":
		if !v.isNum {
			return p.errorf(line, "argument %q expects an integer", name)
		}
		f.Width = v.num
	case "editable":
		f.Editable, err = wantBool()
	case "visible":
		f.Visible, err = wantBool()
	case "sortable":
		f.Sortable, err = wantBool()
	case "searchable":
		f.Searchable, err = wantBool()
	default:
		return p.errorf(line, "unknown argument %q", name)
	}
	return err
}
