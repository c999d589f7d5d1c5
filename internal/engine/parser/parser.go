// Package parser provides a single-buffer regular expression substitution
// engine that tracks a cursor for sequential matching.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/subfix/internal/engine/pattern"
)

// ErrNoMoreMatches is returned by Next when the pattern has no further
// match at or after the cursor. It is an expected terminal condition.
var ErrNoMoreMatches = errors.New("no more matches")

// ErrNoPattern is returned when matching is attempted before SetRegex.
var ErrNoPattern = errors.New("no pattern set")

// Parser applies one compiled pattern at a time to one text buffer.
// A Parser is not safe for concurrent use.
type Parser struct {
	text     string
	pos      int
	re       *pattern.Regexp
	template string
}

// New creates a parser with an empty buffer.
func New() *Parser {
	return &Parser{}
}

// SetText replaces the buffer and resets the cursor.
func (p *Parser) SetText(s string) {
	p.text = s
	p.pos = 0
}

// Text returns the current buffer contents.
func (p *Parser) Text() string {
	return p.text
}

// Pos returns the cursor position as a byte offset.
func (p *Parser) Pos() int {
	return p.pos
}

// SetPos moves the cursor, clamped to the buffer.
func (p *Parser) SetPos(pos int) {
	p.pos = max(0, min(pos, len(p.text)))
}

// SetRegex compiles source with flags (default flags included) and moves
// the cursor to pos. The replacement template is cleared. A source that
// does not compile is reported as pattern.ErrBadPattern.
func (p *Parser) SetRegex(source string, flags pattern.Flags, pos int) error {
	re, err := pattern.Compile(source, flags)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", pattern.ErrBadPattern, source, err)
	}
	p.re = re
	p.template = ""
	p.SetPos(pos)
	return nil
}

// SetCompiled installs an already compiled pattern and its expansion
// template and moves the cursor to pos.
func (p *Parser) SetCompiled(c pattern.Compiled, pos int) {
	p.re = c.Regexp
	p.template = c.Template
	p.SetPos(pos)
}

// SetReplacement sets the replacement template used by ReplaceAll. Group
// references are checked against the current pattern.
func (p *Parser) SetReplacement(repl string) error {
	if p.re == nil {
		return ErrNoPattern
	}
	tmpl, err := pattern.Template(repl, p.re)
	if err != nil {
		return fmt.Errorf("%w: replacement %q: %v", pattern.ErrBadPattern, repl, err)
	}
	p.template = tmpl
	return nil
}

// Next returns the span of the next match starting at or after the cursor
// and advances the cursor past it. Matching always sees the whole buffer
// so anchors and word boundaries keep their meaning.
func (p *Parser) Next() (start, end int, err error) {
	if p.re == nil {
		return 0, 0, ErrNoPattern
	}
	if p.pos > len(p.text) {
		return 0, 0, ErrNoMoreMatches
	}
	for _, m := range p.re.FindAllStringIndex(p.text, -1) {
		if m[0] < p.pos {
			continue
		}
		p.pos = m[1]
		if m[0] == m[1] {
			// Step over an empty match so the next call moves on.
			p.pos = p.advance(m[1])
		}
		return m[0], m[1], nil
	}
	p.pos = len(p.text) + 1
	return 0, 0, ErrNoMoreMatches
}

func (p *Parser) advance(pos int) int {
	if pos >= len(p.text) {
		return len(p.text) + 1
	}
	_, size := utf8.DecodeRuneInString(p.text[pos:])
	return pos + size
}

// Replace substitutes text[start:end] with s. A cursor beyond the edited
// span is shifted by the change in length.
func (p *Parser) Replace(start, end int, s string) {
	p.text = p.text[:start] + s + p.text[end:]
	if p.pos >= end {
		p.pos += len(s) - (end - start)
	}
}

// ReplaceAll substitutes every match of the current pattern across the
// whole buffer and returns the number of substitutions.
func (p *Parser) ReplaceAll() int {
	if p.re == nil {
		return 0
	}
	matches := p.re.FindAllStringSubmatchIndex(p.text, -1)
	if len(matches) == 0 {
		return 0
	}

	var b strings.Builder
	last := 0
	var dst []byte
	for _, m := range matches {
		b.WriteString(p.text[last:m[0]])
		dst = p.re.ExpandString(dst[:0], p.template, p.text, m)
		b.Write(dst)
		last = m[1]
	}
	b.WriteString(p.text[last:])

	p.text = b.String()
	p.pos = 0
	return len(matches)
}
