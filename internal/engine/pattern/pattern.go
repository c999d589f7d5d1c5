package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBadPattern indicates a pattern source or replacement template that
// cannot be compiled.
var ErrBadPattern = errors.New("bad pattern")

// Error identifies the offending pattern of a failed compilation.
type Error struct {
	Index  int    // Position in the table
	Source string // Pattern source
	Err    error  // Underlying cause
}

func (e *Error) Error() string {
	return fmt.Sprintf("pattern %d %q: %v", e.Index, e.Source, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrBadPattern, e.Err}
}

// CapitalizeMode selects where a capitalization pattern acts.
type CapitalizeMode int

const (
	// CapitalizeNone leaves matches alone.
	CapitalizeNone CapitalizeMode = iota
	// CapitalizeStart capitalizes the first word character from the match start.
	CapitalizeStart
	// CapitalizeAfter capitalizes the first word character after the match end.
	CapitalizeAfter
)

// String returns the mode name as written in pattern files.
func (m CapitalizeMode) String() string {
	switch m {
	case CapitalizeStart:
		return "start"
	case CapitalizeAfter:
		return "after"
	default:
		return "none"
	}
}

// ParseCapitalizeMode parses a mode name. The empty string is CapitalizeNone.
func ParseCapitalizeMode(s string) (CapitalizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CapitalizeNone, nil
	case "start":
		return CapitalizeStart, nil
	case "after":
		return CapitalizeAfter, nil
	default:
		return CapitalizeNone, fmt.Errorf("unknown capitalize mode %q", s)
	}
}

// Pattern is a single correction rule.
type Pattern struct {
	Source      string
	Flags       Flags
	Replacement string
	Enabled     bool
	Repeat      bool
	Capitalize  CapitalizeMode
	Description string
}

// Table is an ordered list of patterns.
type Table []Pattern

// Enabled returns the enabled patterns in table order.
func (t Table) Enabled() Table {
	out := make(Table, 0, len(t))
	for _, p := range t {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Compiled is an enabled pattern with its compiled regexp and expansion
// template.
type Compiled struct {
	Pattern

	// Index is the position of the pattern in its table.
	Index int

	// Regexp is the compiled source, default flags included.
	Regexp *Regexp

	// Template is the replacement rewritten for Regexp.ExpandString.
	Template string
}

// Compile compiles every enabled pattern of the table. Nothing is returned
// unless all of them compile; the error is an *Error naming the first
// pattern that failed.
func (t Table) Compile() ([]Compiled, error) {
	out := make([]Compiled, 0, len(t))
	for i, p := range t {
		if !p.Enabled {
			continue
		}
		re, err := Compile(p.Source, p.Flags)
		if err != nil {
			return nil, &Error{Index: i, Source: p.Source, Err: err}
		}
		tmpl, err := Template(p.Replacement, re)
		if err != nil {
			return nil, &Error{Index: i, Source: p.Source, Err: err}
		}
		out = append(out, Compiled{Pattern: p, Index: i, Regexp: re, Template: tmpl})
	}
	return out, nil
}

// Compile compiles source with flags plus DefaultFlags.
func Compile(source string, flags Flags) (*Regexp, error) {
	flags |= DefaultFlags
	expr, asserts, groups := translate(source, flags)
	if prefix := flags.inline(); prefix != "" {
		expr = prefix + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regexp{re: re, source: source, asserts: asserts, groups: groups}, nil
}

// Unicode replacements for the Perl classes.
const (
	uniWord     = `\p{L}\p{N}_`
	uniSpace    = `\s\v\p{Z}\x{85}\x{1c}-\x{1f}`
	uniDigit    = `\p{Nd}`
	uniNotDigit = `\P{Nd}`
)

// translate rewrites the parts of source that differ between pattern
// files and RE2. Anchors and word boundaries are followed by an empty
// group whose position is checked after matching; groups reports the
// submatch index of every group written in source.
func translate(source string, flags Flags) (expr string, asserts []assertion, groups []int) {
	unicode := flags&Unicode != 0
	var b strings.Builder
	b.Grow(len(source))

	n := 0
	assert := func(kind assertKind) {
		n++
		asserts = append(asserts, assertion{kind: kind, group: n})
		b.WriteString("()")
	}
	start := textStart
	if flags&Multiline != 0 {
		start = lineStart
	}

	inClass := false
	classStart := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '\\' && i+1 < len(source):
			next := source[i+1]
			i++
			switch {
			case next == 'Z' && !inClass:
				b.WriteString(`\z`)
			case next == 'A' && !inClass:
				b.WriteString(`\A`)
				assert(textStart)
			case next == 'b' && inClass:
				b.WriteString(`\x08`)
			case next == 'b':
				assert(wordBoundary)
			case next == 'B' && !inClass:
				assert(notWordBoundary)
			case unicode && next == 'w':
				if inClass {
					b.WriteString(uniWord)
				} else {
					b.WriteString("[" + uniWord + "]")
				}
			case unicode && next == 'W' && !inClass:
				b.WriteString("[^" + uniWord + "]")
			case unicode && next == 's':
				if inClass {
					b.WriteString(uniSpace)
				} else {
					b.WriteString("[" + uniSpace + "]")
				}
			case unicode && next == 'S' && !inClass:
				b.WriteString("[^" + uniSpace + "]")
			case unicode && next == 'd':
				b.WriteString(uniDigit)
			case unicode && next == 'D' && !inClass:
				b.WriteString(uniNotDigit)
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		case c == '^' && !inClass:
			b.WriteByte(c)
			assert(start)
		case c == '(' && !inClass:
			b.WriteByte(c)
			rest := source[i+1:]
			named := strings.HasPrefix(rest, "?P<") ||
				(strings.HasPrefix(rest, "?<") && !strings.HasPrefix(rest, "?<=") && !strings.HasPrefix(rest, "?<!"))
			if named || !strings.HasPrefix(rest, "?") {
				n++
				groups = append(groups, n)
			}
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			if i+1 < len(source) && source[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
			classStart = i + 1
		case c == '[' && inClass && strings.HasPrefix(source[i:], "[:"):
			end := strings.Index(source[i+2:], ":]")
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(source[i : i+2+end+2])
			i += 2 + end + 1
		case c == ']' && inClass && i != classStart:
			inClass = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), asserts, groups
}
