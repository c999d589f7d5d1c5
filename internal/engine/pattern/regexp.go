package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r is a word character: a letter, a number or
// an underscore. Word boundaries in patterns use the same definition.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

type assertKind int

const (
	wordBoundary assertKind = iota
	notWordBoundary
	lineStart
	textStart
)

// assertion is a zero-width condition checked after matching. It is
// compiled as an empty capture group that records where it applied.
type assertion struct {
	kind  assertKind
	group int
}

// Regexp is a compiled pattern. Its methods follow regexp.Regexp, but
// \b and \B see Unicode word characters as defined by IsWordRune, and
// group numbers are those written in the source.
type Regexp struct {
	re      *regexp.Regexp
	source  string
	asserts []assertion

	// groups maps source group n to submatch index groups[n-1].
	groups []int
}

// String returns the source the pattern was compiled from.
func (r *Regexp) String() string {
	return r.source
}

// NumSubexp returns the number of groups written in the source.
func (r *Regexp) NumSubexp() int {
	return len(r.groups)
}

// SubexpIndex returns the source number of the group called name, or -1.
func (r *Regexp) SubexpIndex(name string) int {
	i := r.re.SubexpIndex(name)
	if i < 0 {
		return -1
	}
	for n, g := range r.groups {
		if g == i {
			return n + 1
		}
	}
	return -1
}

// submatch returns the submatch index of source group n.
func (r *Regexp) submatch(n int) int {
	if n == 0 {
		return 0
	}
	return r.groups[n-1]
}

// MatchString reports whether s contains a match.
func (r *Regexp) MatchString(s string) bool {
	return r.find(s, 0) != nil
}

// FindAllStringIndex returns the spans of up to n successive
// non-overlapping matches; n < 0 means all.
func (r *Regexp) FindAllStringIndex(s string, n int) [][]int {
	matches := r.FindAllStringSubmatchIndex(s, n)
	for i, m := range matches {
		matches[i] = m[:2]
	}
	return matches
}

// FindAllStringSubmatchIndex returns up to n successive non-overlapping
// matches with their submatch positions; n < 0 means all. The positions
// are meant for ExpandString.
func (r *Regexp) FindAllStringSubmatchIndex(s string, n int) [][]int {
	if len(r.asserts) == 0 {
		return r.re.FindAllStringSubmatchIndex(s, n)
	}

	var out [][]int
	pos, prevEnd := 0, -1
	for pos <= len(s) && (n < 0 || len(out) < n) {
		m := r.find(s, pos)
		if m == nil {
			break
		}
		// An empty match abutting the previous match is skipped.
		if m[0] == m[1] && m[0] == prevEnd {
			pos = nextRune(s, m[0])
			continue
		}
		out = append(out, m)
		prevEnd = m[1]
		if m[1] > m[0] {
			pos = m[1]
		} else {
			pos = nextRune(s, m[1])
		}
	}
	return out
}

// ExpandString appends template to dst with the submatches of match
// substituted.
func (r *Regexp) ExpandString(dst []byte, template, src string, match []int) []byte {
	return r.re.ExpandString(dst, template, src, match)
}

// ReplaceAllString replaces every match in src with the expanded template.
func (r *Regexp) ReplaceAllString(src, template string) string {
	matches := r.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src
	}
	var b strings.Builder
	var dst []byte
	last := 0
	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		dst = r.re.ExpandString(dst[:0], template, src, m)
		b.Write(dst)
		last = m[1]
	}
	b.WriteString(src[last:])
	return b.String()
}

// find returns the leftmost match starting at or after pos whose
// assertions hold. Searching a suffix of s loses the left context, which
// only the recorded assertions depend on.
func (r *Regexp) find(s string, pos int) []int {
	if len(r.asserts) == 0 && pos == 0 {
		return r.re.FindStringSubmatchIndex(s)
	}
	for pos <= len(s) {
		m := r.re.FindStringSubmatchIndex(s[pos:])
		if m == nil {
			return nil
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += pos
			}
		}
		if r.holds(s, m) {
			return m
		}
		pos = nextRune(s, m[0])
	}
	return nil
}

func (r *Regexp) holds(s string, m []int) bool {
	for _, a := range r.asserts {
		p := m[2*a.group]
		if p < 0 {
			continue
		}
		switch a.kind {
		case wordBoundary:
			if wordBefore(s, p) == wordAfter(s, p) {
				return false
			}
		case notWordBoundary:
			if wordBefore(s, p) != wordAfter(s, p) {
				return false
			}
		case lineStart:
			if p > 0 && s[p-1] != '\n' {
				return false
			}
		case textStart:
			if p != 0 {
				return false
			}
		}
	}
	return true
}

func wordBefore(s string, p int) bool {
	if p == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:p])
	return IsWordRune(r)
}

func wordAfter(s string, p int) bool {
	if p >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[p:])
	return IsWordRune(r)
}

func nextRune(s string, p int) int {
	if p >= len(s) {
		return len(s) + 1
	}
	_, size := utf8.DecodeRuneInString(s[p:])
	return p + size
}
