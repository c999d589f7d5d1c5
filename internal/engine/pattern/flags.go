package pattern

import (
	"fmt"
	"strings"
)

// Flags is a set of regular expression flags.
type Flags uint8

const (
	// IgnoreCase matches letters case-insensitively.
	IgnoreCase Flags = 1 << iota
	// Multiline makes ^ and $ match at line boundaries.
	Multiline
	// DotAll lets . match a newline.
	DotAll
	// Unicode makes \w, \W, \d, \D, \s and \S match Unicode classes.
	Unicode
)

// DefaultFlags are added at every compile site so that all patterns see
// subtitle text the same way.
const DefaultFlags = Multiline | DotAll | Unicode

var flagNames = []struct {
	flag  Flags
	names []string
}{
	{IgnoreCase, []string{"ignorecase", "i"}},
	{Multiline, []string{"multiline", "m"}},
	{DotAll, []string{"dotall", "s"}},
	{Unicode, []string{"unicode", "u"}},
}

// ParseFlags parses a list of flag names such as "IGNORECASE" or "i".
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			for _, n := range fn.names {
				if n == key {
					f |= fn.flag
					found = true
				}
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown flag %q", name)
		}
	}
	return f, nil
}

// Names returns the canonical names of the flags in f.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, strings.ToUpper(fn.names[0]))
		}
	}
	return out
}

// inline returns the RE2 inline flag group for f.
func (f Flags) inline() string {
	var b strings.Builder
	if f&IgnoreCase != 0 {
		b.WriteByte('i')
	}
	if f&Multiline != 0 {
		b.WriteByte('m')
	}
	if f&DotAll != 0 {
		b.WriteByte('s')
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}
