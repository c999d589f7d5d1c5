package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Template rewrites a replacement written with backslash group references
// into a template for Regexp.ExpandString. References to groups that re
// does not define are reported as errors.
func Template(repl string, re *Regexp) (string, error) {
	var b strings.Builder
	b.Grow(len(repl))

	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '$' {
			b.WriteString("$$")
			continue
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(repl) {
			return "", fmt.Errorf("bad escape (end of template) at position %d", i)
		}
		next := repl[i+1]
		switch {
		case next >= '1' && next <= '9':
			j := i + 2
			if j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(repl[i+1 : j])
			if n > re.NumSubexp() {
				return "", fmt.Errorf("invalid group reference %d at position %d", n, i)
			}
			fmt.Fprintf(&b, "${%d}", re.submatch(n))
			i = j - 1
		case next == 'g':
			if i+2 >= len(repl) || repl[i+2] != '<' {
				return "", fmt.Errorf("missing < in group reference at position %d", i)
			}
			end := strings.IndexByte(repl[i+3:], '>')
			if end < 0 {
				return "", fmt.Errorf("missing > in group reference at position %d", i)
			}
			name := repl[i+3 : i+3+end]
			if err := checkGroup(name, re); err != nil {
				return "", fmt.Errorf("%w at position %d", err, i)
			}
			if n, err := strconv.Atoi(name); err == nil {
				name = strconv.Itoa(re.submatch(n))
			}
			b.WriteString("${" + name + "}")
			i += 3 + end
		case next == 'n':
			b.WriteByte('\n')
			i++
		case next == 't':
			b.WriteByte('\t')
			i++
		case next == 'r':
			b.WriteByte('\r')
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		case isASCIILetter(next):
			return "", fmt.Errorf("bad escape \\%c at position %d", next, i)
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
			i++
		}
	}
	return b.String(), nil
}

func checkGroup(name string, re *Regexp) error {
	if name == "" {
		return fmt.Errorf("missing group name")
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n > re.NumSubexp() {
			return fmt.Errorf("invalid group reference %d", n)
		}
		return nil
	}
	if re.SubexpIndex(name) < 0 {
		return fmt.Errorf("unknown group name %q", name)
	}
	return nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
