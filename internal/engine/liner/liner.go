// Package liner breaks subtitle text into lines that fit a maximum line
// length and line count.
//
// Hard newlines in the input are kept. Each over-long segment is split at
// the break-point match closest to its measured midpoint, and the halves
// are broken recursively. Line length takes precedence over line count:
// once the line budget is spent a segment may overflow the maximum length
// by the tolerated deviation, but a longer segment is still broken and
// the line count is exceeded instead.
package liner

import (
	"regexp"
	"strings"

	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/engine/textlen"
)

// Config holds the limits and measurement used by a Liner.
type Config struct {
	// MaxLength is the maximum measured length of a line.
	MaxLength int

	// MaxLines is the line budget per text. Zero means unlimited.
	MaxLines int

	// MaxDeviation is the tolerated fractional overflow of MaxLength,
	// in [0, 1).
	MaxDeviation float64

	// Length measures a line. Defaults to textlen.Runes.
	Length textlen.Func

	// Tag matches markup tags, which are ignored when measuring and
	// never broken. May be nil.
	Tag *regexp.Regexp
}

// Liner breaks lines using compiled break-point patterns in priority order.
type Liner struct {
	points []pattern.Compiled
	cfg    Config
}

// New creates a liner. The order of points is their priority.
func New(points []pattern.Compiled, cfg Config) *Liner {
	if cfg.Length == nil {
		cfg.Length = textlen.Runes
	}
	if cfg.MaxDeviation < 0 {
		cfg.MaxDeviation = 0
	}
	return &Liner{points: points, cfg: cfg}
}

// Measure returns the length of a single line with tags stripped.
func (l *Liner) Measure(line string) int {
	if l.cfg.Tag != nil {
		line = l.cfg.Tag.ReplaceAllString(line, "")
	}
	return l.cfg.Length(line)
}

// tolerance is the longest line accepted when the line budget is spent.
func (l *Liner) tolerance() float64 {
	return float64(l.cfg.MaxLength) * (1 + l.cfg.MaxDeviation)
}

// Break returns text with over-long lines broken.
func (l *Liner) Break(text string) string {
	if l.cfg.MaxLength <= 0 || len(l.points) == 0 {
		return text
	}

	segments := strings.Split(text, "\n")
	lines := len(segments)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = l.breakSegment(seg, &lines, out)
	}
	return strings.Join(out, "\n")
}

func (l *Liner) breakSegment(seg string, lines *int, out []string) []string {
	n := l.Measure(seg)
	if n <= l.cfg.MaxLength {
		return append(out, seg)
	}
	if l.cfg.MaxLines > 0 && *lines >= l.cfg.MaxLines && float64(n) <= l.tolerance() {
		return append(out, seg)
	}

	c, ok := l.best(seg, n)
	if !ok {
		return append(out, seg)
	}
	*lines += len(c.parts) - 1
	for _, part := range c.parts {
		out = l.breakSegment(part, lines, out)
	}
	return out
}

type candidate struct {
	parts    []string
	fits     bool
	balance  int
	priority int
	pos      int
}

// better orders candidates: fitting ones first, then the one closest to
// the midpoint, then the higher-priority pattern, then the earlier match.
func (c candidate) better(o candidate) bool {
	if c.fits != o.fits {
		return c.fits
	}
	if c.balance != o.balance {
		return c.balance < o.balance
	}
	if c.priority != o.priority {
		return c.priority < o.priority
	}
	return c.pos < o.pos
}

// best picks the break of seg, whose measured length is n. Every part of
// an accepted break is strictly shorter than seg.
func (l *Liner) best(seg string, n int) (candidate, bool) {
	var tags [][]int
	if l.cfg.Tag != nil {
		tags = l.cfg.Tag.FindAllStringIndex(seg, -1)
	}
	limit := l.tolerance()

	var best candidate
	found := false
	var dst []byte
	for prio, bp := range l.points {
		for _, m := range bp.Regexp.FindAllStringSubmatchIndex(seg, -1) {
			if insideTag(m[0], m[1], tags) {
				continue
			}
			repl := "\n"
			if bp.Template != "" {
				dst = bp.Regexp.ExpandString(dst[:0], bp.Template, seg, m)
				repl = string(dst)
			}
			if !strings.Contains(repl, "\n") {
				continue
			}

			parts := strings.Split(seg[:m[0]]+repl+seg[m[1]:], "\n")
			c := candidate{parts: parts, fits: true, priority: prio, pos: m[0]}
			reject := false
			for _, part := range parts {
				size := l.Measure(part)
				if strings.TrimSpace(part) == "" || size >= n {
					reject = true
					break
				}
				if float64(size) > limit {
					c.fits = false
				}
			}
			if reject {
				continue
			}
			c.balance = abs(l.Measure(parts[0]) - l.Measure(parts[len(parts)-1]))

			if !found || c.better(best) {
				best = c
				found = true
			}
		}
	}
	return best, found
}

func insideTag(start, end int, tags [][]int) bool {
	for _, t := range tags {
		if start < t[1] && end > t[0] {
			return true
		}
		if start == end && start > t[0] && start < t[1] {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
