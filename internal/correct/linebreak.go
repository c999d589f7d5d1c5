package correct

import (
	"math"
	"strings"

	"github.com/dshills/subfix/internal/engine/liner"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/engine/textlen"
	"github.com/dshills/subfix/internal/subtitle"
)

// BreakOptions controls BreakLines.
type BreakOptions struct {
	// MaxLength is the preferred maximum line length.
	MaxLength int

	// MaxLines is the preferred maximum number of lines; 0 is unlimited.
	MaxLines int

	// MaxDeviation is the fraction by which a line may exceed MaxLength
	// once MaxLines is reached.
	MaxDeviation float64

	// Length measures a line; nil counts characters.
	Length textlen.Func

	// Skip leaves alone texts that already respect MaxSkipLength and
	// MaxSkipLines, and keeps the original of a violating text unless
	// breaking reduces the violation.
	Skip bool

	// MaxSkipLength and MaxSkipLines bound the texts skipped; 0 is
	// unbounded.
	MaxSkipLength int
	MaxSkipLines  int
}

func (o BreakOptions) skipLimits() (length, lines int) {
	length, lines = o.MaxSkipLength, o.MaxSkipLines
	if length <= 0 {
		length = math.MaxInt
	}
	if lines <= 0 {
		lines = math.MaxInt
	}
	return length, lines
}

// BreakLines rewraps texts at the break points given by patterns, in
// pattern order of priority, so that lines respect the configured length
// and line count as well as possible.
func (e *Engine) BreakLines(indexes []int, doc subtitle.Document, patterns pattern.Table, opts BreakOptions) (*Result, error) {
	indexes, err := e.validate(indexes, doc)
	if err != nil {
		return nil, err
	}
	compiled, err := patterns.Compile()
	if err != nil {
		return nil, err
	}

	tag := subtitle.TagRegex(e.markup[doc])
	l := liner.New(compiled, liner.Config{
		MaxLength:    opts.MaxLength,
		MaxLines:     opts.MaxLines,
		MaxDeviation: opts.MaxDeviation,
		Length:       opts.Length,
		Tag:          tag,
	})
	skipLength, skipLines := opts.skipLimits()

	var changed []int
	var texts []string
	for _, index := range indexes {
		orig := e.coll.Text(index, doc)
		length, lines := measure(l, orig)
		if opts.Skip && length <= skipLength && lines <= skipLines {
			continue
		}
		text := l.Break(orig)
		if opts.Skip {
			newLength, newLines := measure(l, text)
			lengthFixed := length > skipLength && newLength < length
			linesFixed := lines > skipLines && newLines < lines
			if !lengthFixed && !linesFixed {
				continue
			}
		}
		if text != orig {
			changed = append(changed, index)
			texts = append(texts, text)
			e.logger.Debug("lines broken", "index", index, "doc", doc)
		}
	}
	return e.commitTexts(changed, doc, texts, DescBreakLines)
}

// measure returns the length of the longest line of text and its number
// of lines.
func measure(l *liner.Liner, text string) (length, lines int) {
	split := strings.Split(text, "\n")
	for _, line := range split {
		length = max(length, l.Measure(line))
	}
	return length, len(split)
}
