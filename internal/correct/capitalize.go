package correct

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/subfix/internal/engine/parser"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/subtitle"
)

// Capitalize capitalizes texts following the capitalization patterns.
//
// Indexes are processed in runs of consecutive integers. The first entry
// of each run is capitalized at its start, and a sentence left open at
// the end of one entry (an After pattern whose following character was
// not capitalized) carries over to the next entry of the run.
func (e *Engine) Capitalize(indexes []int, doc subtitle.Document, patterns pattern.Table) (*Result, error) {
	indexes, err := e.validate(indexes, doc)
	if err != nil {
		return nil, err
	}
	compiled, err := patterns.Compile()
	if err != nil {
		return nil, err
	}

	p := parser.New()
	title := cases.Title(language.Und, cases.NoLower)
	var changed []int
	var texts []string
	for _, run := range ranges(indexes) {
		capNext := false
		for i, index := range run {
			orig := e.coll.Text(index, doc)
			p.SetText(orig)
			if i == 0 || capNext {
				capitalizeAt(p, title, 0)
				capNext = false
			}
			for _, c := range compiled {
				if c.Capitalize == pattern.CapitalizeNone {
					continue
				}
				p.SetCompiled(c, 0)
				capNext = capitalizeMatches(p, title, c.Capitalize, capNext)
			}
			if p.Text() != orig {
				changed = append(changed, index)
				texts = append(texts, p.Text())
				e.logger.Debug("capitalized", "index", index, "doc", doc)
			}
		}
	}
	return e.commitTexts(changed, doc, texts, DescCapitalize)
}

// capitalizeMatches walks every match of the current pattern and returns
// the updated carry-over flag.
func capitalizeMatches(p *parser.Parser, title cases.Caser, mode pattern.CapitalizeMode, capNext bool) bool {
	for {
		start, end, err := p.Next()
		if err != nil {
			return capNext
		}
		switch mode {
		case pattern.CapitalizeStart:
			capitalizeAt(p, title, start)
		case pattern.CapitalizeAfter:
			capNext = !capitalizeAt(p, title, end)
		}
	}
}

// capitalizeAt capitalizes the first word character at or after pos. It
// reports false when there is none, or when it directly follows an
// ellipsis, which continues rather than ends a sentence.
func capitalizeAt(p *parser.Parser, title cases.Caser, pos int) bool {
	text := p.Text()
	if pos > len(text) {
		return false
	}
	rest := text[pos:]
	for i, r := range rest {
		if !pattern.IsWordRune(r) {
			continue
		}
		if strings.HasSuffix(rest[:i], "...") {
			return false
		}
		size := utf8.RuneLen(r)
		p.Replace(pos+i, pos+i+size, title.String(string(r)))
		return true
	}
	return false
}
