package correct

import (
	"fmt"

	"github.com/dshills/subfix/internal/engine/parser"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/subtitle"
)

// leftovers tidies a text after hearing impaired parts are removed: it
// trims lines, squeezes spaces, drops lines without words, and removes
// dialogue dashes that no longer introduce more than one speaker.
var leftovers = mustCompile(pattern.Table{
	{Source: `(^\s+|\s+$)`, Enabled: true},
	{Source: ` {2,}`, Replacement: ` `, Enabled: true},
	{Source: `^\W*$`, Enabled: true},
	{Source: `(^\n|\n$)`, Enabled: true},
	{Source: `^-(\S)`, Replacement: `- \1`, Enabled: true},
	{Source: `^- (.*?^[^-])`, Replacement: `\1`, Enabled: true},
	{Source: `\A- ([^\n]*)\Z`, Replacement: `\1`, Enabled: true},
})

func mustCompile(t pattern.Table) []pattern.Compiled {
	c, err := t.Compile()
	if err != nil {
		panic(err)
	}
	return c
}

// RemoveHearingImpaired deletes hearing impaired parts of texts. Texts
// left blank are removed from the collection; the text change and the
// removal are committed as one action.
func (e *Engine) RemoveHearingImpaired(indexes []int, doc subtitle.Document, patterns pattern.Table) (*Result, error) {
	indexes, err := e.validate(indexes, doc)
	if err != nil {
		return nil, err
	}
	compiled, err := patterns.Compile()
	if err != nil {
		return nil, err
	}

	p := parser.New()
	var changed []int
	var texts []string
	var blank []int
	for _, index := range indexes {
		orig := e.coll.Text(index, doc)
		p.SetText(orig)
		for _, c := range compiled {
			p.SetCompiled(c, 0)
			p.ReplaceAll()
		}
		if p.Text() == orig {
			continue
		}
		for _, c := range leftovers {
			p.SetCompiled(c, 0)
			p.ReplaceAll()
		}
		changed = append(changed, index)
		texts = append(texts, p.Text())
		if p.Text() == "" {
			blank = append(blank, index)
		}
		e.logger.Debug("hearing impaired removed", "index", index, "doc", doc)
	}

	if len(blank) == 0 {
		return e.commitTexts(changed, doc, texts, DescHearingImpaired)
	}

	// Both steps are built before either runs so that they reach the
	// history as one action.
	replace := e.replaceTexts(changed, doc, texts)
	e.history.SetDescription(replace, e.label(DescHearingImpaired))
	rm := e.removeEntries(blank)
	e.history.SetDescription(rm, e.label(DescRemoveEntries))
	group := e.history.Compound(e.label(DescHearingImpaired), replace, rm)
	if err := e.history.Execute(group); err != nil {
		return nil, fmt.Errorf("%s: %w", DescHearingImpaired, err)
	}

	e.logger.Info("entries removed", "op", DescHearingImpaired, "doc", doc, "changed", len(changed), "removed", len(blank))
	return &Result{Indexes: changed, Texts: texts, Removed: blank, Action: group}, nil
}
