package correct

import (
	"github.com/dshills/subfix/internal/engine/parser"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/subtitle"
)

// CorrectCommonErrors applies every enabled pattern to each text in table
// order. A repeating pattern is applied again while its previous pass
// substituted anything and changed the text.
func (e *Engine) CorrectCommonErrors(indexes []int, doc subtitle.Document, patterns pattern.Table) (*Result, error) {
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
	for _, index := range indexes {
		orig := e.coll.Text(index, doc)
		p.SetText(orig)
		for _, c := range compiled {
			substitute(p, c)
		}
		if p.Text() != orig {
			changed = append(changed, index)
			texts = append(texts, p.Text())
			e.logger.Debug("corrected", "index", index, "doc", doc)
		}
	}
	return e.commitTexts(changed, doc, texts, DescCommonErrors)
}

// substitute applies c to the parser buffer, repeatedly when c asks for it.
func substitute(p *parser.Parser, c pattern.Compiled) {
	p.SetCompiled(c, 0)
	before := p.Text()
	count := p.ReplaceAll()
	for c.Repeat && count > 0 && p.Text() != before {
		before = p.Text()
		count = p.ReplaceAll()
	}
}
