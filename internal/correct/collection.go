package correct

import (
	"slices"

	"github.com/dshills/subfix/internal/engine/history"
	"github.com/dshills/subfix/internal/subtitle"
)

// Collection is the subtitle collection the engine edits. Indexes run
// from 0 to Len()-1.
type Collection interface {
	Len() int
	Text(index int, doc subtitle.Document) string
	SetText(index int, doc subtitle.Document, text string)

	// Remove deletes the entries at indexes and returns them in
	// ascending index order. It removes nothing when it fails.
	Remove(indexes []int) ([]subtitle.Entry, error)

	// Insert places entries[k] at indexes[k]; it reverts Remove.
	Insert(indexes []int, entries []subtitle.Entry)
}

// replaceTexts builds an action setting texts[k] at indexes[k] and
// restoring the current texts when undone.
func (e *Engine) replaceTexts(indexes []int, doc subtitle.Document, texts []string) *history.Action {
	indexes = slices.Clone(indexes)
	texts = slices.Clone(texts)
	old := make([]string, len(indexes))
	for k, i := range indexes {
		old[k] = e.coll.Text(i, doc)
	}

	set := func(values []string) history.Op {
		return func() error {
			for k, i := range indexes {
				e.coll.SetText(i, doc, values[k])
			}
			return nil
		}
	}

	a := e.history.BeginAction(history.Do)
	return a.SetOps(set(texts), set(old))
}

// removeEntries builds an action removing the entries at indexes and
// inserting them back when undone.
func (e *Engine) removeEntries(indexes []int) *history.Action {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)

	var removed []subtitle.Entry
	a := e.history.BeginAction(history.Do)
	return a.SetOps(
		func() error {
			entries, err := e.coll.Remove(sorted)
			if err != nil {
				return err
			}
			removed = entries
			return nil
		},
		func() error {
			e.coll.Insert(sorted, removed)
			return nil
		},
	)
}
