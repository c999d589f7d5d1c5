package correct

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/dshills/subfix/internal/engine/history"
	"github.com/dshills/subfix/internal/subtitle"
)

// ErrInvalidIndex indicates an index outside the collection.
var ErrInvalidIndex = errors.New("invalid index")

// Action descriptions.
const (
	DescCapitalize      = "Capitalizing texts"
	DescCommonErrors    = "Correcting common errors"
	DescHearingImpaired = "Removing hearing impaired texts"
	DescBreakLines      = "Breaking lines"
	DescRemoveEntries   = "Removing subtitles"
)

// Labeler maps a description key to the label shown to users.
type Labeler func(key string) string

// Result reports the outcome of a batch operation.
type Result struct {
	// Indexes are the entries whose text changed, as indexes before any
	// removal.
	Indexes []int

	// Texts are the new texts, parallel to Indexes.
	Texts []string

	// Removed are the entries removed because their text became empty.
	Removed []int

	// Action is the committed action, nil when nothing changed.
	Action *history.Action
}

// NoChange reports whether the operation found nothing to change. It is
// a normal outcome; nothing was mutated or committed.
func (r *Result) NoChange() bool {
	return r.Action == nil
}

// Engine runs corrections against a collection and records them in a
// history.
type Engine struct {
	coll    Collection
	history *history.History
	markup  map[subtitle.Document]subtitle.Markup
	label   Labeler
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMarkup sets the markup of doc, used to measure text with tags
// stripped.
func WithMarkup(doc subtitle.Document, m subtitle.Markup) Option {
	return func(e *Engine) {
		e.markup[doc] = m
	}
}

// WithLabeler sets the function translating action descriptions.
func WithLabeler(fn Labeler) Option {
	return func(e *Engine) {
		if fn != nil {
			e.label = fn
		}
	}
}

// New creates an engine for coll recording into h.
func New(coll Collection, h *history.History, opts ...Option) *Engine {
	e := &Engine{
		coll:    coll,
		history: h,
		markup:  make(map[subtitle.Document]subtitle.Markup),
		label:   func(key string) string { return key },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// History returns the history actions are recorded in.
func (e *Engine) History() *history.History {
	return e.history
}

// TextLength returns the number of characters of the text of doc at
// index, excluding markup tags.
func (e *Engine) TextLength(index int, doc subtitle.Document) (int, error) {
	if _, err := e.validate([]int{index}, doc); err != nil {
		return 0, err
	}
	text := subtitle.Strip(subtitle.TagRegex(e.markup[doc]), e.coll.Text(index, doc))
	return utf8.RuneCountInString(text), nil
}

// validate checks doc and indexes and returns the indexes to process:
// all of them when indexes is empty.
func (e *Engine) validate(indexes []int, doc subtitle.Document) ([]int, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	n := e.coll.Len()
	if len(indexes) == 0 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, i, n)
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: %d given twice", ErrInvalidIndex, i)
		}
		seen[i] = true
	}
	return slices.Clone(indexes), nil
}

// ranges splits indexes into sorted runs of consecutive integers.
func ranges(indexes []int) [][]int {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)

	var out [][]int
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i] != sorted[i-1]+1 {
			out = append(out, sorted[start:i])
			start = i
		}
	}
	return out
}

// commitTexts replaces the changed texts as one action labelled desc.
func (e *Engine) commitTexts(indexes []int, doc subtitle.Document, texts []string, desc string) (*Result, error) {
	if len(indexes) == 0 {
		e.logger.Debug("no change", "op", desc, "doc", doc)
		return &Result{}, nil
	}

	a := e.replaceTexts(indexes, doc, texts)
	e.history.SetDescription(a, e.label(desc))
	if err := e.history.Execute(a); err != nil {
		return nil, fmt.Errorf("%s: %w", desc, err)
	}

	e.logger.Info("texts changed", "op", desc, "doc", doc, "changed", len(indexes))
	return &Result{Indexes: indexes, Texts: texts, Action: a}, nil
}
