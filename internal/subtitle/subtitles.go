package subtitle

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrIndexOutOfRange indicates an entry index the collection does not
// hold.
var ErrIndexOutOfRange = errors.New("entry index out of range")

// Entry is a single time-coded subtitle.
type Entry struct {
	Start       time.Duration
	End         time.Duration
	Main        string
	Translation string
}

// Text returns the text of doc. Unknown documents read as empty.
func (e *Entry) Text(doc Document) string {
	switch doc {
	case Main:
		return e.Main
	case Translation:
		return e.Translation
	}
	return ""
}

// SetText sets the text of doc. Unknown documents are ignored.
func (e *Entry) SetText(doc Document, text string) {
	switch doc {
	case Main:
		e.Main = text
	case Translation:
		e.Translation = text
	}
}

// Subtitles is an ordered, index-addressable collection of entries.
// It is not safe for concurrent use.
type Subtitles struct {
	entries []Entry
}

// New creates a collection holding a copy of entries.
func New(entries ...Entry) *Subtitles {
	return &Subtitles{entries: slices.Clone(entries)}
}

// FromTexts creates a collection of untimed entries with the given main texts.
func FromTexts(texts ...string) *Subtitles {
	s := &Subtitles{entries: make([]Entry, len(texts))}
	for i, t := range texts {
		s.entries[i].Main = t
	}
	return s
}

// Len returns the number of entries.
func (s *Subtitles) Len() int {
	return len(s.entries)
}

// Entry returns a copy of the entry at index.
func (s *Subtitles) Entry(index int) Entry {
	return s.entries[index]
}

// Entries returns a copy of all entries.
func (s *Subtitles) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Append adds entries at the end.
func (s *Subtitles) Append(entries ...Entry) {
	s.entries = append(s.entries, entries...)
}

// Text returns the text of doc at index.
func (s *Subtitles) Text(index int, doc Document) string {
	return s.entries[index].Text(doc)
}

// Texts returns the texts of doc for all entries.
func (s *Subtitles) Texts(doc Document) []string {
	out := make([]string, len(s.entries))
	for i := range s.entries {
		out[i] = s.entries[i].Text(doc)
	}
	return out
}

// SetText sets the text of doc at index.
func (s *Subtitles) SetText(index int, doc Document, text string) {
	s.entries[index].SetText(doc, text)
}

// Remove deletes the entries at indexes and returns them in ascending
// index order. Nothing is removed unless every index is valid and
// distinct.
func (s *Subtitles) Remove(indexes []int) ([]Entry, error) {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	for i, idx := range sorted {
		if idx < 0 || idx >= len(s.entries) || (i > 0 && sorted[i-1] == idx) {
			return nil, fmt.Errorf("%w: %d of %d entries", ErrIndexOutOfRange, idx, len(s.entries))
		}
	}

	removed := make([]Entry, len(sorted))
	for i, idx := range sorted {
		removed[i] = s.entries[idx]
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		s.entries = slices.Delete(s.entries, sorted[i], sorted[i]+1)
	}
	return removed, nil
}

// Insert places entries so that entries[k] ends up at indexes[k]. It is
// the inverse of Remove when given Remove's ascending indexes and result.
func (s *Subtitles) Insert(indexes []int, entries []Entry) {
	for k, idx := range indexes {
		s.entries = slices.Insert(s.entries, idx, entries[k])
	}
}
