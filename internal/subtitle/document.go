package subtitle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDocument indicates an unknown document selector.
var ErrInvalidDocument = errors.New("invalid document")

// Document selects one of an entry's two text fields.
type Document int

const (
	// Main is the primary text.
	Main Document = iota
	// Translation is the translated text.
	Translation
)

// Validate returns ErrInvalidDocument for unknown selectors.
func (d Document) Validate() error {
	if d != Main && d != Translation {
		return fmt.Errorf("%w: %d", ErrInvalidDocument, int(d))
	}
	return nil
}

// String returns the document name.
func (d Document) String() string {
	switch d {
	case Main:
		return "main"
	case Translation:
		return "translation"
	default:
		return fmt.Sprintf("Document(%d)", int(d))
	}
}

// ParseDocument parses "main" or "translation" (also "tran").
func ParseDocument(s string) (Document, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "main", "":
		return Main, nil
	case "translation", "tran":
		return Translation, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDocument, s)
	}
}
