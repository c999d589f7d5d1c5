package config

import (
	"embed"
	"fmt"

	"github.com/dshills/subfix/internal/engine/pattern"
)

//go:embed defaults/*.yaml
var defaultPatterns embed.FS

// PatternKind names one of the pattern tables.
type PatternKind string

// Pattern tables.
const (
	Capitalize      PatternKind = "capitalize"
	CommonErrors    PatternKind = "common-errors"
	HearingImpaired PatternKind = "hearing-impaired"
	LineBreak       PatternKind = "line-break"
)

// PatternKinds lists every table in a stable order.
var PatternKinds = []PatternKind{Capitalize, CommonErrors, HearingImpaired, LineBreak}

// File returns the configured file of kind, empty for the built-in table.
func (p PatternsConfig) File(kind PatternKind) (string, error) {
	switch kind {
	case Capitalize:
		return p.Capitalize, nil
	case CommonErrors:
		return p.CommonErrors, nil
	case HearingImpaired:
		return p.HearingImpaired, nil
	case LineBreak:
		return p.LineBreak, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPatternKind, kind)
}

// LoadPatterns returns the table of kind from its configured file, or the
// built-in table when none is configured.
func (c *Config) LoadPatterns(kind PatternKind) (pattern.Table, error) {
	path, err := c.Patterns.File(kind)
	if err != nil {
		return nil, err
	}
	if path != "" {
		return pattern.LoadFile(path)
	}
	return DefaultPatterns(kind)
}

// DefaultPatterns returns the built-in table of kind.
func DefaultPatterns(kind PatternKind) (pattern.Table, error) {
	f, err := defaultPatterns.Open("defaults/" + string(kind) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPatternKind, kind)
	}
	defer f.Close()
	return pattern.Load(f)
}
