// Package textlen provides the length functions used to measure subtitle
// lines when breaking them.
package textlen

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Func returns the measured length of a single line.
type Func func(string) int

// Runes counts code points after NFC normalization, so a precomposed and
// a decomposed "é" measure the same.
func Runes(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// Graphemes counts user-perceived characters.
func Graphemes(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Width returns the monospace display width, counting wide East Asian
// characters as two cells.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Bytes returns the UTF-8 encoded length.
func Bytes(s string) int {
	return len(s)
}

// Unit names a built-in length function.
type Unit string

// Built-in units.
const (
	UnitRunes     Unit = "runes"
	UnitGraphemes Unit = "graphemes"
	UnitWidth     Unit = "width"
	UnitBytes     Unit = "bytes"
	UnitLua       Unit = "lua"
)

// ForUnit returns the built-in length function for unit. The lua unit has
// no built-in function; use NewLua.
func ForUnit(unit Unit) (Func, error) {
	switch unit {
	case "", UnitRunes:
		return Runes, nil
	case UnitGraphemes:
		return Graphemes, nil
	case UnitWidth:
		return Width, nil
	case UnitBytes:
		return Bytes, nil
	default:
		return nil, fmt.Errorf("unknown length unit %q", unit)
	}
}
