// Package mpl2 reads and writes MPL2 subtitle files.
//
// Each line holds one entry with show and hide times in decaseconds and
// a pipe separating text lines:
//
//	[182][221]And that completes my final report|until we reach touchdown.
package mpl2

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/subfix/internal/subtitle"
)

var reLine = regexp.MustCompile(`^\[(\d+)\]\[(\d+)\](.*?)$`)

const decasecond = 100 * time.Millisecond

// Read parses MPL2 data into entries whose doc text is set. Lines that do
// not look like entries are skipped.
func Read(r io.Reader, doc subtitle.Document) ([]subtitle.Entry, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var entries []subtitle.Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		m := reLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		show, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: show time: %w", lineNo, err)
		}
		hide, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: hide time: %w", lineNo, err)
		}
		e := subtitle.Entry{
			Start: time.Duration(show) * decasecond,
			End:   time.Duration(hide) * decasecond,
		}
		e.SetText(doc, strings.ReplaceAll(m[3], "|", "\n"))
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading MPL2: %w", err)
	}
	return entries, nil
}

// Write writes the doc text of entries as MPL2 using newline as the line
// terminator. Times are rounded to the nearest decasecond.
func Write(w io.Writer, entries []subtitle.Entry, doc subtitle.Document, newline string) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if newline == "" {
		newline = "\n"
	}

	bw := bufio.NewWriter(w)
	for _, e := range entries {
		text := strings.ReplaceAll(e.Text(doc), "\n", "|")
		if _, err := fmt.Fprintf(bw, "[%d][%d]%s%s", toDeca(e.Start), toDeca(e.End), text, newline); err != nil {
			return fmt.Errorf("writing MPL2: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing MPL2: %w", err)
	}
	return nil
}

func toDeca(d time.Duration) int64 {
	return int64(d.Round(decasecond) / decasecond)
}
