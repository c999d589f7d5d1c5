package correct

import (
	"testing"

	"github.com/dshills/subfix/internal/engine/history"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/engine/textlen"
	"github.com/dshills/subfix/internal/subtitle"
)

var spaceTable = pattern.Table{{Source: ` `, Replacement: `\n`, Enabled: true}}

func TestBreakLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts BreakOptions
		want string
	}{
		{
			name: "breaks long line",
			text: "The quick brown fox jumps over the lazy dog",
			opts: BreakOptions{MaxLength: 30, MaxLines: 2},
			want: "The quick brown fox\njumps over the lazy dog",
		},
		{
			name: "fitting text untouched",
			text: "Short",
			opts: BreakOptions{MaxLength: 30, MaxLines: 2},
			want: "Short",
		},
		{
			name: "skip within limits",
			text: "aaaa bbbb",
			opts: BreakOptions{MaxLength: 5, MaxLines: 2, Skip: true, MaxSkipLength: 10},
			want: "aaaa bbbb",
		},
		{
			name: "skip fixes length violation",
			text: "aaaa bbbb",
			opts: BreakOptions{MaxLength: 5, MaxLines: 2, Skip: true, MaxSkipLength: 6},
			want: "aaaa\nbbbb",
		},
		{
			name: "skip requires improvement",
			text: "aaaa bbbb\ncc\ndd",
			opts: BreakOptions{MaxLength: 5, MaxLines: 2, Skip: true, MaxSkipLines: 2},
			want: "aaaa bbbb\ncc\ndd",
		},
		{
			name: "without skip",
			text: "aaaa bbbb\ncc\ndd",
			opts: BreakOptions{MaxLength: 5, MaxLines: 2},
			want: "aaaa\nbbbb\ncc\ndd",
		},
		{
			name: "custom length",
			text: "日本語 日本語",
			opts: BreakOptions{MaxLength: 8, MaxLines: 2, Length: textlen.Width},
			want: "日本語\n日本語",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, subs, _ := newEngine(tt.text)
			if _, err := eng.BreakLines(nil, subtitle.Main, spaceTable, tt.opts); err != nil {
				t.Fatalf("BreakLines failed: %v", err)
			}
			assertTexts(t, subs, tt.want)
		})
	}
}

func TestBreakLinesMarkupMeasuredNotChanged(t *testing.T) {
	subs := subtitle.FromTexts("<i>aaaa bbbb</i>", "<i>aa</i> bb")
	eng := New(subs, history.New(0), WithMarkup(subtitle.Main, subtitle.SubRipMarkup))

	res, err := eng.BreakLines(nil, subtitle.Main, spaceTable, BreakOptions{MaxLength: 6, MaxLines: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Indexes) != 1 || res.Indexes[0] != 0 {
		t.Errorf("Indexes = %v, want [0]", res.Indexes)
	}
	assertTexts(t, subs, "<i>aaaa\nbbbb</i>", "<i>aa</i> bb")
}

func TestBreakLinesResult(t *testing.T) {
	eng, _, h := newEngine("aaaa bbbb", "ok")

	res, err := eng.BreakLines(nil, subtitle.Main, spaceTable, BreakOptions{MaxLength: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Action.Description() != DescBreakLines {
		t.Errorf("Description() = %q", res.Action.Description())
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}

	res, err = eng.BreakLines(nil, subtitle.Main, spaceTable, BreakOptions{MaxLength: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !res.NoChange() {
		t.Error("second run NoChange() = false")
	}
}
