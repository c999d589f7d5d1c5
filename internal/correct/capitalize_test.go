package correct

import (
	"testing"

	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/subtitle"
)

var (
	startOfLine = pattern.Table{{Source: `^`, Enabled: true, Capitalize: pattern.CapitalizeStart}}
	afterStop   = pattern.Table{{Source: `[.!?]`, Enabled: true, Capitalize: pattern.CapitalizeAfter}}
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		indexes []int
		table   pattern.Table
		want    []string
	}{
		{
			name:  "start of text",
			texts: []string{"hello"},
			table: startOfLine,
			want:  []string{"Hello"},
		},
		{
			name:  "ellipsis guard",
			texts: []string{"...hello"},
			table: startOfLine,
			want:  []string{"...hello"},
		},
		{
			name:  "skips leading punctuation",
			texts: []string{"- hi\n- there"},
			table: startOfLine,
			want:  []string{"- Hi\n- There"},
		},
		{
			name:  "after sentence end",
			texts: []string{"Yes. no! maybe"},
			table: afterStop,
			want:  []string{"Yes. No! Maybe"},
		},
		{
			name:  "carry over to next entry",
			texts: []string{"It ends here.", "and goes on"},
			table: afterStop,
			want:  []string{"It ends here.", "And goes on"},
		},
		{
			name:  "no carry over mid sentence",
			texts: []string{"It goes on,", "and on"},
			table: afterStop,
			want:  []string{"It goes on,", "and on"},
		},
		{
			name:    "non-contiguous indexes",
			texts:   []string{"Done.", "skipped", "and"},
			indexes: []int{0, 2},
			table:   pattern.Table{{Source: `[.!?]`, Enabled: true, Capitalize: pattern.CapitalizeAfter}},
			want:    []string{"Done.", "skipped", "And"},
		},
		{
			name:    "first of run capitalized",
			texts:   []string{"one", "two", "three"},
			indexes: []int{1, 2},
			table:   pattern.Table{{Source: `x`, Enabled: true}},
			want:    []string{"one", "Two", "three"},
		},
		{
			name:  "unicode",
			texts: []string{"élan. ölçü"},
			table: afterStop,
			want:  []string{"Élan. Ölçü"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, subs, _ := newEngine(tt.texts...)
			if _, err := eng.Capitalize(tt.indexes, subtitle.Main, tt.table); err != nil {
				t.Fatalf("Capitalize failed: %v", err)
			}
			assertTexts(t, subs, tt.want...)
		})
	}
}

func TestCapitalizeNoChange(t *testing.T) {
	eng, _, h := newEngine("...hello", "Fine")

	res, err := eng.Capitalize([]int{0}, subtitle.Main, startOfLine)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NoChange() {
		t.Errorf("NoChange() = false, changed %v", res.Indexes)
	}
	if h.CanUndo() {
		t.Error("CanUndo() = true after NoChange")
	}
}

func TestCapitalizeCommitsOneAction(t *testing.T) {
	eng, _, h := newEngine("a.", "b", "c")

	res, err := eng.Capitalize(nil, subtitle.Main, afterStop)
	if err != nil {
		t.Fatal(err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if res.Action.Description() != DescCapitalize {
		t.Errorf("Description() = %q", res.Action.Description())
	}
}
