package textlen

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		in   string
		want int
	}{
		{"runes ascii", Runes, "hello", 5},
		{"runes decomposed", Runes, "e\u0301te", 3},
		{"graphemes", Graphemes, "e\u0301te", 3},
		{"width ascii", Width, "abc", 3},
		{"width wide", Width, "日本", 4},
		{"bytes", Bytes, "é", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("len(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestForUnit(t *testing.T) {
	for _, u := range []Unit{"", UnitRunes, UnitGraphemes, UnitWidth, UnitBytes} {
		if _, err := ForUnit(u); err != nil {
			t.Errorf("ForUnit(%q) failed: %v", u, err)
		}
	}
	if _, err := ForUnit(UnitLua); err == nil {
		t.Error("ForUnit(lua) should fail")
	}
}

func TestLuaString(t *testing.T) {
	l, err := NewLuaString(`function length(s) return string.len(s) * 2 end`)
	if err != nil {
		t.Fatalf("NewLuaString failed: %v", err)
	}
	defer l.Close()

	if got := l.Func()("abc"); got != 6 {
		t.Errorf("Length() = %d, want 6", got)
	}
}

func TestLuaFallback(t *testing.T) {
	script := `function length(s)
  if s == "boom" then error("nope") end
  if s == "word" then return "many" end
  return 1
end`
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script error", "boom", "nope"},
		{"non-number result", "word", "returned string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			l, err := NewLuaString(script, WithLogger(logger))
			if err != nil {
				t.Fatal(err)
			}
			defer l.Close()
			if got := l.Length(tt.in); got != 4 {
				t.Errorf("Length() = %d, want 4", got)
			}
			out := buf.String()
			if !strings.Contains(out, "level=WARN") || !strings.Contains(out, tt.want) {
				t.Errorf("log = %q, want a warning mentioning %q", out, tt.want)
			}
			buf.Reset()
			if got := l.Length("fine"); got != 1 || buf.Len() != 0 {
				t.Errorf("Length(fine) = %d, log %q", got, buf.String())
			}
		})
	}
}

func TestLuaTrialCallRejectsBrokenScript(t *testing.T) {
	for _, script := range []string{
		`function length(s) error("nope") end`,
		`function length(s) return "abc" end`,
		`function length(s) end`,
	} {
		if l, err := NewLuaString(script); err == nil {
			l.Close()
			t.Errorf("NewLuaString(%q) succeeded, want error", script)
		}
	}
}

func TestLuaMissingFunction(t *testing.T) {
	if _, err := NewLuaString(`x = 1`); err == nil {
		t.Error("expected error for missing length function")
	}
}

func TestLuaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "len.lua")
	script := "function length(s)\n  return #s\nend\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := NewLua(path)
	if err != nil {
		t.Fatalf("NewLua failed: %v", err)
	}
	defer l.Close()
	if got := l.Length("hello"); got != 5 {
		t.Errorf("Length() = %d, want 5", got)
	}
}
