package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[line_break]
max_length = 40
max_deviation = 0.2

[logging]
level = "debug"
`)

	m, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lb, ok := m["line_break"].(map[string]any)
	if !ok {
		t.Fatalf("line_break section missing: %v", m)
	}
	if lb["max_length"] != int64(40) {
		t.Errorf("max_length = %v (%T), want 40", lb["max_length"], lb["max_length"])
	}
	if lb["max_deviation"] != 0.2 {
		t.Errorf("max_deviation = %v, want 0.2", lb["max_deviation"])
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	m, err := NewTOMLLoaderWithFS(NewMemFS(), "/none.toml").Load()
	if err != nil || m != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", m, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[line_break]\nmax_length = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" || perr.Line != 2 {
		t.Errorf("ParseError = %+v", perr)
	}
}

func TestLoadFromReader(t *testing.T) {
	m, err := LoadFromReader(strings.NewReader("[history]\nlimit_undo = true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m["history"].(map[string]any)["limit_undo"] != true {
		t.Errorf("limit_undo = %v", m)
	}
}

func TestEnvLoader(t *testing.T) {
	env := map[string]string{
		"SUBFIX_LINE_BREAK_MAX_LENGTH":    "32",
		"SUBFIX_LINE_BREAK_MAX_DEVIATION": "0.25",
		"SUBFIX_HISTORY_LIMIT_UNDO":       "yes",
		"SUBFIX_LOGGING_LEVEL":            "warn",
	}
	l := NewEnvLoader("SUBFIX_", map[string]Kind{
		"line_break.max_length":    Int,
		"line_break.max_deviation": Float,
		"line_break.max_lines":     Int,
		"history.limit_undo":       Bool,
		"logging.level":            String,
	})
	l.lookup = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	m, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lb := m["line_break"].(map[string]any)
	if lb["max_length"] != int64(32) {
		t.Errorf("max_length = %v", lb["max_length"])
	}
	if lb["max_deviation"] != 0.25 {
		t.Errorf("max_deviation = %v", lb["max_deviation"])
	}
	if _, ok := lb["max_lines"]; ok {
		t.Error("unset variable loaded")
	}
	if m["history"].(map[string]any)["limit_undo"] != true {
		t.Error("limit_undo not loaded")
	}
	if m["logging"].(map[string]any)["level"] != "warn" {
		t.Error("level not loaded")
	}
}

func TestEnvLoader_BadValue(t *testing.T) {
	l := NewEnvLoader("SUBFIX_", map[string]Kind{"line_break.max_lines": Int})
	l.lookup = func(string) (string, bool) { return "two", true }
	if _, err := l.Load(); err == nil {
		t.Error("expected error for non-integer value")
	}
}

func TestEnvName(t *testing.T) {
	l := NewEnvLoader("SUBFIX_", nil)
	if got := l.EnvName("line_break.max_skip_length"); got != "SUBFIX_LINE_BREAK_MAX_SKIP_LENGTH" {
		t.Errorf("EnvName() = %q", got)
	}
}

func TestMerge(t *testing.T) {
	base := map[string]any{
		"line_break": map[string]any{"max_length": int64(44), "max_lines": int64(2)},
		"logging":    map[string]any{"level": "info"},
	}
	over := map[string]any{
		"line_break": map[string]any{"max_length": int64(30)},
		"history":    map[string]any{"limit_undo": true},
	}
	got := Merge(base, over)

	lb := got["line_break"].(map[string]any)
	if lb["max_length"] != int64(30) || lb["max_lines"] != int64(2) {
		t.Errorf("line_break = %v", lb)
	}
	if got["logging"].(map[string]any)["level"] != "info" {
		t.Error("logging lost")
	}
	if got["history"].(map[string]any)["limit_undo"] != true {
		t.Error("history not merged")
	}
}
