package history

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// Helper: an action that sets *s to after, and back to before on undo.
func newSetAction(h *History, s *string, after, desc string) *Action {
	before := *s
	a := h.BeginAction(Do)
	a.SetOps(
		func() error { *s = after; return nil },
		func() error { *s = before; return nil },
	)
	h.SetDescription(a, desc)
	return a
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{Do, "do"},
		{Undo, "undo"},
		{Redo, "redo"},
		{Direction(9), "Direction(9)"},
	}
	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestBeginActionUnsetDescription(t *testing.T) {
	h := New(0)
	a := h.BeginAction(Do)
	if a.Description() != "" {
		t.Errorf("Description() = %q, want empty", a.Description())
	}
	if a.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if a.Direction() != Do {
		t.Errorf("Direction() = %v, want do", a.Direction())
	}
}

func TestExecuteUndoRedo(t *testing.T) {
	h := New(0)
	text := "a"

	if err := h.Execute(newSetAction(h, &text, "b", "set b")); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if text != "b" {
		t.Fatalf("text = %q, want b", text)
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if text != "a" {
		t.Errorf("after undo text = %q, want a", text)
	}
	if !h.CanRedo() || h.CanUndo() {
		t.Error("stacks wrong after undo")
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if text != "b" {
		t.Errorf("after redo text = %q, want b", text)
	}
}

func TestUndoEmpty(t *testing.T) {
	h := New(0)
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
}

func TestCommitClearsRedo(t *testing.T) {
	h := New(0)
	text := "a"

	_ = h.Execute(newSetAction(h, &text, "b", "set b"))
	_ = h.Undo()
	if h.RedoCount() != 1 {
		t.Fatalf("RedoCount() = %d, want 1", h.RedoCount())
	}

	_ = h.Execute(newSetAction(h, &text, "c", "set c"))
	if h.RedoCount() != 0 {
		t.Errorf("RedoCount() = %d, want 0", h.RedoCount())
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
}

func TestCommitRejectsNonDo(t *testing.T) {
	h := New(0)
	a := h.BeginAction(Undo)
	a.SetOps(func() error { return nil }, func() error { return nil })
	if err := h.Commit(a); !errors.Is(err, ErrActionNotAccepted) {
		t.Errorf("Commit() = %v, want ErrActionNotAccepted", err)
	}

	bad := h.BeginAction(Direction(7))
	bad.SetOps(func() error { return nil }, nil)
	if err := h.Commit(bad); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Commit() = %v, want ErrInvalidDirection", err)
	}

	if err := h.Commit(h.BeginAction(Do)); !errors.Is(err, ErrEmptyAction) {
		t.Errorf("Commit() = %v, want ErrEmptyAction", err)
	}
}

func TestGroupUndoRedoTogether(t *testing.T) {
	h := New(0)
	a, b := "a1", "b1"

	_ = h.Execute(newSetAction(h, &a, "a2", "first"))
	_ = h.Execute(newSetAction(h, &b, "b2", "second"))

	group, err := h.Group(Do, 2, "Both")
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	for _, child := range group.Children() {
		if child.GroupID != group.ID {
			t.Error("child not stamped with group handle")
		}
	}
	info, ok := h.PeekUndo()
	if !ok || info.Description != "Both" || info.Steps != 2 {
		t.Errorf("PeekUndo() = %+v, want Both with 2 steps", info)
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if a != "a1" || b != "b1" {
		t.Errorf("after undo a=%q b=%q", a, b)
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if a != "a2" || b != "b2" {
		t.Errorf("after redo a=%q b=%q", a, b)
	}
}

func TestGroupUndoneActionsOnRedoStack(t *testing.T) {
	h := New(0)
	a, b := "a1", "b1"

	_ = h.Execute(newSetAction(h, &a, "a2", "first"))
	_ = h.Execute(newSetAction(h, &b, "b2", "second"))
	_ = h.Undo()
	_ = h.Undo()

	if _, err := h.Group(Undo, 2, "Both"); err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	if h.RedoCount() != 1 {
		t.Fatalf("RedoCount() = %d, want 1", h.RedoCount())
	}
	_ = h.Redo()
	if a != "a2" || b != "b2" {
		t.Errorf("after redo a=%q b=%q", a, b)
	}
}

func TestGroupTooLarge(t *testing.T) {
	h := New(0)
	s := ""
	_ = h.Execute(newSetAction(h, &s, "x", "x"))

	if _, err := h.Group(Do, 2, "too many"); !errors.Is(err, ErrGroupTooLarge) {
		t.Errorf("Group() = %v, want ErrGroupTooLarge", err)
	}
	if _, err := h.Group(Do, 0, "none"); !errors.Is(err, ErrGroupTooLarge) {
		t.Errorf("Group() = %v, want ErrGroupTooLarge", err)
	}
}

func TestMaxEntries(t *testing.T) {
	h := New(2)
	s := ""
	for _, v := range []string{"a", "b", "c"} {
		_ = h.Execute(newSetAction(h, &s, v, v))
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 1 || h.MaxEntries() != 1 {
		t.Errorf("after SetMaxEntries: count=%d max=%d", h.UndoCount(), h.MaxEntries())
	}
}

func TestUnboundedByDefault(t *testing.T) {
	h := New(0)
	s := ""
	for i := 0; i < 2000; i++ {
		_ = h.Execute(newSetAction(h, &s, "v", "v"))
	}
	if h.UndoCount() != 2000 {
		t.Errorf("UndoCount() = %d, want 2000", h.UndoCount())
	}
}

func TestUndoFailureRestoresEntry(t *testing.T) {
	h := New(0)
	failing := errors.New("boom")
	a := h.BeginAction(Do)
	a.SetOps(func() error { return nil }, func() error { return failing })
	_ = h.Execute(a)

	if err := h.Undo(); !errors.Is(err, failing) {
		t.Fatalf("Undo() = %v, want boom", err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
}

func TestCompoundExecuteRollsBack(t *testing.T) {
	h := New(0)
	s := "a"
	ok := newSetAction(h, &s, "b", "ok")
	bad := h.BeginAction(Do)
	bad.SetOps(func() error { return errors.New("fail") }, func() error { return nil })

	_ = h.Execute(ok)
	_ = h.Commit(bad)
	if _, err := h.Group(Do, 2, "mixed"); err != nil {
		t.Fatal(err)
	}
	_ = h.Undo()
	if s != "a" {
		t.Fatalf("s = %q, want a", s)
	}
	if err := h.Redo(); err == nil {
		t.Fatal("expected redo error")
	}
	if s != "a" {
		t.Errorf("s = %q after failed redo, want a", s)
	}
}

func TestBatch(t *testing.T) {
	h := New(0)
	a, b := "a1", "b1"

	err := h.Batch("Edit both", func() error {
		if err := h.Execute(newSetAction(h, &a, "a2", "a")); err != nil {
			return err
		}
		return h.Execute(newSetAction(h, &b, "b2", "b"))
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Description != "Edit both" {
		t.Errorf("Description = %q, want %q", info.Description, "Edit both")
	}
	_ = h.Undo()
	if a != "a1" || b != "b1" {
		t.Errorf("after undo a=%q b=%q", a, b)
	}
}

func TestBatchErrorReverts(t *testing.T) {
	h := New(0)
	s := "0"
	want := errors.New("stop")

	err := h.Batch("x", func() error {
		_ = h.Execute(newSetAction(h, &s, "1", "1"))
		_ = h.Execute(newSetAction(h, &s, "2", "2"))
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("Batch() = %v, want %v", err, want)
	}
	if s != "0" {
		t.Errorf("s = %q, want 0", s)
	}
	if h.IsGrouping() || h.CanUndo() {
		t.Error("failed batch left state behind")
	}
}

func TestEndGroupSingleAction(t *testing.T) {
	h := New(0)
	s := ""
	h.BeginGroup("ignored")
	_ = h.Execute(newSetAction(h, &s, "x", "only"))
	h.EndGroup()

	info, _ := h.PeekUndo()
	if info.Description != "only" {
		t.Errorf("Description = %q, want only", info.Description)
	}
}

func TestCancelGroupKeepsEffects(t *testing.T) {
	h := New(0)
	s := ""
	h.BeginGroup("g")
	_ = h.Execute(newSetAction(h, &s, "x", "x"))
	h.CancelGroup()

	if s != "x" || h.CanUndo() {
		t.Errorf("s = %q, CanUndo = %v", s, h.CanUndo())
	}
}

func TestCommitClosesOpenGroup(t *testing.T) {
	h := New(0)
	s := ""
	h.BeginGroup("grouped")
	_ = h.Execute(newSetAction(h, &s, "x", "x"))
	_ = h.Execute(newSetAction(h, &s, "y", "y"))

	late := newSetAction(h, &s, "z", "late")
	_ = late.Execute()
	if err := h.Commit(late); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if h.IsGrouping() {
		t.Error("Commit left the group open")
	}
	undo := h.UndoInfo()
	if len(undo) != 2 || undo[0].Description != "grouped" || undo[0].Steps != 2 || undo[1].Description != "late" {
		t.Errorf("UndoInfo() = %+v", undo)
	}
}

func TestCompound(t *testing.T) {
	tests := []struct {
		name       string
		maxEntries int
		batch      bool
	}{
		{"unbounded", 0, false},
		{"depth limit of one", 1, false},
		{"inside batch", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.maxEntries)
			a, b := "a1", "b1"
			run := func() error {
				c := h.Compound("both", newSetAction(h, &a, "a2", "a"), newSetAction(h, &b, "b2", "b"))
				return h.Execute(c)
			}
			var err error
			if tt.batch {
				err = h.Batch("outer", run)
			} else {
				err = run()
			}
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if a != "a2" || b != "b2" {
				t.Fatalf("a=%q b=%q after execute", a, b)
			}
			if h.UndoCount() != 1 {
				t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
			}
			if err := h.Undo(); err != nil {
				t.Fatal(err)
			}
			if a != "a1" || b != "b1" {
				t.Errorf("a=%q b=%q after undo", a, b)
			}
		})
	}
}

func TestCompoundFailureRecordsNothing(t *testing.T) {
	h := New(0)
	s := "a"
	bad := h.BeginAction(Do)
	bad.SetOps(func() error { return errors.New("fail") }, func() error { return nil })

	c := h.Compound("mixed", newSetAction(h, &s, "b", "ok"), bad)
	if err := h.Execute(c); err == nil {
		t.Fatal("expected error")
	}
	if s != "a" {
		t.Errorf("s = %q, want a", s)
	}
	if h.CanUndo() {
		t.Error("failed compound was recorded")
	}
}

func TestCheckpoint(t *testing.T) {
	h := New(0)
	s := "0"
	_ = h.Execute(newSetAction(h, &s, "1", "1"))
	cp := h.CreateCheckpoint()
	_ = h.Execute(newSetAction(h, &s, "2", "2"))
	_ = h.Execute(newSetAction(h, &s, "3", "3"))
	if _, err := h.Group(Do, 2, "2 and 3"); err != nil {
		t.Fatal(err)
	}

	if err := h.UndoToCheckpoint(cp); err != nil {
		t.Fatal(err)
	}
	if s != "1" {
		t.Errorf("s = %q, want 1", s)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 1 {
		t.Errorf("UndoCount = %d, RedoCount = %d", h.UndoCount(), h.RedoCount())
	}
}

func TestInfo(t *testing.T) {
	h := New(0)
	s := ""
	_ = h.Execute(newSetAction(h, &s, "a", "first"))
	_ = h.Execute(newSetAction(h, &s, "b", "second"))
	_ = h.Undo()

	undo := h.UndoInfo()
	redo := h.RedoInfo()
	if len(undo) != 1 || undo[0].Description != "first" {
		t.Errorf("UndoInfo() = %+v", undo)
	}
	if len(redo) != 1 || redo[0].Description != "second" {
		t.Errorf("RedoInfo() = %+v", redo)
	}
	if info, ok := h.PeekRedo(); !ok || info.Description != "second" {
		t.Errorf("PeekRedo() = %+v, %v", info, ok)
	}

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear did not empty stacks")
	}
}
