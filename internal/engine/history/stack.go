package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors for history operations.
var (
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrInvalidDirection  = errors.New("invalid action direction")
	ErrEmptyAction       = errors.New("action has no operations")
	ErrGroupTooLarge     = errors.New("group count exceeds stack size")
	ErrActionNotAccepted = errors.New("only Do actions can be committed")
)

// History manages undo/redo state for a subtitle collection.
//
// The mutex only protects the stacks; callers must still serialize
// mutating operations on the collection itself.
type History struct {
	mu sync.Mutex

	undoStack []*Action
	redoStack []*Action

	// Grouping state
	grouping  bool
	groupName string
	groupActs []*Action

	// Configuration
	maxEntries int
	logger     *slog.Logger
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a new history manager. A maxEntries of zero or less leaves
// the undo stack unbounded.
func New(maxEntries int, opts ...Option) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	h := &History{
		maxEntries: maxEntries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BeginAction returns a new action handle tagged with dir.
// The description is unset.
func (h *History) BeginAction(dir Direction) *Action {
	return newAction(dir)
}

// SetDescription sets the label of an action after its results are known.
func (h *History) SetDescription(a *Action, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	a.SetDescription(text)
}

// Execute runs the action's forward operation and records it. While a
// group is open the action joins the group; otherwise it is pushed to the
// undo stack. Either way the redo stack is cleared.
func (h *History) Execute(a *Action) error {
	if err := h.check(a); err != nil {
		return err
	}
	if err := a.Execute(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.redoStack = nil
	if h.grouping {
		h.groupActs = append(h.groupActs, a)
		return nil
	}
	h.pushLocked(a)
	h.logger.Debug("history execute", "action", a.ID, "description", a.Description())
	return nil
}

// Commit records an already applied Do action. It closes any open group,
// pushing the group's actions first, then pushes a and clears the redo
// stack.
func (h *History) Commit(a *Action) error {
	if err := h.check(a); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.redoStack = nil
	if h.grouping {
		h.closeGroupLocked()
	}
	h.pushLocked(a)
	h.logger.Debug("history commit", "action", a.ID, "description", a.Description())
	return nil
}

func (h *History) check(a *Action) error {
	if a == nil || a.isEmpty() {
		return ErrEmptyAction
	}
	if !a.direction.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, int(a.direction))
	}
	if a.direction != Do {
		return fmt.Errorf("%w: got %s", ErrActionNotAccepted, a.direction)
	}
	return nil
}

// pushLocked adds an action to the undo stack. h.mu must be held.
func (h *History) pushLocked(a *Action) {
	h.undoStack = append(h.undoStack, a)
	h.trimLocked()
}

// trimLocked drops the oldest undo entries beyond maxEntries.
func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; h.maxEntries > 0 && excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the last action and moves it to the redo stack.
// The lock is released while the inverse operation runs.
func (h *History) Undo() error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := entry.Undo(); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	entry.direction = Undo
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	h.logger.Debug("history undo", "action", entry.ID, "description", entry.Description())
	return nil
}

// Redo reapplies the last undone action and moves it to the undo stack.
// The lock is released while the forward operation runs.
func (h *History) Redo() error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := entry.Execute(); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	entry.direction = Redo
	h.pushLocked(entry)
	h.mu.Unlock()
	h.logger.Debug("history redo", "action", entry.ID, "description", entry.Description())
	return nil
}

// depths returns the sizes of the undo and redo stacks.
func (h *History) depths() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack), len(h.redoStack)
}

// CanUndo reports whether Undo has an action to revert.
func (h *History) CanUndo() bool { return h.UndoCount() > 0 }

// CanRedo reports whether Redo has an action to reapply.
func (h *History) CanRedo() bool { return h.RedoCount() > 0 }

// UndoCount is the number of actions Undo can revert in a row.
func (h *History) UndoCount() int {
	n, _ := h.depths()
	return n
}

// RedoCount is the number of actions Redo can reapply in a row.
func (h *History) RedoCount() int {
	_, n := h.depths()
	return n
}

// IsGrouping reports whether BeginGroup is waiting for EndGroup.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear forgets every recorded action and drops an open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack, h.redoStack = nil, nil
	h.grouping, h.groupName, h.groupActs = false, "", nil
}

// UndoInfo describes the undo stack, oldest action first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return describe(h.undoStack)
}

// RedoInfo describes the redo stack, oldest action first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return describe(h.redoStack)
}

// PeekUndo describes the action Undo would revert next.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return top(h.undoStack)
}

// PeekRedo describes the action Redo would reapply next.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return top(h.redoStack)
}

func describe(stack []*Action) []OperationInfo {
	out := make([]OperationInfo, len(stack))
	for i, a := range stack {
		out[i] = a.info()
	}
	return out
}

func top(stack []*Action) (OperationInfo, bool) {
	if len(stack) == 0 {
		return OperationInfo{}, false
	}
	return stack[len(stack)-1].info(), true
}

// SetMaxEntries changes the undo depth; 0 is unbounded. The oldest
// actions beyond the new depth are dropped at once.
func (h *History) SetMaxEntries(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = max(n, 0)
	h.trimLocked()
}

// MaxEntries returns the undo depth, 0 if unbounded.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
