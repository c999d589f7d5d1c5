package history

import "fmt"

// Group merges the last count actions of the stack selected by dir into a
// single compound action carrying description. Do and Redo actions live
// on the undo stack, Undo actions on the redo stack. The compound action
// is returned; its ID is the group handle stamped onto every member.
func (h *History) Group(dir Direction, count int, description string) (*Action, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	stack := &h.undoStack
	if dir == Undo {
		stack = &h.redoStack
	}
	if count < 1 || count > len(*stack) {
		return nil, fmt.Errorf("%w: %d of %d", ErrGroupTooLarge, count, len(*stack))
	}

	start := len(*stack) - count
	members := make([]*Action, count)
	copy(members, (*stack)[start:])

	compound := newAction(dir)
	compound.description = description
	compound.children = members
	for _, m := range members {
		m.GroupID = compound.ID
	}

	*stack = append((*stack)[:start], compound)
	h.logger.Debug("history group", "group", compound.ID, "count", count, "description", description)
	return compound, nil
}

// Compound builds a Do action applying members in order as one step.
// Members must not have been executed or recorded. The compound's ID is
// stamped onto every member as its group handle.
func (h *History) Compound(description string, members ...*Action) *Action {
	compound := newAction(Do)
	compound.description = description
	compound.children = members
	for _, m := range members {
		m.GroupID = compound.ID
	}
	return compound
}

// BeginGroup opens the group accumulator. Actions run through Execute
// until EndGroup are pushed as one compound action labelled description.
// Nested calls are ignored.
func (h *History) BeginGroup(description string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = description
	h.groupActs = nil
}

// EndGroup closes the accumulator and pushes what it collected. A single
// action is pushed unwrapped.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeGroupLocked()
}

func (h *History) closeGroupLocked() {
	name := h.groupName
	acts := h.takeGroupLocked()
	switch len(acts) {
	case 0:
	case 1:
		h.pushLocked(acts[0])
	default:
		compound := newAction(Do)
		compound.description = name
		compound.children = acts
		for _, a := range acts {
			a.GroupID = compound.ID
		}
		h.pushLocked(compound)
	}
}

// CancelGroup closes the accumulator and forgets its actions. Their
// effects on the collection stay applied.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.takeGroupLocked()
}

func (h *History) takeGroupLocked() []*Action {
	acts := h.groupActs
	h.grouping = false
	h.groupActs = nil
	return acts
}

// Batch runs fn with the accumulator open. When fn fails, the actions it
// executed are reverted, newest first, and nothing is recorded.
func (h *History) Batch(description string, fn func() error) error {
	h.BeginGroup(description)
	err := fn()
	if err == nil {
		h.EndGroup()
		return nil
	}

	h.mu.Lock()
	acts := h.takeGroupLocked()
	h.mu.Unlock()
	for i := len(acts) - 1; i >= 0; i-- {
		if uerr := acts[i].Undo(); uerr != nil {
			return fmt.Errorf("%w (revert failed: %v)", err, uerr)
		}
	}
	return err
}

// Checkpoint is a depth of the undo stack.
type Checkpoint struct {
	depth int
}

// CreateCheckpoint records the current undo depth.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{depth: h.UndoCount()}
}

// UndoToCheckpoint undoes every action recorded above cp. Actions that
// were merged by Group count once.
func (h *History) UndoToCheckpoint(cp Checkpoint) error {
	for n := h.UndoCount() - cp.depth; n > 0; n-- {
		if err := h.Undo(); err != nil {
			return fmt.Errorf("undo to checkpoint: %w", err)
		}
	}
	return nil
}
