package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction tags an action with the kind of history step that produced it.
type Direction int

const (
	// Do is a new user action.
	Do Direction = iota
	// Undo is the result of undoing an action; it lives on the redo stack.
	Undo
	// Redo is the result of redoing an action; it lives on the undo stack.
	Redo
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Do:
		return "do"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool {
	return d >= Do && d <= Redo
}

// Op is one half of a reversible edit.
type Op func() error

// Action is a single revertable step, or a compound of grouped steps.
type Action struct {
	// ID uniquely identifies the action. For compound actions it is the
	// group handle stamped onto every member.
	ID uuid.UUID

	// GroupID is the ID of the compound action this action was merged
	// into, or uuid.Nil.
	GroupID uuid.UUID

	direction   Direction
	description string
	forward     Op
	inverse     Op
	children    []*Action
	timestamp   time.Time
}

func newAction(dir Direction) *Action {
	return &Action{
		ID:        uuid.New(),
		direction: dir,
		timestamp: time.Now(),
	}
}

// SetOps sets the forward and inverse operations and returns the action
// for chaining.
func (a *Action) SetOps(forward, inverse Op) *Action {
	a.forward = forward
	a.inverse = inverse
	return a
}

// SetDescription sets the late-bound label of the action.
func (a *Action) SetDescription(text string) {
	a.description = text
}

// Direction returns the direction tag of the action.
func (a *Action) Direction() Direction {
	return a.direction
}

// Timestamp returns when the action was created.
func (a *Action) Timestamp() time.Time {
	return a.timestamp
}

// Children returns the members of a compound action.
func (a *Action) Children() []*Action {
	return a.children
}

// IsCompound returns true if the action groups other actions.
func (a *Action) IsCompound() bool {
	return len(a.children) > 0
}

// Execute applies the forward operation. Compound actions apply their
// members in order; if one fails the already applied members are reverted.
func (a *Action) Execute() error {
	if a.IsCompound() {
		for i, child := range a.children {
			if err := child.Execute(); err != nil {
				for j := i - 1; j >= 0; j-- {
					_ = a.children[j].Undo()
				}
				return fmt.Errorf("action '%s' step %d: %w", a.description, i, err)
			}
		}
		return nil
	}
	if a.forward == nil {
		return nil
	}
	return a.forward()
}

// Undo applies the inverse operation. Compound actions revert their
// members in reverse order.
func (a *Action) Undo() error {
	if a.IsCompound() {
		for i := len(a.children) - 1; i >= 0; i-- {
			if err := a.children[i].Undo(); err != nil {
				return fmt.Errorf("undo action '%s' step %d: %w", a.description, i, err)
			}
		}
		return nil
	}
	if a.inverse == nil {
		return nil
	}
	return a.inverse()
}

// Description returns the label of the action.
func (a *Action) Description() string {
	if a.description != "" {
		return a.description
	}
	if len(a.children) == 1 {
		return a.children[0].Description()
	}
	if len(a.children) > 1 {
		return fmt.Sprintf("%d operations", len(a.children))
	}
	return ""
}

func (a *Action) isEmpty() bool {
	return a.forward == nil && a.inverse == nil && len(a.children) == 0
}

func (a *Action) info() OperationInfo {
	return OperationInfo{
		ID:          a.ID,
		Description: a.Description(),
		Timestamp:   a.timestamp,
		Steps:       max(len(a.children), 1),
	}
}

// OperationInfo is a snapshot of a recorded action for reports.
type OperationInfo struct {
	ID          uuid.UUID
	Description string
	Timestamp   time.Time
	Steps       int // children of a compound, 1 otherwise
}
