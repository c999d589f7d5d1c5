// Package history provides the revertable-action framework every mutating
// operation on a subtitle collection goes through.
//
// Each edit is an Action that carries its own forward and inverse
// operations, so it can be executed, undone and redone.
//
// # Actions
//
// An Action is created by BeginAction with a Direction tag (Do, Undo or
// Redo). Its forward and inverse operations are supplied by the caller,
// and its description may be set after the results are known:
//
//	a := h.BeginAction(history.Do)
//	a.SetOps(apply, restore)
//	h.SetDescription(a, "Correcting common errors")
//	h.Execute(a)
//
// # History Stack
//
// The History type manages undo/redo stacks. Committing a new Do action
// clears the redo stack:
//
//	h := history.New(0) // unbounded
//	h.Undo()
//	h.Redo()
//
// # Grouping
//
// Compound builds a grouped action before it runs, so its members are
// recorded together or not at all:
//
//	h.Execute(h.Compound("Removing hearing impaired texts", replace, remove))
//
// The last N actions on a stack can also be merged after the fact:
//
//	h.Group(history.Do, 2, "Fix entry")
//
// Batch groups whatever a function commits, and reverts it if the
// function fails:
//
//	err := h.Batch("Fix entry", func() error { ... })
package history
