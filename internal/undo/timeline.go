// Package undo keeps the history of reversible actions together with the
// view state captured right after each one ran.
package undo

import (
	"context"

	"github.com/fentz26/reviewer/internal/action"
)

// Entry pairs an executed action with the state captured after it.
type Entry[S any] struct {
	Action action.Reversible
	State  S
}

// Timeline is an append/undo/redo history. Position -1 means nothing has
// been done yet and the initial state is current.
type Timeline[S any] struct {
	initial S
	entries []Entry[S]
	pos     int
}

// New returns an empty timeline whose current state is initial.
func New[S any](initial S) *Timeline[S] {
	return &Timeline[S]{initial: initial, pos: -1}
}

// Append drops every entry after the current position, then records a and
// the state it produced.
func (t *Timeline[S]) Append(a action.Reversible, s S) {
	t.entries = append(t.entries[:t.pos+1], Entry[S]{Action: a, State: s})
	t.pos = len(t.entries) - 1
}

// Undo reverses the current action and returns the state recorded before it.
// ok is false when there is nothing to undo. When the action fails the
// position is left unchanged.
func (t *Timeline[S]) Undo(ctx context.Context, env action.Env) (s S, ok bool, err error) {
	if t.pos < 0 {
		return s, false, nil
	}
	if err := t.entries[t.pos].Action.Unexecute(ctx, env); err != nil {
		return s, false, err
	}
	t.pos--
	return t.Current(), true, nil
}

// Redo runs the next action again against the live store and returns the
// state recorded after it. ok is false when there is nothing to redo.
func (t *Timeline[S]) Redo(ctx context.Context, env action.Env) (s S, ok bool, err error) {
	target := t.pos + 1
	if target >= len(t.entries) {
		return s, false, nil
	}
	if err := action.Redo(ctx, t.entries[target].Action, env); err != nil {
		return s, false, err
	}
	t.pos = target
	return t.entries[target].State, true, nil
}

// Current returns the state at the current position.
func (t *Timeline[S]) Current() S {
	if t.pos < 0 {
		return t.initial
	}
	return t.entries[t.pos].State
}

// ReplaceCurrent overwrites the state at the current position without
// adding an entry. Used for changes that are not undoable, like moving the
// selection.
func (t *Timeline[S]) ReplaceCurrent(s S) {
	if t.pos < 0 {
		t.initial = s
		return
	}
	t.entries[t.pos].State = s
}

// Position returns the index of the current entry, or false at the initial
// state.
func (t *Timeline[S]) Position() (int, bool) {
	return t.pos, t.pos >= 0
}

// Len returns the number of recorded entries, including undone ones.
func (t *Timeline[S]) Len() int { return len(t.entries) }

// CanUndo reports whether Undo would do anything.
func (t *Timeline[S]) CanUndo() bool { return t.pos >= 0 }

// CanRedo reports whether Redo would do anything.
func (t *Timeline[S]) CanRedo() bool { return t.pos+1 < len(t.entries) }

// NextUndo returns the action Undo would reverse.
func (t *Timeline[S]) NextUndo() (action.Reversible, bool) {
	if !t.CanUndo() {
		return nil, false
	}
	return t.entries[t.pos].Action, true
}

// NextRedo returns the action Redo would run.
func (t *Timeline[S]) NextRedo() (action.Reversible, bool) {
	if !t.CanRedo() {
		return nil, false
	}
	return t.entries[t.pos+1].Action, true
}
