// Package cursor tracks the selected row of the filtered sequence and keeps
// following the same task across refreshes.
package cursor

import "github.com/fentz26/reviewer/internal/results"

// End names one end of the sequence.
type End int

const (
	Top End = iota
	Bottom
)

// State is the snapshot of a Cursor. Index is 0 when Results is empty and
// otherwise in [0, Results.Len()).
type State struct {
	Index   int
	Results results.Sequence
}

// Selected returns the result under the cursor.
func (s State) Selected() (results.ScoredResult, bool) {
	if s.Results.Len() == 0 {
		return results.ScoredResult{}, false
	}
	return s.Results.At(s.Index), true
}

// Cursor is a selection index over a sequence.
type Cursor struct {
	index   int
	results results.Sequence
}

// New returns a cursor over an empty sequence.
func New() *Cursor { return &Cursor{} }

// Refresh installs seq. The previously selected task stays selected when it
// is still present; otherwise the old index is clamped into range.
func (c *Cursor) Refresh(seq results.Sequence) {
	id, had := c.SelectedID()
	prev := c.index
	c.results = seq
	if had && c.JumpToID(id) {
		return
	}
	c.index = clamp(prev, seq.Len())
}

// Move shifts the selection by delta, saturating at both ends. It reports
// whether the index changed.
func (c *Cursor) Move(delta int) bool {
	return c.set(clamp(c.index+delta, c.results.Len()))
}

// Jump selects the first or last row. It reports whether the index changed.
func (c *Cursor) Jump(end End) bool {
	if end == Bottom {
		return c.set(clamp(c.results.Len()-1, c.results.Len()))
	}
	return c.set(0)
}

// JumpToID selects the first row holding task id. It reports false and
// leaves the index alone when the task is not in the sequence.
func (c *Cursor) JumpToID(id int64) bool {
	i := c.results.IndexOf(id)
	if i < 0 {
		return false
	}
	c.index = i
	return true
}

// Index returns the selected position.
func (c *Cursor) Index() int { return c.index }

// Results returns the sequence under the cursor.
func (c *Cursor) Results() results.Sequence { return c.results }

// Selected returns the result under the cursor.
func (c *Cursor) Selected() (results.ScoredResult, bool) { return c.State().Selected() }

// SelectedID returns the task id under the cursor.
func (c *Cursor) SelectedID() (int64, bool) {
	r, ok := c.Selected()
	return r.Task.ID, ok
}

// State returns a snapshot of the cursor.
func (c *Cursor) State() State {
	return State{Index: c.index, Results: c.results}
}

// Restore installs a snapshot. The index is clamped in case the snapshot
// was built by hand.
func (c *Cursor) Restore(st State) {
	c.results = st.Results
	c.index = clamp(st.Index, st.Results.Len())
}

func (c *Cursor) set(i int) bool {
	if i == c.index {
		return false
	}
	c.index = i
	return true
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
