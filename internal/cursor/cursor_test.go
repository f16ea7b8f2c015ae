package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/results"
)

func seqOf(ids ...int64) results.Sequence {
	items := make([]results.ScoredResult, len(ids))
	for i, id := range ids {
		items[i] = results.ScoredResult{Task: models.Task{ID: id}}
	}
	return results.NewSequence(items)
}

func selected(t *testing.T, c *Cursor) int64 {
	t.Helper()
	id, ok := c.SelectedID()
	if !ok {
		t.Fatal("expected a selection")
	}
	return id
}

func TestEmptyCursor(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Index())
	_, ok := c.Selected()
	assert.False(t, ok)

	assert.False(t, c.Move(1))
	assert.False(t, c.Move(-1))
	assert.False(t, c.Jump(Bottom))
	assert.False(t, c.JumpToID(3))
	assert.Equal(t, 0, c.Index())
}

func TestMoveSaturates(t *testing.T) {
	c := New()
	c.Refresh(seqOf(1, 2, 3))

	assert.False(t, c.Move(-1))
	assert.Equal(t, 0, c.Index())

	assert.True(t, c.Move(1))
	assert.True(t, c.Move(1))
	assert.False(t, c.Move(1))
	assert.Equal(t, 2, c.Index())

	assert.True(t, c.Move(-10))
	assert.Equal(t, 0, c.Index())
}

func TestJump(t *testing.T) {
	c := New()
	c.Refresh(seqOf(1, 2, 3, 4))

	assert.True(t, c.Jump(Bottom))
	assert.Equal(t, int64(4), selected(t, c))
	assert.False(t, c.Jump(Bottom))
	assert.True(t, c.Jump(Top))
	assert.Equal(t, int64(1), selected(t, c))

	assert.True(t, c.JumpToID(3))
	assert.Equal(t, 2, c.Index())
	assert.False(t, c.JumpToID(99))
	assert.Equal(t, 2, c.Index())
}

func TestRefreshFollowsIdentity(t *testing.T) {
	tests := []struct {
		name   string
		before []int64
		pick   int64
		after  []int64
		want   int
	}{
		{"insert above", []int64{1, 2, 3}, 2, []int64{9, 1, 2, 3}, 2},
		{"remove above", []int64{1, 2, 3}, 3, []int64{2, 3}, 1},
		{"reorder", []int64{1, 2, 3}, 1, []int64{3, 2, 1}, 2},
		{"first match wins", []int64{1, 2}, 2, []int64{2, 5, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Refresh(seqOf(tt.before...))
			c.JumpToID(tt.pick)

			c.Refresh(seqOf(tt.after...))
			assert.Equal(t, tt.want, c.Index())
			assert.Equal(t, tt.pick, selected(t, c))
		})
	}
}

func TestRefreshClampsWhenSelectionGone(t *testing.T) {
	tests := []struct {
		name   string
		before []int64
		index  int
		after  []int64
		want   int
	}{
		{"hold index", []int64{1, 2, 3, 4}, 1, []int64{1, 3, 4}, 1},
		{"clamp to last", []int64{1, 2, 3, 4}, 3, []int64{1, 2}, 1},
		{"empty", []int64{1, 2}, 1, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Refresh(seqOf(tt.before...))
			c.Move(tt.index)

			c.Refresh(seqOf(tt.after...))
			assert.Equal(t, tt.want, c.Index())
			n := c.Results().Len()
			if n > 0 {
				assert.Less(t, c.Index(), n)
			}
			assert.GreaterOrEqual(t, c.Index(), 0)
		})
	}
}

func TestRefreshFromEmptySelectsTop(t *testing.T) {
	c := New()
	c.Refresh(seqOf())
	c.Refresh(seqOf(4, 5))
	assert.Equal(t, int64(4), selected(t, c))
}

func TestRestore(t *testing.T) {
	c := New()
	c.Refresh(seqOf(1, 2, 3))
	c.Move(2)
	snap := c.State()

	c.Refresh(seqOf(7))
	c.Restore(snap)
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, int64(3), selected(t, c))

	c.Restore(State{Index: 5, Results: seqOf(1)})
	assert.Equal(t, 0, c.Index())
}
