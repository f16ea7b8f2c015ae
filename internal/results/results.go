// Package results pulls live tasks from the store and publishes them as
// immutable, score-ordered sequences.
package results

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/scoring"
)

// ScoredResult is a task plus its ranking score.
type ScoredResult struct {
	Task         models.Task
	Events       []models.TaskEvent // newest first
	LastEffortAt time.Time
	Score        int64
}

// Sequence is an ordered, read-only list of scored results.
// The zero value is an empty sequence.
type Sequence struct {
	items []ScoredResult
}

// NewSequence copies items into a new sequence, keeping their order.
func NewSequence(items []ScoredResult) Sequence {
	if len(items) == 0 {
		return Sequence{}
	}
	return Sequence{items: append([]ScoredResult(nil), items...)}
}

// Len returns the number of results.
func (s Sequence) Len() int { return len(s.items) }

// At returns the result at index i. It panics when i is out of range.
func (s Sequence) At(i int) ScoredResult { return s.items[i] }

// IndexOf returns the index of the first result for task id, or -1.
func (s Sequence) IndexOf(id int64) int {
	for i := range s.items {
		if s.items[i].Task.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the task ids in order.
func (s Sequence) IDs() []int64 {
	ids := make([]int64, len(s.items))
	for i := range s.items {
		ids[i] = s.items[i].Task.ID
	}
	return ids
}

// All returns a copy of the results.
func (s Sequence) All() []ScoredResult {
	return append([]ScoredResult(nil), s.items...)
}

// Select returns the results accepted by keep, in order.
func (s Sequence) Select(keep func(ScoredResult) bool) Sequence {
	var out []ScoredResult
	for _, r := range s.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Sequence{items: out}
}

// Equal reports whether both sequences hold the same tasks, in the same
// order, with the same scores.
func (s Sequence) Equal(o Sequence) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		a, b := s.items[i], o.items[i]
		if a.Score != b.Score || !sameTask(a.Task, b.Task) || len(a.Events) != len(b.Events) {
			return false
		}
		for j := range a.Events {
			if a.Events[j].ID != b.Events[j].ID {
				return false
			}
		}
	}
	return true
}

func sameTask(a, b models.Task) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Status == b.Status &&
		a.Priority == b.Priority && a.Duration == b.Duration &&
		a.RequiresInternet == b.RequiresInternet && a.CreatedAt.Equal(b.CreatedAt)
}

// Store is the part of the backing store the source reads from.
type Store interface {
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
	EventsByTask(ctx context.Context) (map[int64][]models.TaskEvent, error)
}

// Source pulls tasks and holds the most recently published sequence.
type Source struct {
	store   Store
	score   scoring.Func
	now     func() time.Time
	current Sequence
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithClock replaces time.Now when computing scores.
func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) { s.now = now }
}

// NewSource creates a source over store. A nil score uses scoring.Default.
func NewSource(store Store, score scoring.Func, opts ...SourceOption) *Source {
	if score == nil {
		score = scoring.Default
	}
	s := &Source{store: store, score: score, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pull queries live tasks, scores them, and publishes them sorted by score
// descending. Equal scores keep the store order. On error the previous
// sequence stays current.
func (s *Source) Pull(ctx context.Context) (Sequence, error) {
	tasks, err := s.store.ListActiveTasks(ctx)
	if err != nil {
		return s.current, fmt.Errorf("pull tasks: %w", err)
	}
	events, err := s.store.EventsByTask(ctx)
	if err != nil {
		return s.current, fmt.Errorf("pull task events: %w", err)
	}

	now := s.now()
	items := make([]ScoredResult, 0, len(tasks))
	for _, task := range tasks {
		evs := append([]models.TaskEvent(nil), events[task.ID]...)
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].CreatedAt.After(evs[j].CreatedAt)
		})
		items = append(items, ScoredResult{
			Task:         task,
			Events:       evs,
			LastEffortAt: scoring.LastEffort(task, evs),
			Score:        s.score(task, evs, now),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	s.current = Sequence{items: items}
	return s.current, nil
}

// Current returns the last published sequence.
func (s *Source) Current() Sequence { return s.current }

// Restore installs a previously published sequence without querying.
func (s *Source) Restore(seq Sequence) { s.current = seq }
