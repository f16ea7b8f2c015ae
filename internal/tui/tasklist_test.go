package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/fentz26/reviewer/internal/cursor"
	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/results"
)

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "now"},
		{59 * time.Second, "now"},
		{time.Minute, "1m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h 0m"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{24 * time.Hour, "1d 0h"},
		{4*24*time.Hour + 3*time.Hour, "4d 3h"},
		{7 * 24 * time.Hour, "1w 0d"},
		{23*24*time.Hour + 5*time.Hour, "3w 2d"},
		{-time.Hour, "now"},
	}

	for _, tt := range tests {
		if got := FormatAge(tt.age); got != tt.want {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := pad("abc", 5); got != "abc  " {
		t.Errorf("pad short = %q", got)
	}
	got := pad("a very long task title", 10)
	if w := runewidth.StringWidth(got); w != 10 {
		t.Errorf("pad long width = %d, want 10 (%q)", w, got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	// Wide runes count two cells each.
	if w := runewidth.StringWidth(pad("日本語のタスク", 6)); w != 6 {
		t.Errorf("pad wide width = %d, want 6", w)
	}
}

func makeSequence(n int) results.Sequence {
	items := make([]results.ScoredResult, n)
	for i := range items {
		items[i] = results.ScoredResult{Task: models.Task{
			ID:       int64(i + 1),
			Title:    "task",
			Status:   models.TaskStatusAvailable,
			Priority: models.TaskPriorityMedium,
			Duration: models.TaskDurationMedium,
		}}
	}
	return results.NewSequence(items)
}

func TestTaskTableScroll(t *testing.T) {
	table := newTaskTable()
	table.setHeight(2)
	seq := makeSequence(5)

	table.SequenceReplaced(cursor.State{Index: 3, Results: seq})
	if table.offset != 2 {
		t.Errorf("offset = %d, want 2", table.offset)
	}

	table.PositionChanged(3, cursor.State{Index: 0, Results: seq})
	if table.offset != 0 {
		t.Errorf("offset after moving up = %d, want 0", table.offset)
	}

	table.PositionChanged(0, cursor.State{Index: 4, Results: seq})
	if table.offset != 3 {
		t.Errorf("offset at bottom = %d, want 3", table.offset)
	}

	// A shorter sequence pulls the window back.
	table.SequenceReplaced(cursor.State{Index: 0, Results: makeSequence(1)})
	if table.offset != 0 {
		t.Errorf("offset after shrink = %d, want 0", table.offset)
	}
}

func TestTaskTableRender(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	seq := results.NewSequence([]results.ScoredResult{
		{
			Task: models.Task{ID: 7, Title: "Water plants", Status: models.TaskStatusAvailable,
				Priority: models.TaskPriorityHigh, Duration: models.TaskDurationShort, RequiresInternet: true},
			LastEffortAt: now.Add(-50 * time.Hour),
		},
		{
			Task: models.Task{ID: 9, Title: "File taxes", Status: models.TaskStatusAvailable,
				Priority: models.TaskPriorityLow, Duration: models.TaskDurationLong},
			LastEffortAt: now.Add(-10 * time.Minute),
		},
	})

	table := newTaskTable()
	table.SequenceReplaced(cursor.State{Index: 0, Results: seq})
	out := table.Render(100, now)

	for _, want := range []string{"id", "title", "prior", "durr", "age", "status", "internet",
		"Water plants", "2d 2h", "high", "short", "yes", "File taxes", "10m", "long"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", lines)
	}
}

func TestTaskTableRenderEmpty(t *testing.T) {
	table := newTaskTable()
	out := table.Render(80, time.Now())
	if !strings.Contains(out, "No tasks") {
		t.Errorf("expected empty notice, got:\n%s", out)
	}
}
