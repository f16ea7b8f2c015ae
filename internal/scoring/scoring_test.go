package scoring

import (
	"testing"
	"time"

	"github.com/fentz26/reviewer/internal/models"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func task(p models.TaskPriority, d models.TaskDuration, age time.Duration) models.Task {
	return models.Task{ID: 1, Priority: p, Duration: d, CreatedAt: now.Add(-age)}
}

func event(typ models.TaskEventType, ago time.Duration) models.TaskEvent {
	return models.TaskEvent{TaskID: 1, Type: typ, CreatedAt: now.Add(-ago)}
}

func TestDefaultWeights(t *testing.T) {
	const day = 24 * time.Hour
	f := 1.42
	tests := []struct {
		name   string
		task   models.Task
		factor float64
	}{
		{"low long", task(models.TaskPriorityLow, models.TaskDurationLong, day), 1},
		{"medium long", task(models.TaskPriorityMedium, models.TaskDurationLong, day), f},
		{"high long", task(models.TaskPriorityHigh, models.TaskDurationLong, day), f * f},
		{"low short", task(models.TaskPriorityLow, models.TaskDurationShort, day), f * f},
		{"low medium", task(models.TaskPriorityLow, models.TaskDurationMedium, day), f},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := int64(86400 * tt.factor)
			if got := Default(tt.task, nil, now); got != want {
				t.Errorf("Default() = %d, want %d", got, want)
			}
		})
	}

	// Shorter and more urgent tasks always outrank at equal age.
	urgent := Default(task(models.TaskPriorityHigh, models.TaskDurationShort, day), nil, now)
	relaxed := Default(task(models.TaskPriorityLow, models.TaskDurationLong, day), nil, now)
	if urgent <= relaxed {
		t.Errorf("Expected high/short (%d) to outrank low/long (%d)", urgent, relaxed)
	}
}

func TestLastEffort(t *testing.T) {
	tk := task(models.TaskPriorityLow, models.TaskDurationLong, 10*time.Hour)

	if got := LastEffort(tk, nil); !got.Equal(tk.CreatedAt) {
		t.Errorf("Expected created_at without events, got %v", got)
	}

	events := []models.TaskEvent{
		event(models.TaskEventDelayRequested, time.Hour),
		event(models.TaskEventEffortRecorded, 2*time.Hour),
		event(models.TaskEventEffortRecorded, 5*time.Hour),
	}
	if got := LastEffort(tk, events); !got.Equal(now.Add(-2 * time.Hour)) {
		t.Errorf("Expected newest effort, got %v", got)
	}

	reset := append([]models.TaskEvent{event(models.TaskEventAgeResetRequested, 30*time.Minute)}, events...)
	if got := LastEffort(tk, reset); !got.Equal(now.Add(-30 * time.Minute)) {
		t.Errorf("Expected age reset to restart the clock, got %v", got)
	}
}

func TestDelaysOnlyCountAfterEffort(t *testing.T) {
	events := []models.TaskEvent{
		event(models.TaskEventDelayRequested, 1*time.Hour),
		event(models.TaskEventDelayRequested, 2*time.Hour),
		event(models.TaskEventEffortRecorded, 3*time.Hour),
		event(models.TaskEventDelayRequested, 4*time.Hour),
	}
	if got := DelaysSinceEffort(events); got != 2 {
		t.Errorf("DelaysSinceEffort() = %d, want 2", got)
	}

	tk := task(models.TaskPriorityLow, models.TaskDurationLong, 10*24*time.Hour)
	want := int64(3*3600 - 2*86400)
	if got := Default(tk, events, now); got != want {
		t.Errorf("Default() = %d, want %d", got, want)
	}
}

func TestNewCustomConfig(t *testing.T) {
	score := New(Config{BasePriorityFactor: 2, DelayPerRequest: time.Hour})
	tk := task(models.TaskPriorityHigh, models.TaskDurationShort, 10*time.Hour)
	events := []models.TaskEvent{event(models.TaskEventDelayRequested, time.Minute)}

	// (10h - 1h) * 4 * 4
	if got, want := score(tk, events, now), int64(9*3600*16); got != want {
		t.Errorf("score = %d, want %d", got, want)
	}
}
