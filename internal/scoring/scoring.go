// Package scoring ranks backlog tasks by how long they have waited for attention.
package scoring

import (
	"time"

	"github.com/fentz26/reviewer/internal/models"
)

// Func scores a task from its event history, newest event first.
// Higher scores sort earlier.
type Func func(task models.Task, events []models.TaskEvent, now time.Time) int64

// Config tunes the default formula.
type Config struct {
	BasePriorityFactor float64       `yaml:"base_priority_factor" mapstructure:"base_priority_factor"`
	DelayPerRequest    time.Duration `yaml:"delay_per_request" mapstructure:"delay_per_request"`
}

// DefaultConfig returns the stock weights.
func DefaultConfig() Config {
	return Config{
		BasePriorityFactor: 1.42,
		DelayPerRequest:    24 * time.Hour,
	}
}

// Default is the stock scoring function.
var Default = New(DefaultConfig())

// New builds the scoring function for cfg.
//
// The score is the number of seconds since the task last saw effort, minus
// DelayPerRequest for every delay requested since then, multiplied by a
// priority factor (higher priority weighs more) and a duration factor
// (shorter tasks weigh more).
func New(cfg Config) Func {
	f := cfg.BasePriorityFactor
	return func(task models.Task, events []models.TaskEvent, now time.Time) int64 {
		score := now.Sub(LastEffort(task, events)).Seconds()
		score -= float64(DelaysSinceEffort(events)) * cfg.DelayPerRequest.Seconds()

		switch task.Priority {
		case models.TaskPriorityMedium:
			score *= f
		case models.TaskPriorityHigh:
			score *= f * f
		}

		switch task.Duration {
		case models.TaskDurationShort:
			score *= f * f
		case models.TaskDurationMedium:
			score *= f
		}

		return int64(score)
	}
}

// LastEffort returns when the clock of task was last reset: the newest
// effort or age reset event, else the task creation time.
func LastEffort(task models.Task, events []models.TaskEvent) time.Time {
	for _, ev := range events {
		if resetsClock(ev.Type) {
			return ev.CreatedAt
		}
	}
	return task.CreatedAt
}

// DelaysSinceEffort counts delay requests newer than the last clock reset.
func DelaysSinceEffort(events []models.TaskEvent) int {
	n := 0
	for _, ev := range events {
		if resetsClock(ev.Type) {
			break
		}
		if ev.Type == models.TaskEventDelayRequested {
			n++
		}
	}
	return n
}

func resetsClock(t models.TaskEventType) bool {
	return t == models.TaskEventEffortRecorded || t == models.TaskEventAgeResetRequested
}
