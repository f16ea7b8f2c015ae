// Package models defines the core domain types for the backlog reviewer.
package models

import (
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusAvailable TaskStatus = "available"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusAbandoned TaskStatus = "abandoned"
)

// TaskPriority weights how urgent a task is.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskDuration is a coarse estimate of how long a task takes.
type TaskDuration string

const (
	TaskDurationShort  TaskDuration = "short"
	TaskDurationMedium TaskDuration = "medium"
	TaskDurationLong   TaskDuration = "long"
)

// TaskEventType identifies a timestamped lifecycle event.
type TaskEventType string

const (
	TaskEventEffortRecorded    TaskEventType = "effort_recorded"
	TaskEventDelayRequested    TaskEventType = "delay_requested"
	TaskEventAgeResetRequested TaskEventType = "age_reset_requested"
)

// Direction is used to step an ordinal field up or down.
type Direction int

const (
	Decrease Direction = iota
	Increase
)

// Task represents one backlog entry.
type Task struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Status           TaskStatus   `json:"status"`
	Priority         TaskPriority `json:"priority"`
	Duration         TaskDuration `json:"duration"`
	RequiresInternet bool         `json:"requires_internet"`
	CreatedAt        time.Time    `json:"created_at"`
	Destroyed        bool         `json:"destroyed,omitempty"`
}

// TaskEvent records that something happened to a task at a point in time.
type TaskEvent struct {
	ID        int64         `json:"id"`
	TaskID    int64         `json:"task_id"`
	Type      TaskEventType `json:"type"`
	CreatedAt time.Time     `json:"created_at"`
	Destroyed bool          `json:"destroyed,omitempty"`
}

// ActionLogEntry is one line of the action journal.
type ActionLogEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Phase      string    `json:"phase"`
	InputsHash string    `json:"inputs_hash"`
	TaskID     int64     `json:"task_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Step moves the priority one level in the given direction, saturating at the ends.
func (p TaskPriority) Step(d Direction) TaskPriority {
	switch {
	case d == Increase && p == TaskPriorityLow:
		return TaskPriorityMedium
	case d == Increase:
		return TaskPriorityHigh
	case d == Decrease && p == TaskPriorityHigh:
		return TaskPriorityMedium
	default:
		return TaskPriorityLow
	}
}

// Step moves the duration one level in the given direction, saturating at the ends.
// Increase means longer.
func (dur TaskDuration) Step(d Direction) TaskDuration {
	switch {
	case d == Increase && dur == TaskDurationShort:
		return TaskDurationMedium
	case d == Increase:
		return TaskDurationLong
	case d == Decrease && dur == TaskDurationLong:
		return TaskDurationMedium
	default:
		return TaskDurationShort
	}
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusAvailable, TaskStatusCompleted, TaskStatusAbandoned:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Valid reports whether dur is a known duration.
func (dur TaskDuration) Valid() bool {
	switch dur {
	case TaskDurationShort, TaskDurationMedium, TaskDurationLong:
		return true
	}
	return false
}

// TaskField names an updatable column of a task.
type TaskField string

const (
	FieldTitle            TaskField = "title"
	FieldStatus           TaskField = "status"
	FieldPriority         TaskField = "priority"
	FieldDuration         TaskField = "duration"
	FieldRequiresInternet TaskField = "requires_internet"
)

// Value returns the current value of field on t.
func (t Task) Value(field TaskField) (any, error) {
	switch field {
	case FieldTitle:
		return t.Title, nil
	case FieldStatus:
		return t.Status, nil
	case FieldPriority:
		return t.Priority, nil
	case FieldDuration:
		return t.Duration, nil
	case FieldRequiresInternet:
		return t.RequiresInternet, nil
	}
	return nil, fmt.Errorf("unknown task field %q", field)
}
