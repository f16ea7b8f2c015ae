// Package action describes user intents as values. Reversible actions carry
// everything they need to be undone and redone against the store.
package action

import (
	"context"
	"fmt"

	"github.com/fentz26/reviewer/internal/cursor"
	"github.com/fentz26/reviewer/internal/filter"
	"github.com/fentz26/reviewer/internal/models"
)

// Store is the part of the backing store actions mutate. Deletes are soft
// so that undoing a create is a flag flip that keeps the task id.
type Store interface {
	CreateTask(ctx context.Context, title string) (*models.Task, error)
	UpdateTaskField(ctx context.Context, id int64, field models.TaskField, value any) error
	SetTaskDestroyed(ctx context.Context, id int64, destroyed bool) error
	RecordEvent(ctx context.Context, taskID int64, eventType models.TaskEventType) (*models.TaskEvent, error)
	SetEventDestroyed(ctx context.Context, id int64, destroyed bool) error
}

// Env is what an action runs against.
type Env struct {
	Store  Store
	Filter *filter.Stage
}

// Action is one of FilterChange, CreateTask, DestroyTask, RecordEvent,
// TaskUpdate, CursorMove, UndoRequest or RedoRequest.
type Action interface {
	action()
}

// Reversible is an action that can be recorded in the undo timeline.
type Reversible interface {
	Action
	Execute(ctx context.Context, env Env) error
	Unexecute(ctx context.Context, env Env) error
	// Name is a stable dotted identifier used in the action journal.
	Name() string
	// Target is the task the action touches, or 0.
	Target() int64
	Describe() string
}

// Redoer is implemented by actions whose redo differs from Execute.
type Redoer interface {
	Redo(ctx context.Context, env Env) error
}

// Redo re-applies an undone action, using its Redo method when it has one
// and Execute otherwise.
func Redo(ctx context.Context, a Reversible, env Env) error {
	if r, ok := a.(Redoer); ok {
		return r.Redo(ctx, env)
	}
	return a.Execute(ctx, env)
}

// --- Filter ---

// FilterChange swaps the filter criteria.
type FilterChange struct {
	Old, New filter.Criteria

	executed bool
}

// NewFilterChange returns nil when the criteria would not change.
func NewFilterChange(old, new filter.Criteria) *FilterChange {
	if old == new {
		return nil
	}
	return &FilterChange{Old: old, New: new}
}

func (a *FilterChange) Execute(ctx context.Context, env Env) error {
	env.Filter.SetCriteria(a.New)
	a.executed = true
	return nil
}

func (a *FilterChange) Unexecute(ctx context.Context, env Env) error {
	if !a.executed {
		panic("action: undo of a filter change that never ran")
	}
	env.Filter.SetCriteria(a.Old)
	a.executed = false
	return nil
}

func (a *FilterChange) Name() string  { return "filter.change" }
func (a *FilterChange) Target() int64 { return 0 }
func (a *FilterChange) Describe() string {
	return fmt.Sprintf("filter %s -> %s", a.Old, a.New)
}

// --- Create ---

// CreateTask inserts a task on first execution and remembers its id.
// Undo soft-deletes that task and redo restores the same row.
type CreateTask struct {
	Title string

	id       int64
	executed bool
}

// Created returns the id of the inserted task, or 0 before the first run.
func (a *CreateTask) Created() int64 { return a.id }

func (a *CreateTask) Execute(ctx context.Context, env Env) error {
	if a.executed {
		panic(fmt.Sprintf("action: create task %d executed twice without undo", a.id))
	}
	if a.id == 0 {
		task, err := env.Store.CreateTask(ctx, a.Title)
		if err != nil {
			return err
		}
		a.id = task.ID
	} else if err := env.Store.SetTaskDestroyed(ctx, a.id, false); err != nil {
		return err
	}
	a.executed = true
	return nil
}

func (a *CreateTask) Unexecute(ctx context.Context, env Env) error {
	if !a.executed {
		panic("action: undo of a create task that never ran")
	}
	if err := env.Store.SetTaskDestroyed(ctx, a.id, true); err != nil {
		return err
	}
	a.executed = false
	return nil
}

// Redo restores the task created by the first execution.
func (a *CreateTask) Redo(ctx context.Context, env Env) error {
	if a.id == 0 {
		panic("action: redo of a create task that never ran")
	}
	return a.Execute(ctx, env)
}

func (a *CreateTask) Name() string     { return "task.create" }
func (a *CreateTask) Target() int64    { return a.id }
func (a *CreateTask) Describe() string { return fmt.Sprintf("create %q", a.Title) }

// DestroyTask soft-deletes a task. The row and its events stay in the
// store, so undo brings back the same task.
type DestroyTask struct {
	TaskID int64
	Title  string

	executed bool
}

func (a *DestroyTask) Execute(ctx context.Context, env Env) error {
	if a.executed {
		panic(fmt.Sprintf("action: destroy task %d executed twice without undo", a.TaskID))
	}
	if err := env.Store.SetTaskDestroyed(ctx, a.TaskID, true); err != nil {
		return err
	}
	a.executed = true
	return nil
}

func (a *DestroyTask) Unexecute(ctx context.Context, env Env) error {
	if !a.executed {
		panic("action: undo of a destroy task that never ran")
	}
	if err := env.Store.SetTaskDestroyed(ctx, a.TaskID, false); err != nil {
		return err
	}
	a.executed = false
	return nil
}

func (a *DestroyTask) Name() string     { return "task.destroy" }
func (a *DestroyTask) Target() int64    { return a.TaskID }
func (a *DestroyTask) Describe() string { return fmt.Sprintf("destroy %q", a.Title) }

// --- Events ---

// RecordEvent adds a lifecycle event to a task. Like CreateTask it keeps
// the event id across undo and redo.
type RecordEvent struct {
	TaskID int64
	Type   models.TaskEventType

	id       int64
	executed bool
}

// Recorded returns the id of the inserted event, or 0 before the first run.
func (a *RecordEvent) Recorded() int64 { return a.id }

func (a *RecordEvent) Execute(ctx context.Context, env Env) error {
	if a.executed {
		panic(fmt.Sprintf("action: event %d executed twice without undo", a.id))
	}
	if a.id == 0 {
		ev, err := env.Store.RecordEvent(ctx, a.TaskID, a.Type)
		if err != nil {
			return err
		}
		a.id = ev.ID
	} else if err := env.Store.SetEventDestroyed(ctx, a.id, false); err != nil {
		return err
	}
	a.executed = true
	return nil
}

func (a *RecordEvent) Unexecute(ctx context.Context, env Env) error {
	if !a.executed {
		panic("action: undo of an event that was never recorded")
	}
	if err := env.Store.SetEventDestroyed(ctx, a.id, true); err != nil {
		return err
	}
	a.executed = false
	return nil
}

func (a *RecordEvent) Name() string  { return "event." + string(a.Type) }
func (a *RecordEvent) Target() int64 { return a.TaskID }
func (a *RecordEvent) Describe() string {
	return fmt.Sprintf("%s on task %d", eventLabels[a.Type], a.TaskID)
}

var eventLabels = map[models.TaskEventType]string{
	models.TaskEventEffortRecorded:    "effort recorded",
	models.TaskEventDelayRequested:    "delay requested",
	models.TaskEventAgeResetRequested: "age reset",
}

// --- Field updates ---

// TaskUpdate changes one field of a task. Old is read from live state when
// the action is built.
type TaskUpdate struct {
	TaskID   int64
	Field    models.TaskField
	Old, New any

	executed bool
}

// NewTaskUpdate captures the current value of field on task. It returns nil
// when value equals the current value.
func NewTaskUpdate(task models.Task, field models.TaskField, value any) (*TaskUpdate, error) {
	old, err := task.Value(field)
	if err != nil {
		return nil, err
	}
	if old == value {
		return nil, nil
	}
	return &TaskUpdate{TaskID: task.ID, Field: field, Old: old, New: value}, nil
}

func (a *TaskUpdate) Execute(ctx context.Context, env Env) error {
	if err := env.Store.UpdateTaskField(ctx, a.TaskID, a.Field, a.New); err != nil {
		return err
	}
	a.executed = true
	return nil
}

func (a *TaskUpdate) Unexecute(ctx context.Context, env Env) error {
	if !a.executed {
		panic("action: undo of a task update that never ran")
	}
	if err := env.Store.UpdateTaskField(ctx, a.TaskID, a.Field, a.Old); err != nil {
		return err
	}
	a.executed = false
	return nil
}

func (a *TaskUpdate) Name() string  { return "task.update" }
func (a *TaskUpdate) Target() int64 { return a.TaskID }
func (a *TaskUpdate) Describe() string {
	return fmt.Sprintf("task %d %s: %v -> %v", a.TaskID, a.Field, a.Old, a.New)
}

// Rename builds a title update.
func Rename(task models.Task, title string) *TaskUpdate {
	return mustUpdate(task, models.FieldTitle, title)
}

// SetStatus builds a status update.
func SetStatus(task models.Task, status models.TaskStatus) *TaskUpdate {
	return mustUpdate(task, models.FieldStatus, status)
}

// StepPriority moves the priority one level, saturating.
func StepPriority(task models.Task, d models.Direction) *TaskUpdate {
	return mustUpdate(task, models.FieldPriority, task.Priority.Step(d))
}

// StepDuration moves the duration one level, saturating.
func StepDuration(task models.Task, d models.Direction) *TaskUpdate {
	return mustUpdate(task, models.FieldDuration, task.Duration.Step(d))
}

// ToggleInternet flips the requires-internet flag.
func ToggleInternet(task models.Task) *TaskUpdate {
	return mustUpdate(task, models.FieldRequiresInternet, !task.RequiresInternet)
}

func mustUpdate(task models.Task, field models.TaskField, value any) *TaskUpdate {
	u, err := NewTaskUpdate(task, field, value)
	if err != nil {
		panic(err)
	}
	return u
}

// --- One-shot actions ---

// CursorMove changes the selection. It is never recorded.
type CursorMove struct {
	Delta int
	Jump  bool
	End   cursor.End
	ToID  int64
}

// UndoRequest steps the timeline back.
type UndoRequest struct{}

// RedoRequest steps the timeline forward.
type RedoRequest struct{}

func (*FilterChange) action() {}
func (*CreateTask) action()   {}
func (*DestroyTask) action()  {}
func (*RecordEvent) action()  {}
func (*TaskUpdate) action()   {}
func (CursorMove) action()    {}
func (UndoRequest) action()   {}
func (RedoRequest) action()   {}
