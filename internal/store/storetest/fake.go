// Package storetest provides an in-memory store for tests of the review core.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/store"
)

// Fake is an in-memory stand-in for store.Store. Every write advances its
// clock by one second so event ordering is deterministic.
type Fake struct {
	Now     time.Time
	tasks   map[int64]*models.Task
	events  map[int64]*models.TaskEvent
	Log     []models.ActionLogEntry
	nextID  int64
	nextEv  int64
	failErr error
}

// New returns an empty fake whose clock starts at start.
func New(start time.Time) *Fake {
	return &Fake{
		Now:    start,
		tasks:  make(map[int64]*models.Task),
		events: make(map[int64]*models.TaskEvent),
	}
}

// FailNext makes the next store call return err.
func (f *Fake) FailNext(err error) { f.failErr = err }

func (f *Fake) fail() error {
	err := f.failErr
	f.failErr = nil
	return err
}

func (f *Fake) tick() time.Time {
	f.Now = f.Now.Add(time.Second)
	return f.Now
}

// Add inserts a task with explicit fields and returns it.
func (f *Fake) Add(t models.Task) models.Task {
	f.nextID++
	t.ID = f.nextID
	if t.Status == "" {
		t.Status = models.TaskStatusAvailable
	}
	if t.Priority == "" {
		t.Priority = models.TaskPriorityMedium
	}
	if t.Duration == "" {
		t.Duration = models.TaskDurationMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = f.tick()
	}
	f.tasks[t.ID] = &t
	return t
}

// Task returns a copy of the stored task, destroyed or not.
func (f *Fake) Task(id int64) (models.Task, bool) {
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return *t, true
}

// Event returns a copy of the stored event, destroyed or not.
func (f *Fake) Event(id int64) (models.TaskEvent, bool) {
	ev, ok := f.events[id]
	if !ok {
		return models.TaskEvent{}, false
	}
	return *ev, true
}

func (f *Fake) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range f.tasks {
		if !t.Destroyed && t.Status == models.TaskStatusAvailable {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) EventsByTask(ctx context.Context) (map[int64][]models.TaskEvent, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	out := make(map[int64][]models.TaskEvent)
	for _, ev := range f.events {
		if !ev.Destroyed {
			out[ev.TaskID] = append(out[ev.TaskID], *ev)
		}
	}
	for id := range out {
		evs := out[id]
		sort.Slice(evs, func(i, j int) bool { return evs[i].ID > evs[j].ID })
	}
	return out, nil
}

func (f *Fake) CreateTask(ctx context.Context, title string) (*models.Task, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	t := f.Add(models.Task{Title: title})
	return &t, nil
}

func (f *Fake) UpdateTaskField(ctx context.Context, id int64, field models.TaskField, value any) error {
	if err := f.fail(); err != nil {
		return err
	}
	t, ok := f.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	next := *t
	var typeOK bool
	switch field {
	case models.FieldTitle:
		next.Title, typeOK = value.(string)
	case models.FieldStatus:
		next.Status, typeOK = value.(models.TaskStatus)
	case models.FieldPriority:
		next.Priority, typeOK = value.(models.TaskPriority)
	case models.FieldDuration:
		next.Duration, typeOK = value.(models.TaskDuration)
	case models.FieldRequiresInternet:
		next.RequiresInternet, typeOK = value.(bool)
	}
	if !typeOK {
		return fmt.Errorf("update task: invalid value %v for field %s", value, field)
	}
	*t = next
	return nil
}

func (f *Fake) SetTaskDestroyed(ctx context.Context, id int64, destroyed bool) error {
	if err := f.fail(); err != nil {
		return err
	}
	t, ok := f.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	t.Destroyed = destroyed
	return nil
}

func (f *Fake) RecordEvent(ctx context.Context, taskID int64, eventType models.TaskEventType) (*models.TaskEvent, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.nextEv++
	ev := &models.TaskEvent{ID: f.nextEv, TaskID: taskID, Type: eventType, CreatedAt: f.tick()}
	f.events[ev.ID] = ev
	out := *ev
	return &out, nil
}

func (f *Fake) SetEventDestroyed(ctx context.Context, id int64, destroyed bool) error {
	if err := f.fail(); err != nil {
		return err
	}
	ev, ok := f.events[id]
	if !ok {
		return store.ErrEventNotFound
	}
	ev.Destroyed = destroyed
	return nil
}

func (f *Fake) WriteActionLog(ctx context.Context, action, phase, inputsHash string, taskID int64, details string) (*models.ActionLogEntry, error) {
	entry := models.ActionLogEntry{
		ID:         fmt.Sprintf("log-%d", len(f.Log)+1),
		Action:     action,
		Phase:      phase,
		InputsHash: inputsHash,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  f.Now,
	}
	f.Log = append(f.Log, entry)
	return &entry, nil
}
