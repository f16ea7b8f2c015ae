// Package review owns the reviewer pipeline: it turns commands into actions,
// runs them against the store, re-runs source, filter and cursor, and keeps
// the undo timeline of view snapshots.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/reviewer/internal/action"
	"github.com/fentz26/reviewer/internal/audit"
	"github.com/fentz26/reviewer/internal/command"
	"github.com/fentz26/reviewer/internal/cursor"
	"github.com/fentz26/reviewer/internal/filter"
	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/results"
	"github.com/fentz26/reviewer/internal/scoring"
	"github.com/fentz26/reviewer/internal/undo"
)

var (
	ErrNoSelection = errors.New("no task selected")
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrNotInView   = errors.New("task not in view")
)

// Store is everything the controller needs from the backing store.
type Store interface {
	results.Store
	action.Store
	audit.Sink
}

// View receives notifications after the cursor changes. It never calls
// back into the controller while handling them.
type View interface {
	// PositionChanged reports a selection move within the same sequence.
	PositionChanged(old int, st cursor.State)
	// SequenceReplaced reports that the displayed sequence was swapped.
	SequenceReplaced(st cursor.State)
}

// ViewState is a snapshot of every downstream component.
type ViewState struct {
	Source results.Sequence
	Filter filter.State
	Cursor cursor.State
}

// Controller is the single owner of the pipeline and the timeline.
type Controller struct {
	store    Store
	source   *results.Source
	filter   *filter.Stage
	cursor   *cursor.Cursor
	timeline *undo.Timeline[ViewState]
	journal  *audit.Journal
	view     View
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*controllerOptions)

type controllerOptions struct {
	criteria filter.Criteria
	view     View
	now      func() time.Time
}

// WithCriteria sets the filter criteria the session starts with.
func WithCriteria(c filter.Criteria) Option {
	return func(o *controllerOptions) { o.criteria = c }
}

// WithView registers the renderer.
func WithView(v View) Option {
	return func(o *controllerOptions) { o.view = v }
}

// WithClock replaces time.Now for scoring.
func WithClock(now func() time.Time) Option {
	return func(o *controllerOptions) { o.now = now }
}

// New creates a controller. A nil score uses scoring.Default and a nil
// logger uses slog.Default().
func New(store Store, score scoring.Func, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	o := controllerOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		store:    store,
		source:   results.NewSource(store, score, results.WithClock(o.now)),
		filter:   filter.NewStage(o.criteria),
		cursor:   cursor.New(),
		timeline: undo.New(ViewState{}),
		journal:  audit.NewJournal(store),
		view:     o.view,
		logger:   logger,
	}
}

// SetView registers the renderer.
func (c *Controller) SetView(v View) { c.view = v }

// Start runs the first pull and makes its result the initial timeline state.
func (c *Controller) Start(ctx context.Context) error {
	err := c.runPipeline(ctx)
	c.timeline = undo.New(c.snapshot())
	c.notifyReplaced()
	return err
}

// Handle translates cmd into an action and dispatches it. input is the
// answer to the command's prompt, if it has one. Commands that only affect
// the screen return nil.
func (c *Controller) Handle(ctx context.Context, cmd command.Command, input string) error {
	var task models.Task
	if cmd.NeedsSelection() {
		sel, ok := c.cursor.Selected()
		if !ok {
			return ErrNoSelection
		}
		task = sel.Task
	}

	switch cmd {
	case command.MoveUp:
		return c.Dispatch(ctx, action.CursorMove{Delta: -1})
	case command.MoveDown:
		return c.Dispatch(ctx, action.CursorMove{Delta: 1})
	case command.JumpTop:
		return c.Dispatch(ctx, action.CursorMove{Jump: true, End: cursor.Top})
	case command.JumpBottom:
		return c.Dispatch(ctx, action.CursorMove{Jump: true, End: cursor.Bottom})
	case command.JumpToTask:
		id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(input), "#"), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid task id %q", input)
		}
		return c.Dispatch(ctx, action.CursorMove{ToID: id})

	case command.FilterInternet:
		t, err := filter.ParseTristate(input)
		if err != nil {
			return err
		}
		next := c.filter.Criteria()
		next.RequiresInternet = t
		return c.dispatchFilter(ctx, next)
	case command.FilterTitle:
		next := c.filter.Criteria()
		next.TitleQuery = strings.TrimSpace(input)
		return c.dispatchFilter(ctx, next)

	case command.CreateTask:
		title := strings.TrimSpace(input)
		if title == "" {
			return ErrEmptyTitle
		}
		return c.Dispatch(ctx, &action.CreateTask{Title: title})
	case command.EditTitle:
		title := strings.TrimSpace(input)
		if title == "" {
			return ErrEmptyTitle
		}
		return c.dispatchUpdate(ctx, action.Rename(task, title))

	case command.DestroyTask:
		return c.Dispatch(ctx, &action.DestroyTask{TaskID: task.ID, Title: task.Title})

	case command.RecordEffort:
		return c.Dispatch(ctx, &action.RecordEvent{TaskID: task.ID, Type: models.TaskEventEffortRecorded})
	case command.RequestDelay:
		return c.Dispatch(ctx, &action.RecordEvent{TaskID: task.ID, Type: models.TaskEventDelayRequested})
	case command.ResetAge:
		return c.Dispatch(ctx, &action.RecordEvent{TaskID: task.ID, Type: models.TaskEventAgeResetRequested})

	case command.ToggleInternet:
		return c.dispatchUpdate(ctx, action.ToggleInternet(task))
	case command.DurationShorter:
		return c.dispatchUpdate(ctx, action.StepDuration(task, models.Decrease))
	case command.DurationLonger:
		return c.dispatchUpdate(ctx, action.StepDuration(task, models.Increase))
	case command.PriorityDown:
		return c.dispatchUpdate(ctx, action.StepPriority(task, models.Decrease))
	case command.PriorityUp:
		return c.dispatchUpdate(ctx, action.StepPriority(task, models.Increase))
	case command.Abandon:
		return c.dispatchUpdate(ctx, action.SetStatus(task, models.TaskStatusAbandoned))
	case command.Complete:
		return c.dispatchUpdate(ctx, action.SetStatus(task, models.TaskStatusCompleted))

	case command.Undo:
		return c.Dispatch(ctx, action.UndoRequest{})
	case command.Redo:
		return c.Dispatch(ctx, action.RedoRequest{})
	case command.Reload:
		return c.Reload(ctx)
	}
	return nil
}

// dispatchUpdate skips updates that would not change anything.
func (c *Controller) dispatchUpdate(ctx context.Context, u *action.TaskUpdate) error {
	if u == nil {
		return nil
	}
	return c.Dispatch(ctx, u)
}

func (c *Controller) dispatchFilter(ctx context.Context, next filter.Criteria) error {
	fc := action.NewFilterChange(c.filter.Criteria(), next)
	if fc == nil {
		return nil
	}
	return c.Dispatch(ctx, fc)
}

// Dispatch runs a.
func (c *Controller) Dispatch(ctx context.Context, a action.Action) error {
	switch a := a.(type) {
	case action.CursorMove:
		return c.moveCursor(a)
	case action.UndoRequest:
		_, err := c.Undo(ctx)
		return err
	case action.RedoRequest:
		_, err := c.Redo(ctx)
		return err
	case action.Reversible:
		return c.execute(ctx, a)
	}
	return fmt.Errorf("unsupported action %T", a)
}

func (c *Controller) execute(ctx context.Context, a action.Reversible) error {
	held := c.cursor.Index()
	if err := a.Execute(ctx, c.env()); err != nil {
		c.logger.Error("action failed", "action", a.Name(), "error", err)
		return fmt.Errorf("%s: %w", a.Describe(), err)
	}
	c.record(ctx, a, audit.PhaseExecute)

	// The store already changed, so the action is recorded even if the pull fails.
	pullErr := c.runPipeline(ctx)

	switch a := a.(type) {
	case *action.CreateTask:
		if !c.cursor.JumpToID(a.Created()) {
			c.cursor.Jump(cursor.Top)
		}
	case *action.RecordEvent:
		c.logger.Debug("event recorded", "task_id", a.TaskID, "event_id", a.Recorded())
		c.cursor.Restore(cursor.State{Index: held, Results: c.cursor.Results()})
	}

	c.timeline.Append(a, c.snapshot())
	c.notifyReplaced()
	return pullErr
}

// Undo reverses the last action and restores the view recorded before it.
// It reports false when there was nothing to undo.
func (c *Controller) Undo(ctx context.Context) (bool, error) {
	a, _ := c.timeline.NextUndo()
	st, ok, err := c.timeline.Undo(ctx, c.env())
	if err != nil {
		c.logger.Error("undo failed", "action", a.Name(), "error", err)
		return false, fmt.Errorf("undo %s: %w", a.Describe(), err)
	}
	if !ok {
		c.logger.Debug("nothing to undo")
		return false, nil
	}
	c.record(ctx, a, audit.PhaseUndo)
	c.restore(st)
	return true, nil
}

// Redo runs the next undone action again and restores the view recorded
// after it. It reports false when there was nothing to redo.
func (c *Controller) Redo(ctx context.Context) (bool, error) {
	a, _ := c.timeline.NextRedo()
	st, ok, err := c.timeline.Redo(ctx, c.env())
	if err != nil {
		c.logger.Error("redo failed", "action", a.Name(), "error", err)
		return false, fmt.Errorf("redo %s: %w", a.Describe(), err)
	}
	if !ok {
		c.logger.Debug("nothing to redo")
		return false, nil
	}
	c.record(ctx, a, audit.PhaseRedo)
	c.restore(st)
	return true, nil
}

// Reload pulls from the store again without recording anything.
func (c *Controller) Reload(ctx context.Context) error {
	err := c.runPipeline(ctx)
	c.timeline.ReplaceCurrent(c.snapshot())
	c.notifyReplaced()
	return err
}

func (c *Controller) moveCursor(m action.CursorMove) error {
	old := c.cursor.Index()
	var moved bool
	switch {
	case m.ToID != 0:
		if !c.cursor.JumpToID(m.ToID) {
			return fmt.Errorf("task %d: %w", m.ToID, ErrNotInView)
		}
		moved = c.cursor.Index() != old
	case m.Jump:
		moved = c.cursor.Jump(m.End)
	default:
		moved = c.cursor.Move(m.Delta)
	}
	if !moved {
		return nil
	}
	c.timeline.ReplaceCurrent(c.snapshot())
	if c.view != nil {
		c.view.PositionChanged(old, c.cursor.State())
	}
	return nil
}

// runPipeline pulls from the store, then filters and refreshes the cursor.
// On a pull error the previous source sequence is filtered again.
func (c *Controller) runPipeline(ctx context.Context) error {
	seq, err := c.source.Pull(ctx)
	if err != nil {
		c.logger.Error("pull failed", "error", err)
	}
	c.filter.Refresh(seq)
	c.cursor.Refresh(c.filter.Results())
	c.logger.Debug("pipeline refreshed", "visible", c.cursor.Results().IDs())
	return err
}

func (c *Controller) snapshot() ViewState {
	return ViewState{
		Source: c.source.Current(),
		Filter: c.filter.State(),
		Cursor: c.cursor.State(),
	}
}

func (c *Controller) restore(st ViewState) {
	c.source.Restore(st.Source)
	c.filter.Restore(st.Filter)
	c.cursor.Restore(st.Cursor)
	c.notifyReplaced()
}

func (c *Controller) notifyReplaced() {
	if c.view != nil {
		c.view.SequenceReplaced(c.cursor.State())
	}
}

func (c *Controller) env() action.Env {
	return action.Env{Store: c.store, Filter: c.filter}
}

func (c *Controller) record(ctx context.Context, a action.Reversible, phase audit.Phase) {
	c.logger.Debug("action", "phase", phase, "action", a.Name(), "task_id", a.Target())
	if _, err := c.journal.Record(ctx, a.Name(), phase, a, a.Target(), a.Describe()); err != nil {
		c.logger.Warn("failed to write action journal", "action", a.Name(), "error", err)
	}
}

// State returns the current snapshot.
func (c *Controller) State() ViewState { return c.snapshot() }

// Selected returns the task under the cursor.
func (c *Controller) Selected() (results.ScoredResult, bool) { return c.cursor.Selected() }

// Criteria returns the active filter criteria.
func (c *Controller) Criteria() filter.Criteria { return c.filter.Criteria() }

// CanUndo reports whether there is an action to undo.
func (c *Controller) CanUndo() bool { return c.timeline.CanUndo() }

// History returns how many actions are applied and how many are recorded,
// undone ones included.
func (c *Controller) History() (applied, total int) {
	pos, _ := c.timeline.Position()
	return pos + 1, c.timeline.Len()
}

// CanRedo reports whether there is an action to redo.
func (c *Controller) CanRedo() bool { return c.timeline.CanRedo() }

// NextUndo describes the action Undo would reverse.
func (c *Controller) NextUndo() (string, bool) {
	a, ok := c.timeline.NextUndo()
	if !ok {
		return "", false
	}
	return a.Describe(), true
}

// NextRedo describes the action Redo would run.
func (c *Controller) NextRedo() (string, bool) {
	a, ok := c.timeline.NextRedo()
	if !ok {
		return "", false
	}
	return a.Describe(), true
}
