package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/review"
	"github.com/fentz26/reviewer/internal/store/storetest"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, titles ...string) (*App, *storetest.Fake) {
	t.Helper()
	fake := storetest.New(start)
	for _, title := range titles {
		fake.Add(models.Task{Title: title})
	}
	now := func() time.Time { return start.Add(10 * 24 * time.Hour) }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := review.New(fake, nil, logger, review.WithClock(now))
	app := New(context.Background(), ctrl, WithClock(now), WithLogger(logger))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app, fake
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		a.Update(msg)
	}
}

func selected(t *testing.T, a *App) models.Task {
	t.Helper()
	sel, ok := a.ctrl.Selected()
	require.True(t, ok, "expected a selection")
	return sel.Task
}

func TestAppView(t *testing.T) {
	app, _ := newTestApp(t, "Water plants", "File taxes")

	view := app.View()
	assert.Contains(t, view, "Backlog Review")
	assert.Contains(t, view, "[2 of 2 tasks]")
	assert.Contains(t, view, "Filter: all")
	assert.Contains(t, view, "Water plants")
	assert.Contains(t, view, "File taxes")
}

func TestAppNavigation(t *testing.T) {
	app, _ := newTestApp(t, "A", "B", "C")
	first := selected(t, app).ID

	press(app, "j")
	assert.NotEqual(t, first, selected(t, app).ID)

	press(app, "g")
	assert.Equal(t, first, selected(t, app).ID)

	press(app, "#")
	require.True(t, app.cmdbar.Focused())
	press(app, "3", "enter")
	assert.Equal(t, int64(3), selected(t, app).ID)
	assert.Empty(t, app.message)
}

func TestAppCreateAndUndo(t *testing.T) {
	app, fake := newTestApp(t, "Existing")

	press(app, "n")
	require.True(t, app.cmdbar.Focused())
	press(app, "Buy milk", "enter")
	assert.False(t, app.cmdbar.Focused())

	task := selected(t, app)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Contains(t, app.View(), "u: undo create")
	assert.Contains(t, app.View(), "history 1/1")

	press(app, "u")
	assert.Contains(t, app.message, "Undid create")
	stored, ok := fake.Task(task.ID)
	require.True(t, ok)
	assert.True(t, stored.Destroyed)

	assert.Contains(t, app.View(), "history 0/1")

	press(app, "U")
	assert.Contains(t, app.message, "Redid create")
	stored, _ = fake.Task(task.ID)
	assert.False(t, stored.Destroyed)
}

func TestAppDestroyAndUndo(t *testing.T) {
	app, fake := newTestApp(t, "Keep", "Drop")
	press(app, "j")
	task := selected(t, app)
	require.Equal(t, "Drop", task.Title)

	press(app, "x")
	assert.NotContains(t, app.ctrl.State().Cursor.Results.IDs(), task.ID)
	assert.Contains(t, app.View(), `u: undo destroy "Drop"`)
	stored, _ := fake.Task(task.ID)
	assert.True(t, stored.Destroyed)

	press(app, "u")
	assert.Contains(t, app.message, `Undid destroy "Drop"`)
	assert.Equal(t, task.ID, selected(t, app).ID)
}

func TestAppNothingToUndo(t *testing.T) {
	app, _ := newTestApp(t, "A")

	press(app, "u")
	assert.Equal(t, "Nothing to undo", app.message)
	press(app, "U")
	assert.Equal(t, "Nothing to redo", app.message)
}

func TestAppEditTitlePrefills(t *testing.T) {
	app, fake := newTestApp(t, "Old title")

	press(app, "e")
	require.True(t, app.cmdbar.Focused())
	assert.Equal(t, "Old title", app.cmdbar.input.Value())

	app.cmdbar.input.SetValue("New title")
	press(app, "enter")

	stored, _ := fake.Task(1)
	assert.Equal(t, "New title", stored.Title)
}

func TestAppPromptCancel(t *testing.T) {
	app, fake := newTestApp(t, "A")

	press(app, "n", "abc", "esc")
	assert.False(t, app.cmdbar.Focused())

	tasks, err := fake.ListActiveTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestAppInternetFilterSuggestions(t *testing.T) {
	app, fake := newTestApp(t, "Offline")
	fake.Add(models.Task{Title: "Online", RequiresInternet: true})
	press(app, "ctrl+r")
	assert.Equal(t, "Reloaded", app.message)

	press(app, "F")
	assert.Contains(t, app.View(), "any")

	press(app, "y", "enter")
	assert.Equal(t, "internet:yes", app.ctrl.Criteria().String())
	assert.Equal(t, "Online", selected(t, app).Title)
	assert.Contains(t, app.View(), "[1 of 2 tasks]")
}

func TestAppErrors(t *testing.T) {
	app, fake := newTestApp(t, "A")

	press(app, "n", "enter")
	assert.Equal(t, "Error: "+review.ErrEmptyTitle.Error(), app.message)

	fake.FailNext(errors.New("disk full"))
	press(app, "r")
	assert.True(t, strings.HasPrefix(app.message, "Error:"), app.message)
	assert.Contains(t, app.message, "disk full")

	// The next command clears the message.
	press(app, "j")
	assert.Empty(t, app.message)
}

func TestAppNoSelection(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "e")
	assert.False(t, app.cmdbar.Focused())
	assert.Equal(t, "Error: "+review.ErrNoSelection.Error(), app.message)
	assert.Contains(t, app.View(), "No tasks")
}

func TestAppToggles(t *testing.T) {
	app, _ := newTestApp(t, "Water plants")

	press(app, "tab")
	assert.True(t, app.showDetail)
	assert.Contains(t, app.View(), "Events (0)")

	press(app, "tab")
	assert.False(t, app.showDetail)

	press(app, "?")
	assert.True(t, app.help.ShowAll)
}

func TestAppLifecycle(t *testing.T) {
	app, _ := newTestApp(t, "Write report")

	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Write report"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	if fm == nil {
		t.Fatal("FinalModel returned nil")
	}
}
