// Package tui provides the interactive terminal UI for the reviewer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/reviewer/internal/command"
	"github.com/fentz26/reviewer/internal/review"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	filterStyle = lipgloss.NewStyle().
			Foreground(cyanColor)
)

const (
	// header, filter line, table header, message, status bar, help
	chromeHeight = 7
	detailWidth  = 44
	refreshEvery = time.Minute
)

// App is the main TUI application model.
type App struct {
	ctrl       *review.Controller
	keys       command.KeyMap
	help       help.Model
	table      *taskTable
	cmdbar     *CmdBarModel
	logger     *slog.Logger
	now        func() time.Time
	ctx        context.Context
	width      int
	height     int
	showDetail bool
	message    string
}

// Option configures an App.
type Option func(*App)

// WithClock replaces time.Now for the age column.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithDetail sets whether the detail pane starts open.
func WithDetail(show bool) Option {
	return func(a *App) { a.showDetail = show }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k command.KeyMap) Option {
	return func(a *App) { a.keys = k }
}

// WithLogger sets the logger used for failed commands.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New creates the TUI over ctrl and runs the first pull. A failing pull
// leaves an empty list with the error in the message bar.
func New(ctx context.Context, ctrl *review.Controller, opts ...Option) *App {
	a := &App{
		ctrl:   ctrl,
		keys:   command.DefaultKeyMap(),
		help:   help.New(),
		table:  newTaskTable(),
		cmdbar: NewCmdBarModel(),
		logger: slog.Default(),
		now:    time.Now,
		ctx:    ctx,
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(a)
	}
	ctrl.SetView(a.table)
	if err := ctrl.Start(ctx); err != nil {
		a.fail(err)
	}
	a.resize()
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tickMsg:
		// Ages are derived from the clock; redraw only.
		return a, tickCmd()

	case tea.KeyMsg:
		if a.cmdbar.Focused() {
			if msg.Type == tea.KeyEnter {
				cmd, input := a.cmdbar.Submit()
				a.run(cmd, input)
				return a, nil
			}
			return a, a.cmdbar.Update(msg)
		}
		return a.handleKey(msg)
	}

	if a.cmdbar.Focused() {
		return a, a.cmdbar.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := a.keys.Lookup(msg)
	switch cmd {
	case command.None:
		return a, nil
	case command.Quit:
		return a, tea.Quit
	case command.Help:
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
		return a, nil
	case command.ToggleDetail:
		a.showDetail = !a.showDetail
		return a, nil
	}

	if p, ok := cmd.Prompt(); ok {
		var value string
		switch cmd {
		case command.EditTitle:
			sel, ok := a.ctrl.Selected()
			if !ok {
				a.fail(review.ErrNoSelection)
				return a, nil
			}
			value = sel.Task.Title
		case command.FilterTitle:
			value = a.ctrl.Criteria().TitleQuery
		}
		a.message = ""
		return a, a.cmdbar.Open(cmd, p, value)
	}

	a.run(cmd, "")
	return a, nil
}

// run hands cmd to the controller and reports the outcome.
func (a *App) run(cmd command.Command, input string) {
	a.message = ""

	var desc string
	switch cmd {
	case command.None:
		return
	case command.Undo:
		d, ok := a.ctrl.NextUndo()
		if !ok {
			a.message = "Nothing to undo"
			return
		}
		desc = "Undid " + d
	case command.Redo:
		d, ok := a.ctrl.NextRedo()
		if !ok {
			a.message = "Nothing to redo"
			return
		}
		desc = "Redid " + d
	case command.Reload:
		desc = "Reloaded"
	}

	if err := a.ctrl.Handle(a.ctx, cmd, input); err != nil {
		a.logger.Warn("command failed", "command", cmd.String(), "error", err)
		a.fail(err)
		return
	}
	a.message = desc
}

func (a *App) fail(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	a.message = "Error: " + err.Error()
}

func (a *App) resize() {
	a.help.Width = a.width
	extra := 0
	if a.help.ShowAll {
		extra = len(a.keys.FullHelp()[0]) - 1
	}
	a.table.setHeight(a.height - chromeHeight - extra)
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	now := a.now()

	state := a.ctrl.State()
	header := titleStyle.Render("Backlog Review")
	header += "  " + lipgloss.NewStyle().Foreground(mutedColor).Render(
		fmt.Sprintf("[%d of %d tasks]", state.Cursor.Results.Len(), state.Source.Len()))
	b.WriteString(header + "\n")
	b.WriteString(filterStyle.Render(" Filter: "+a.ctrl.Criteria().String()) + "\n")

	listWidth := a.width
	sel, hasSel := a.ctrl.Selected()
	showDetail := a.showDetail && hasSel && a.width >= detailWidth*2
	if showDetail {
		listWidth = a.width - detailWidth - 1
	}
	list := a.table.Render(listWidth, now)
	if showDetail {
		detail := panelStyle.Width(detailWidth - 2).Render(renderTaskDetail(sel, detailWidth-4, now))
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
	}
	b.WriteString(list)

	// Message bar
	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if a.cmdbar.Focused() {
		b.WriteString(a.cmdbar.View(a.width))
		b.WriteString("\n")
	} else {
		b.WriteString(statusBarStyle.Width(a.width).Render(a.statusLine()))
		b.WriteString("\n")
		b.WriteString(a.help.View(a.keys))
	}
	return b.String()
}

func (a *App) statusLine() string {
	parts := []string{}
	if id, ok := a.selectedID(); ok {
		parts = append(parts, fmt.Sprintf("#%d", id))
	}
	if applied, total := a.ctrl.History(); total > 0 {
		parts = append(parts, fmt.Sprintf("history %d/%d", applied, total))
	}
	if d, ok := a.ctrl.NextUndo(); ok {
		parts = append(parts, "u: undo "+d)
	}
	if d, ok := a.ctrl.NextRedo(); ok {
		parts = append(parts, "U: redo "+d)
	}
	if len(parts) == 0 {
		return "n: new task"
	}
	return strings.Join(parts, " | ")
}

func (a *App) selectedID() (int64, bool) {
	sel, ok := a.ctrl.Selected()
	if !ok {
		return 0, false
	}
	return sel.Task.ID, true
}
