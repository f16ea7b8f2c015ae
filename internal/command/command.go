// Package command maps single keystrokes to reviewer commands.
package command

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is one user request.
type Command int

const (
	None Command = iota
	Quit
	Help
	ToggleDetail
	MoveUp
	MoveDown
	JumpTop
	JumpBottom
	JumpToTask
	FilterInternet
	FilterTitle
	CreateTask
	EditTitle
	RecordEffort
	RequestDelay
	ResetAge
	ToggleInternet
	DurationShorter
	DurationLonger
	PriorityDown
	PriorityUp
	Abandon
	Complete
	DestroyTask
	Undo
	Redo
	Reload
)

var names = map[Command]string{
	None:            "none",
	Quit:            "quit",
	Help:            "help",
	ToggleDetail:    "toggle detail",
	MoveUp:          "up",
	MoveDown:        "down",
	JumpTop:         "top",
	JumpBottom:      "bottom",
	JumpToTask:      "jump to task",
	FilterInternet:  "filter internet",
	FilterTitle:     "filter title",
	CreateTask:      "new task",
	EditTitle:       "edit title",
	RecordEffort:    "record effort",
	RequestDelay:    "delay",
	ResetAge:        "reset age",
	ToggleInternet:  "toggle internet",
	DurationShorter: "shorter",
	DurationLonger:  "longer",
	PriorityDown:    "priority down",
	PriorityUp:      "priority up",
	Abandon:         "abandon",
	Complete:        "complete",
	DestroyTask:     "destroy",
	Undo:            "undo",
	Redo:            "redo",
	Reload:          "reload",
}

func (c Command) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "unknown"
}

// NeedsSelection reports whether c acts on the selected task.
func (c Command) NeedsSelection() bool {
	switch c {
	case EditTitle, RecordEffort, RequestDelay, ResetAge, ToggleInternet,
		DurationShorter, DurationLonger, PriorityDown, PriorityUp, Abandon, Complete, DestroyTask:
		return true
	}
	return false
}

// Prompt describes the line of text a command asks for before it runs.
type Prompt struct {
	Label   string
	Choices []string // fixed answers offered as suggestions, if any
}

// Prompt returns the prompt of c, if it has one.
func (c Command) Prompt() (Prompt, bool) {
	switch c {
	case FilterInternet:
		return Prompt{Label: "requires internet", Choices: []string{"any", "yes", "no"}}, true
	case FilterTitle:
		return Prompt{Label: "title contains"}, true
	case CreateTask:
		return Prompt{Label: "new task"}, true
	case EditTitle:
		return Prompt{Label: "title"}, true
	case JumpToTask:
		return Prompt{Label: "task id"}, true
	}
	return Prompt{}, false
}

// KeyMap binds keys to commands.
type KeyMap struct {
	Quit            key.Binding
	Help            key.Binding
	ToggleDetail    key.Binding
	Up              key.Binding
	Down            key.Binding
	Top             key.Binding
	Bottom          key.Binding
	JumpToTask      key.Binding
	FilterInternet  key.Binding
	FilterTitle     key.Binding
	CreateTask      key.Binding
	EditTitle       key.Binding
	RecordEffort    key.Binding
	RequestDelay    key.Binding
	ResetAge        key.Binding
	ToggleInternet  key.Binding
	DurationShorter key.Binding
	DurationLonger  key.Binding
	PriorityDown    key.Binding
	PriorityUp      key.Binding
	Abandon         key.Binding
	Complete        key.Binding
	DestroyTask     key.Binding
	Undo            key.Binding
	Redo            key.Binding
	Reload          key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ToggleDetail:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "details")),
		Up:              key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:            key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:             key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:          key.NewBinding(key.WithKeys("$", "G", "end"), key.WithHelp("$", "bottom")),
		JumpToTask:      key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "go to id")),
		FilterInternet:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "internet filter")),
		FilterTitle:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "title filter")),
		CreateTask:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		EditTitle:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		RecordEffort:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "effort")),
		RequestDelay:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "later")),
		ResetAge:        key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset age")),
		ToggleInternet:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "internet")),
		DurationShorter: key.NewBinding(key.WithKeys("d"), key.WithHelp("d/D", "duration")),
		DurationLonger:  key.NewBinding(key.WithKeys("D")),
		PriorityDown:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p/P", "priority")),
		PriorityUp:      key.NewBinding(key.WithKeys("P")),
		Abandon:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "abandon")),
		Complete:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		DestroyTask:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "destroy")),
		Undo:            key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:            key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "redo")),
		Reload:          key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	}
}

func (k KeyMap) bindings() []struct {
	b   key.Binding
	cmd Command
} {
	return []struct {
		b   key.Binding
		cmd Command
	}{
		{k.Quit, Quit}, {k.Help, Help}, {k.ToggleDetail, ToggleDetail},
		{k.Up, MoveUp}, {k.Down, MoveDown}, {k.Top, JumpTop}, {k.Bottom, JumpBottom},
		{k.JumpToTask, JumpToTask}, {k.FilterInternet, FilterInternet}, {k.FilterTitle, FilterTitle},
		{k.CreateTask, CreateTask}, {k.EditTitle, EditTitle},
		{k.RecordEffort, RecordEffort}, {k.RequestDelay, RequestDelay}, {k.ResetAge, ResetAge},
		{k.ToggleInternet, ToggleInternet},
		{k.DurationShorter, DurationShorter}, {k.DurationLonger, DurationLonger},
		{k.PriorityDown, PriorityDown}, {k.PriorityUp, PriorityUp},
		{k.Abandon, Abandon}, {k.Complete, Complete}, {k.DestroyTask, DestroyTask},
		{k.Undo, Undo}, {k.Redo, Redo}, {k.Reload, Reload},
	}
}

// Lookup returns the command bound to msg, or None.
func (k KeyMap) Lookup(msg tea.KeyMsg) Command {
	for _, e := range k.bindings() {
		if key.Matches(msg, e.b) {
			return e.cmd
		}
	}
	return None
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.CreateTask, k.RecordEffort, k.RequestDelay, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.JumpToTask, k.ToggleDetail},
		{k.CreateTask, k.EditTitle, k.RecordEffort, k.RequestDelay, k.ResetAge},
		{k.ToggleInternet, k.DurationShorter, k.PriorityDown, k.Abandon, k.Complete, k.DestroyTask},
		{k.FilterInternet, k.FilterTitle, k.Undo, k.Redo, k.Reload, k.Quit},
	}
}
