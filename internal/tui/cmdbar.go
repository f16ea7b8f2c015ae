package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/reviewer/internal/command"
)

var (
	cmdBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// CmdBarModel collects the one line of text a command asks for.
type CmdBarModel struct {
	input       textinput.Model
	suggestions *Suggestions
	pending     command.Command
	label       string
	focused     bool
}

// NewCmdBarModel creates a new command bar
func NewCmdBarModel() *CmdBarModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""
	return &CmdBarModel{
		input:       ti,
		suggestions: NewSuggestions(),
	}
}

// Open focuses the bar on behalf of cmd, prefilled with value.
func (m *CmdBarModel) Open(cmd command.Command, p command.Prompt, value string) tea.Cmd {
	m.pending = cmd
	m.label = p.Label
	m.focused = true
	m.suggestions.SetChoices(p.Choices)
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.suggestions.Update(value)
	return m.input.Focus()
}

// Focused reports whether the bar owns the keyboard.
func (m *CmdBarModel) Focused() bool {
	return m.focused
}

// Blur unfocuses the command bar
func (m *CmdBarModel) Blur() {
	m.focused = false
	m.pending = command.None
	m.input.Blur()
	m.input.SetValue("")
	m.suggestions.SetChoices(nil)
}

// Submit returns the pending command with the entered text and blurs.
func (m *CmdBarModel) Submit() (command.Command, string) {
	cmd, val := m.pending, m.input.Value()
	if s, ok := m.suggestions.Selected(); ok {
		val = s
	}
	m.Blur()
	return cmd, val
}

// Update handles messages while focused.
func (m *CmdBarModel) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			m.Blur()
			return nil
		case tea.KeyUp, tea.KeyShiftTab:
			m.suggestions.Prev()
			return nil
		case tea.KeyDown:
			m.suggestions.Next()
			return nil
		case tea.KeyTab:
			if s, ok := m.suggestions.Selected(); ok {
				m.input.SetValue(s)
				m.input.CursorEnd()
				m.suggestions.Update(s)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions.Update(m.input.Value())
	return cmd
}

// View renders the command bar
func (m *CmdBarModel) View(width int) string {
	if !m.focused {
		return ""
	}
	m.input.Width = max(10, width-len(m.label)-6)
	line := cmdBarStyle.Width(width).Render(promptStyle.Render(m.label+": ") + m.input.View())
	if s := m.suggestions.View(); s != "" {
		return lipgloss.JoinVertical(lipgloss.Left, s, line)
	}
	return line
}
