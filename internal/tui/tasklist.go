package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fentz26/reviewer/internal/cursor"
	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/results"
)

var (
	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(mutedColor)

	rowStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	selectedRowStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(fgColor).
				Bold(true)

	statusAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan
	statusCompleted = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	statusAbandoned = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red

	priorityHigh = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
)

const (
	idWidth       = 5
	priorityWidth = 6
	durationWidth = 6
	ageWidth      = 7
	statusWidth   = 9
	internetWidth = 8
	minTitleWidth = 10
)

// taskTable renders the filtered sequence and tracks the scroll offset.
// It is the review.View of the app.
type taskTable struct {
	state  cursor.State
	offset int
	height int
}

func newTaskTable() *taskTable {
	return &taskTable{height: 10}
}

// PositionChanged implements review.View.
func (t *taskTable) PositionChanged(old int, st cursor.State) {
	t.state = st
	t.scrollToCursor()
}

// SequenceReplaced implements review.View.
func (t *taskTable) SequenceReplaced(st cursor.State) {
	t.state = st
	t.scrollToCursor()
}

func (t *taskTable) setHeight(h int) {
	if h < 1 {
		h = 1
	}
	t.height = h
	t.scrollToCursor()
}

func (t *taskTable) scrollToCursor() {
	idx := t.state.Index
	if idx < t.offset {
		t.offset = idx
	}
	if idx >= t.offset+t.height {
		t.offset = idx - t.height + 1
	}
	if maxOffset := t.state.Results.Len() - t.height; t.offset > maxOffset {
		t.offset = max(0, maxOffset)
	}
}

// Render draws the header plus at most height rows.
func (t *taskTable) Render(width int, now time.Time) string {
	titleWidth := width - (idWidth + priorityWidth + durationWidth + ageWidth + statusWidth + internetWidth) - 7
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}

	var b strings.Builder
	header := joinCells(titleWidth, "id", "title", "prior", "durr", "age", "status", "internet")
	b.WriteString(headerRowStyle.Render(header))
	b.WriteString("\n")

	seq := t.state.Results
	if seq.Len() == 0 {
		b.WriteString(helpStyle.Render("  No tasks. Press n to add one."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(seq.Len(), t.offset+t.height)
	for i := t.offset; i < end; i++ {
		b.WriteString(t.renderRow(seq.At(i), i == t.state.Index, titleWidth, now))
		b.WriteString("\n")
	}
	if end < seq.Len() {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more", seq.Len()-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *taskTable) renderRow(r results.ScoredResult, selected bool, titleWidth int, now time.Time) string {
	task := r.Task
	internet := ""
	if task.RequiresInternet {
		internet = "yes"
	}
	line := joinCells(titleWidth,
		fmt.Sprint(task.ID),
		task.Title,
		string(task.Priority),
		string(task.Duration),
		FormatAge(now.Sub(r.LastEffortAt)),
		string(task.Status),
		internet,
	)
	if selected {
		return selectedRowStyle.Render(line)
	}
	if task.Priority == models.TaskPriorityHigh {
		return priorityHigh.Render(line)
	}
	return rowStyle.Render(line)
}

func joinCells(titleWidth int, id, title, prior, durr, age, status, internet string) string {
	cells := []string{
		pad(id, idWidth),
		pad(title, titleWidth),
		pad(prior, priorityWidth),
		pad(durr, durationWidth),
		pad(age, ageWidth),
		pad(status, statusWidth),
		pad(internet, internetWidth),
	}
	return strings.Join(cells, " ")
}

// pad truncates or pads s to exactly w display cells.
func pad(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

// FormatAge renders a duration the way the age column shows it:
// "3w 2d", "4d 1h", "2h 5m", "7m" or "now".
func FormatAge(age time.Duration) string {
	mins := int64(age / time.Minute)
	hours := mins / 60
	days := hours / 24
	weeks := days / 7

	switch {
	case weeks > 0:
		return fmt.Sprintf("%dw %dd", weeks, days-7*weeks)
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours-24*days)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins-60*hours)
	case mins > 0:
		return fmt.Sprintf("%dm", mins)
	default:
		return "now"
	}
}

func formatStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusAvailable:
		return statusAvailable.Render("● available")
	case models.TaskStatusCompleted:
		return statusCompleted.Render("● completed")
	case models.TaskStatusAbandoned:
		return statusAbandoned.Render("● abandoned")
	default:
		return string(status)
	}
}
