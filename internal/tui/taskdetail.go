package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/results"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginTop(1)
)

const maxDetailEvents = 8

var eventLabels = map[models.TaskEventType]string{
	models.TaskEventEffortRecorded:    "effort",
	models.TaskEventDelayRequested:    "delay",
	models.TaskEventAgeResetRequested: "age reset",
}

// renderTaskDetail draws the selected result with its recent events.
func renderTaskDetail(r results.ScoredResult, width int, now time.Time) string {
	task := r.Task
	var b strings.Builder

	b.WriteString(headerStyle.Width(max(0, width-4)).Render(fmt.Sprintf("#%d %s", task.ID, task.Title)))
	b.WriteString("\n")

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	field("Status:", formatStatus(task.Status))
	field("Priority:", string(task.Priority))
	field("Duration:", string(task.Duration))
	field("Internet:", fmt.Sprint(task.RequiresInternet))
	field("Created:", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	field("Age:", FormatAge(now.Sub(r.LastEffortAt)))
	field("Score:", fmt.Sprint(r.Score))

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Events (%d)", len(r.Events))))
	b.WriteString("\n")
	if len(r.Events) == 0 {
		b.WriteString(helpStyle.Render("  none"))
		b.WriteString("\n")
	}
	for i, ev := range r.Events {
		if i == maxDetailEvents {
			b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d older", len(r.Events)-i)))
			b.WriteString("\n")
			break
		}
		label, ok := eventLabels[ev.Type]
		if !ok {
			label = string(ev.Type)
		}
		ago := FormatAge(now.Sub(ev.CreatedAt))
		if ago != "now" {
			ago += " ago"
		}
		b.WriteString(fmt.Sprintf("  %-10s %s\n", label, ago))
	}
	return b.String()
}
