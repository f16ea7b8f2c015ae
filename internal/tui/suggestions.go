package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	selectedSuggestionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				PaddingLeft(1)
)

// Suggestions offers the fixed answers of a prompt, narrowed by prefix.
type Suggestions struct {
	choices     []string
	filtered    []string
	selectedIdx int
}

// NewSuggestions creates an empty suggestion list.
func NewSuggestions() *Suggestions {
	return &Suggestions{}
}

// SetChoices replaces the answers on offer.
func (s *Suggestions) SetChoices(choices []string) {
	s.choices = choices
	s.filtered = choices
	s.selectedIdx = 0
}

// Update narrows the list to choices starting with input.
func (s *Suggestions) Update(input string) {
	query := strings.ToLower(strings.TrimSpace(input))
	s.filtered = s.filtered[:0:0]
	for _, c := range s.choices {
		if strings.HasPrefix(c, query) {
			s.filtered = append(s.filtered, c)
		}
	}
	if s.selectedIdx >= len(s.filtered) {
		s.selectedIdx = 0
	}
}

// Next moves to the next suggestion, wrapping around.
func (s *Suggestions) Next() {
	if len(s.filtered) > 0 {
		s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
	}
}

// Prev moves to the previous suggestion, wrapping around.
func (s *Suggestions) Prev() {
	if len(s.filtered) > 0 {
		s.selectedIdx = (s.selectedIdx - 1 + len(s.filtered)) % len(s.filtered)
	}
}

// Selected returns the highlighted suggestion.
func (s *Suggestions) Selected() (string, bool) {
	if len(s.filtered) == 0 {
		return "", false
	}
	return s.filtered[s.selectedIdx], true
}

// View renders the suggestions, one per line.
func (s *Suggestions) View() string {
	if len(s.filtered) == 0 {
		return ""
	}
	lines := make([]string, len(s.filtered))
	for i, c := range s.filtered {
		if i == s.selectedIdx {
			lines[i] = selectedSuggestionStyle.Render("› " + c)
		} else {
			lines[i] = suggestionStyle.Render(c)
		}
	}
	return strings.Join(lines, "\n")
}
