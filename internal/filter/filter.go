// Package filter narrows a result sequence down to the tasks matching the
// current criteria.
package filter

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/fentz26/reviewer/internal/results"
)

// Tristate is a yes/no predicate that can also accept either.
type Tristate int

const (
	Any Tristate = iota
	Yes
	No
)

func (t Tristate) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "any"
	}
}

// Accepts reports whether v satisfies t.
func (t Tristate) Accepts(v bool) bool {
	switch t {
	case Yes:
		return v
	case No:
		return !v
	default:
		return true
	}
}

// ParseTristate reads any/yes/no, or their first letters.
func ParseTristate(s string) (Tristate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "any":
		return Any, nil
	case "y", "yes":
		return Yes, nil
	case "n", "no":
		return No, nil
	}
	return Any, fmt.Errorf("invalid choice %q: want any, yes or no", s)
}

// Criteria selects which tasks are shown. The zero value accepts every task.
type Criteria struct {
	RequiresInternet Tristate
	TitleQuery       string
}

// IsZero reports whether c accepts everything.
func (c Criteria) IsZero() bool { return c == Criteria{} }

func (c Criteria) String() string {
	if c.IsZero() {
		return "all"
	}
	var parts []string
	if c.RequiresInternet != Any {
		parts = append(parts, "internet:"+c.RequiresInternet.String())
	}
	if c.TitleQuery != "" {
		parts = append(parts, fmt.Sprintf("title:%q", c.TitleQuery))
	}
	return strings.Join(parts, " ")
}

// Match reports whether r passes c. Title matching is a case-folded
// substring search.
func (c Criteria) Match(r results.ScoredResult) bool {
	return c.matcher()(r)
}

func (c Criteria) matcher() func(results.ScoredResult) bool {
	query := ""
	folder := cases.Fold()
	if c.TitleQuery != "" {
		query = folder.String(c.TitleQuery)
	}
	return func(r results.ScoredResult) bool {
		if !c.RequiresInternet.Accepts(r.Task.RequiresInternet) {
			return false
		}
		return query == "" || strings.Contains(folder.String(r.Task.Title), query)
	}
}

// State is the snapshot of a Stage.
type State struct {
	Criteria Criteria
	Results  results.Sequence
}

// Stage holds the criteria and the last filtered sequence.
type Stage struct {
	criteria Criteria
	results  results.Sequence
}

// NewStage creates a stage that starts with criteria c.
func NewStage(c Criteria) *Stage {
	return &Stage{criteria: c}
}

// Refresh filters seq with the current criteria, preserving order, and
// remembers the result.
func (s *Stage) Refresh(seq results.Sequence) results.Sequence {
	if s.criteria.IsZero() {
		s.results = seq
	} else {
		s.results = seq.Select(s.criteria.matcher())
	}
	return s.results
}

// SetCriteria replaces the criteria. It does not re-filter; call Refresh.
func (s *Stage) SetCriteria(c Criteria) { s.criteria = c }

// Criteria returns the current criteria.
func (s *Stage) Criteria() Criteria { return s.criteria }

// Results returns the last filtered sequence.
func (s *Stage) Results() results.Sequence { return s.results }

// State returns a snapshot of the stage.
func (s *Stage) State() State {
	return State{Criteria: s.criteria, Results: s.results}
}

// Restore installs a snapshot.
func (s *Stage) Restore(st State) {
	s.criteria = st.Criteria
	s.results = st.Results
}
