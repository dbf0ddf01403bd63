package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding about a machine definition.
type Issue struct {
	Severity Severity
	State    domain.StateID
	Symbol   domain.Symbol // zero unless the finding is about one transition
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

// ValidateMachine crawls the table from the start state and reports what would
// fail at runtime: a start state without transitions, transitions into states that
// are neither defined nor final, and states the crawl never reaches.
func ValidateMachine(m *domain.Machine) []Issue {
	var issues []Issue

	if _, ok := m.Table.State(m.StartState); !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			State:    m.StartState,
			Message:  fmt.Sprintf("start state '%s' has no transitions", m.StartState),
		})
	}

	if len(m.FinalStates) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  "no final states: the machine only halts on an invalid state or symbol",
		})
	}

	visited := map[domain.StateID]bool{}
	queue := []domain.StateID{m.StartState}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		symbols, ok := m.Table.State(current)
		if !ok {
			continue
		}

		for _, sym := range sortedSymbols(symbols) {
			tr, ok := symbols[sym].(domain.MoveAndTransition)
			if !ok {
				continue // Bare moves stay in the same state
			}

			if _, defined := m.Table.State(tr.Next); !defined && !m.IsFinal(tr.Next) {
				issues = append(issues, Issue{
					Severity: SeverityError,
					State:    current,
					Symbol:   sym,
					Message:  fmt.Sprintf("'%s' on `%s` goes to undefined state '%s'", current, sym, tr.Next),
				})
				continue
			}

			if !visited[tr.Next] {
				queue = append(queue, tr.Next)
			}
		}
	}

	for _, state := range sortedStates(m.Table) {
		if !visited[state] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				State:    state,
				Message:  fmt.Sprintf("state '%s' is unreachable from '%s'", state, m.StartState),
			})
		}
	}

	return issues
}

// Err folds the error-level issues into a single error, or nil when there are none.
func Err(issues []Issue) error {
	var errors []string
	for _, i := range issues {
		if i.Severity == SeverityError {
			errors = append(errors, i.Message)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrMalformedMachine, len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func sortedSymbols(m map[domain.Symbol]domain.Transition) []domain.Symbol {
	out := make([]domain.Symbol, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedStates(t domain.Table) []domain.StateID {
	out := make([]domain.StateID, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
