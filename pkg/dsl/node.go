package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// StateBuilder provides a fluent API for filling one row of the table.
// Each On starts a rule; Write, Left/Right and Go/Stay complete it.
type StateBuilder struct {
	id      domain.StateID
	builder *Builder
	row     map[domain.Symbol]domain.Transition

	pending *rule
}

type rule struct {
	read      domain.Symbol
	write     domain.Symbol
	overwrite bool
	dir       domain.Direction
	next      domain.StateID
	switches  bool
}

// On starts the rule for reading sym.
func (s *StateBuilder) On(sym domain.Symbol) *StateBuilder {
	s.flush()
	s.pending = &rule{read: sym}
	return s
}

// Write makes the rule overwrite the current cell.
func (s *StateBuilder) Write(sym domain.Symbol) *StateBuilder {
	if r := s.current("Write"); r != nil {
		r.write = sym
		r.overwrite = true
	}
	return s
}

// Left moves the head left.
func (s *StateBuilder) Left() *StateBuilder {
	if r := s.current("Left"); r != nil {
		r.dir = domain.Left
	}
	return s
}

// Right moves the head right.
func (s *StateBuilder) Right() *StateBuilder {
	if r := s.current("Right"); r != nil {
		r.dir = domain.Right
	}
	return s
}

// Go switches to next after moving.
func (s *StateBuilder) Go(next domain.StateID) *StateBuilder {
	if r := s.current("Go"); r != nil {
		r.next = next
		r.switches = true
	}
	return s
}

// Stay keeps the current state.
func (s *StateBuilder) Stay() *StateBuilder {
	return s.Go(s.id)
}

// State jumps to another row of the same machine.
func (s *StateBuilder) State(id domain.StateID) *StateBuilder {
	s.flush()
	return s.builder.State(id)
}

func (s *StateBuilder) current(step string) *rule {
	if s.pending == nil {
		s.builder.errs = append(s.builder.errs, fmt.Errorf("state %s: %s called before On", s.id, step))
	}
	return s.pending
}

// flush turns the pending rule into a transition.
func (s *StateBuilder) flush() {
	r := s.pending
	if r == nil {
		return
	}
	s.pending = nil

	if r.dir == "" {
		s.builder.errs = append(s.builder.errs, fmt.Errorf("state %s on %q: no direction", s.id, r.read.String()))
		return
	}
	if _, dup := s.row[r.read]; dup {
		s.builder.errs = append(s.builder.errs, fmt.Errorf("state %s on %q: duplicate rule", s.id, r.read.String()))
		return
	}

	switch {
	case r.overwrite:
		next := r.next
		if !r.switches {
			next = s.id
		}
		s.row[r.read] = domain.NewWriteTransition(r.write, r.dir, next)
	case r.switches:
		s.row[r.read] = domain.NewTransition(r.dir, r.next)
	default:
		s.row[r.read] = domain.NewMove(r.dir)
	}
}
