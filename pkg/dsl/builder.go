package dsl

import (
	"fmt"

	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the machine construction.
type Builder struct {
	machine domain.Machine
	states  []*StateBuilder
	errs    []error
}

// New creates a new machine builder.
func New(name string) *Builder {
	return &Builder{
		machine: domain.Machine{
			Name:        name,
			FinalStates: domain.NewStateSet(),
			Blank:       domain.DefaultBlank,
			Table:       make(domain.Table),
		},
	}
}

// Start sets the start state.
func (b *Builder) Start(state domain.StateID) *Builder {
	b.machine.StartState = state
	return b
}

// Final adds accepting states.
func (b *Builder) Final(states ...domain.StateID) *Builder {
	for _, s := range states {
		b.machine.FinalStates[s] = struct{}{}
	}
	return b
}

// Blank overrides the blank symbol.
func (b *Builder) Blank(sym domain.Symbol) *Builder {
	b.machine.Blank = sym
	return b
}

// State returns the builder for a state's row, creating it on first use.
func (b *Builder) State(id domain.StateID) *StateBuilder {
	for _, sb := range b.states {
		if sb.id == id {
			return sb
		}
	}
	sb := &StateBuilder{id: id, builder: b, row: make(map[domain.Symbol]domain.Transition)}
	b.states = append(b.states, sb)
	return sb
}

// Build compiles the rows into a Machine. Errors from the table itself (undefined
// targets, a missing start state) are reported; warnings are not.
func (b *Builder) Build() (*domain.Machine, error) {
	for _, sb := range b.states {
		sb.flush()
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedMachine, b.errs)
	}
	if b.machine.StartState == "" {
		return nil, fmt.Errorf("%w: start state not set", domain.ErrMalformedMachine)
	}

	m := b.machine
	m.Table = make(domain.Table, len(b.states))
	for _, sb := range b.states {
		row := make(map[domain.Symbol]domain.Transition, len(sb.row))
		for sym, tr := range sb.row {
			row[sym] = tr
		}
		m.Table[sb.id] = row
	}

	if err := validator.Err(validator.ValidateMachine(&m)); err != nil {
		return nil, err
	}
	return &m, nil
}

// MustBuild is Build for machines known at compile time. It panics on error.
func (b *Builder) MustBuild() *domain.Machine {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
