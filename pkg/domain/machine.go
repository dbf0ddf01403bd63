package domain

import "sort"

// StateID identifies a machine state.
type StateID string

// StateSet is an unordered set of states.
type StateSet map[StateID]struct{}

// NewStateSet builds a set from the given states.
func NewStateSet(states ...StateID) StateSet {
	set := make(StateSet, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether s is in the set.
func (set StateSet) Contains(s StateID) bool {
	_, ok := set[s]
	return ok
}

// Sorted returns the members in lexical order.
func (set StateSet) Sorted() []StateID {
	out := make([]StateID, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Table maps a state to its transitions, keyed by the symbol under the head.
type Table map[StateID]map[Symbol]Transition

// State returns the transition map of a state.
func (t Table) State(state StateID) (map[Symbol]Transition, bool) {
	symbols, ok := t[state]
	return symbols, ok
}

// Lookup returns the transition for a (state, symbol) pair.
func (t Table) Lookup(state StateID, symbol Symbol) (Transition, bool) {
	symbols, ok := t.State(state)
	if !ok {
		return nil, false
	}
	tr, ok := symbols[symbol]
	return tr, ok
}

// Machine is a single-tape deterministic Turing machine.
// A Machine must not be mutated while a run is using it.
type Machine struct {
	Name        string
	StartState  StateID
	FinalStates StateSet
	// Blank defaults to DefaultBlank when zero.
	Blank Symbol
	Table Table
}

// BlankSymbol returns the effective blank symbol.
func (m *Machine) BlankSymbol() Symbol {
	if m.Blank == 0 {
		return DefaultBlank
	}
	return m.Blank
}

// IsFinal reports whether state is one of the final states.
// A machine without final states never reaches one.
func (m *Machine) IsFinal(state StateID) bool {
	return m.FinalStates.Contains(state)
}
