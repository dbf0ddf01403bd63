package domain

import (
	"encoding/json"
	"fmt"
)

// Transition is the action bound to a (state, symbol) pair.
// It is a closed union: Move or MoveAndTransition.
type Transition interface {
	// Direction reports where the head goes after the transition is applied.
	Direction() Direction
	isTransition()
}

// Move moves the head one cell and keeps both the symbol and the state.
type Move struct {
	Dir Direction
}

func (Move) isTransition() {}

// Direction implements Transition.
func (m Move) Direction() Direction { return m.Dir }

// MarshalJSON encodes a Move in its definition form: "L" or "R".
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m.Dir))
}

// MarshalYAML encodes a Move in its definition form.
func (m Move) MarshalYAML() (any, error) {
	return string(m.Dir), nil
}

// MoveAndTransition optionally writes a symbol, moves the head one cell and
// switches to Next.
type MoveAndTransition struct {
	Dir  Direction
	Next StateID

	// Write is only applied when Overwrite is set.
	Write     Symbol
	Overwrite bool
}

func (MoveAndTransition) isTransition() {}

// Direction implements Transition.
func (t MoveAndTransition) Direction() Direction { return t.Dir }

// MarshalJSON encodes the transition in its definition form, e.g. {"write":"1","R":"q1"}.
func (t MoveAndTransition) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.definition())
}

// MarshalYAML encodes the transition in its definition form.
func (t MoveAndTransition) MarshalYAML() (any, error) {
	return t.definition(), nil
}

func (t MoveAndTransition) definition() map[string]string {
	out := map[string]string{string(t.Dir): string(t.Next)}
	if t.Overwrite {
		out["write"] = t.Write.String()
	}
	return out
}

// NewMove builds a bare directional transition.
func NewMove(dir Direction) Transition {
	return Move{Dir: dir}
}

// NewTransition builds a transition that moves and switches state without writing.
func NewTransition(dir Direction, next StateID) Transition {
	return MoveAndTransition{Dir: dir, Next: next}
}

// NewWriteTransition builds a transition that writes, moves and switches state.
func NewWriteTransition(write Symbol, dir Direction, next StateID) Transition {
	return MoveAndTransition{Dir: dir, Next: next, Write: write, Overwrite: true}
}

// ParseTransition converts a decoded definition value into a Transition.
// Accepted forms are a direction string ("L", "R") or a map holding an optional
// "write" symbol and exactly one of "L"/"R" pointing at the next state.
func ParseTransition(v any) (Transition, error) {
	switch val := v.(type) {
	case Transition:
		return val, nil
	case string:
		dir, err := ParseDirection(val)
		if err != nil {
			return nil, err
		}
		return NewMove(dir), nil
	case map[string]any:
		return parseTransitionMap(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = v
		}
		return parseTransitionMap(m)
	case nil:
		return nil, fmt.Errorf("%w: empty transition", ErrMalformedMachine)
	}
	return nil, fmt.Errorf("%w: unsupported transition %v (%T)", ErrMalformedMachine, v, v)
}

func parseTransitionMap(m map[string]any) (Transition, error) {
	var t MoveAndTransition
	var targets int

	for key, raw := range m {
		switch key {
		case "write":
			sym, err := ParseSymbol(fmt.Sprint(raw))
			if err != nil {
				return nil, err
			}
			t.Write = sym
			t.Overwrite = true
		case string(Left), string(Right):
			next, ok := raw.(string)
			if !ok || next == "" {
				return nil, fmt.Errorf("%w: transition %q needs a state name", ErrMalformedMachine, key)
			}
			t.Dir = Direction(key)
			t.Next = StateID(next)
			targets++
		default:
			return nil, fmt.Errorf("%w: unknown transition key %q", ErrMalformedMachine, key)
		}
	}

	if targets != 1 {
		return nil, fmt.Errorf("%w: transition must name exactly one of L or R", ErrMalformedMachine)
	}
	return t, nil
}
