package domain

import (
	"encoding/json"
	"fmt"
)

// TraceEntry is the snapshot of a run taken before a step is applied.
type TraceEntry struct {
	State      StateID    `json:"state"`
	Position   int        `json:"position"`
	Reading    Symbol     `json:"reading"`
	Memory     string     `json:"memory"`
	Transition Transition `json:"transition"`
}

// UnmarshalJSON restores the transition from its definition form.
func (e *TraceEntry) UnmarshalJSON(data []byte) error {
	type alias TraceEntry
	aux := struct {
		*alias
		Transition any `json:"transition"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	tr, err := ParseTransition(aux.Transition)
	if err != nil {
		return fmt.Errorf("trace transition: %w", err)
	}
	e.Transition = tr
	return nil
}
