package schema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Document is the on-disk shape of a machine definition.
type Document struct {
	Name        string                                  `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Blank       string                                  `mapstructure:"blank" yaml:"blank" json:"blank"`
	StartState  string                                  `mapstructure:"start state" yaml:"start state" json:"start state"`
	FinalStates []string                                `mapstructure:"final states" yaml:"final states" json:"final states"`
	Table       map[string]map[string]domain.Transition `mapstructure:"table" yaml:"table" json:"table"`
}

var transitionType = reflect.TypeOf((*domain.Transition)(nil)).Elem()

// transitionHook turns raw definition values ("R", {"write": "1", "L": "q2"}) into domain transitions.
func transitionHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != transitionType {
		return data, nil
	}
	return domain.ParseTransition(data)
}

// FromMap decodes a generic document (as produced by a YAML or JSON decoder) into a Machine.
func FromMap(raw map[string]any) (*domain.Machine, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       transitionHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, &AggregateError{Errors: []error{&ValidationError{
			Key:    "document",
			Reason: err.Error(),
		}}}
	}

	return doc.Machine()
}

// Machine validates the document structure and builds the domain machine.
func (d *Document) Machine() (*domain.Machine, error) {
	var errs []error

	if d.StartState == "" {
		errs = append(errs, &ValidationError{Key: "start state", Reason: "required"})
	}

	m := &domain.Machine{
		Name:        d.Name,
		StartState:  domain.StateID(d.StartState),
		FinalStates: domain.NewStateSet(),
		Blank:       domain.DefaultBlank,
		Table:       make(domain.Table, len(d.Table)),
	}

	if d.Blank != "" {
		blank, err := domain.ParseSymbol(d.Blank)
		if err != nil {
			errs = append(errs, &ValidationError{Key: "blank", Reason: "must be exactly one character", Value: d.Blank})
		} else {
			m.Blank = blank
		}
	}

	for i, s := range d.FinalStates {
		if s == "" {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("final states[%d]", i), Reason: "empty state name"})
			continue
		}
		m.FinalStates[domain.StateID(s)] = struct{}{}
	}

	for _, state := range sortedKeys(d.Table) {
		symbols := d.Table[state]
		row := make(map[domain.Symbol]domain.Transition, len(symbols))
		for _, key := range sortedKeys(symbols) {
			sym, err := domain.ParseSymbol(key)
			if err != nil {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("table.%s.%s", state, key),
					Reason: "symbol must be exactly one character",
				})
				continue
			}
			if symbols[key] == nil {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("table.%s.%s", state, key),
					Reason: "missing transition",
				})
				continue
			}
			row[sym] = symbols[key]
		}
		m.Table[domain.StateID(state)] = row
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return m, nil
}

// ToDocument converts a machine back into its definition form.
func ToDocument(m *domain.Machine) *Document {
	doc := &Document{
		Name:        m.Name,
		Blank:       m.BlankSymbol().String(),
		StartState:  string(m.StartState),
		FinalStates: make([]string, 0, len(m.FinalStates)),
		Table:       make(map[string]map[string]domain.Transition, len(m.Table)),
	}
	for _, s := range m.FinalStates.Sorted() {
		doc.FinalStates = append(doc.FinalStates, string(s))
	}
	for state, symbols := range m.Table {
		row := make(map[string]domain.Transition, len(symbols))
		for sym, tr := range symbols {
			row[sym.String()] = tr
		}
		doc.Table[string(state)] = row
	}
	return doc
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
