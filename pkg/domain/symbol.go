package domain

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultBlank is the blank symbol used when a machine does not declare one.
const DefaultBlank Symbol = ' '

// Symbol is a single tape cell value.
type Symbol rune

func (s Symbol) String() string {
	return string(s)
}

// ParseSymbol converts a one-character string into a Symbol.
func ParseSymbol(s string) (Symbol, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: symbol %q must be exactly one character", ErrMalformedMachine, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return Symbol(r), nil
}

// MarshalJSON encodes the symbol as a one-character string.
func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON decodes a one-character string.
func (s *Symbol) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sym, err := ParseSymbol(str)
	if err != nil {
		return err
	}
	*s = sym
	return nil
}
