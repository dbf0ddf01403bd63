package domain

import (
	"fmt"
	"strings"
)

// Direction is the head movement of a transition.
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
)

// Offset returns the position delta for the direction.
func (d Direction) Offset() int {
	if d == Right {
		return 1
	}
	return -1
}

// ParseDirection accepts "L"/"R" and the long forms "left"/"right", in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", ErrMalformedMachine, s)
}
