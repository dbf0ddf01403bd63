package domain

import "errors"

// ErrMalformedMachine is returned when a machine definition is missing required structure,
// including a start state that cannot perform its first read.
var ErrMalformedMachine = errors.New("malformed machine")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")
