// Package schema decodes Turing machine definitions from YAML or JSON documents.
//
// A definition uses the following keys:
//
//	name: unary-increment
//	blank: " "
//	start state: q0
//	final states: [q1]
//	table:
//	  q0:
//	    "1": R
//	    " ": {write: "1", R: q1}
//
// A transition is either a bare direction ("L" or "R"), which moves the head and
// keeps the state, or a map with an optional "write" symbol and exactly one of
// "L"/"R" naming the next state.
//
// Structural problems are reported as an *AggregateError listing every offending
// field. Every error returned by this package matches domain.ErrMalformedMachine
// with errors.Is.
package schema
