/*
Package turing is a deterministic single-tape Turing machine engine.

It executes a machine definition (transition table, start state, final states and a
blank symbol) against an input string, step by step, until the machine halts. Every
run reports the cleaned tape, the full execution trace and whether the machine
reached a final state.

# Concept

A transition table maps a state and the symbol under the head to a Transition. A
transition is either a bare move ("L" or "R"), which keeps the state, or a move that
optionally writes a symbol and switches to another state. The tape grows on demand in
both directions.

A run fails, without returning an error, when the machine reaches a state that has no
transitions, reads a symbol its current state does not handle, or exceeds the
configured step limit. A definition whose start state cannot perform its first read is
malformed and is returned as an error matching domain.ErrMalformedMachine.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/turing"
	)

	func main() {
		machine, err := turing.LoadFile("examples/machines/unary_increment.yaml")
		if err != nil {
			log.Fatal(err)
		}

		eng := turing.New(turing.WithStepLimit(10_000))

		record, err := eng.Run(context.Background(), machine, "111")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(record.Outcome.Output(), record.Outcome.Succeeded)
	}
*/
package turing
