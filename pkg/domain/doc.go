/*
Package domain contains the core models of the Turing engine.

It defines the machine definition (transition table, start and final states, blank
symbol), the tagged transition variants, the execution trace and the halt outcome.
This package is kept pure and free of I/O or persistence concerns so that every
adapter (CLI, HTTP, MCP, stores) speaks the same vocabulary.

# Key Entities

  - Machine: a single-tape deterministic Turing machine definition.
  - Transition: either a bare Move or a MoveAndTransition (write, move, switch state).
  - TraceEntry: a snapshot taken before each executed step.
  - Outcome: the tape, the trace and whether the run succeeded.
  - RunRecord: an Outcome persisted with its run metadata.
*/
package domain
