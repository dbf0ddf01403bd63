package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Engine is the core Turing machine runner.
// An Engine holds no per-run state and may execute several machines concurrently.
type Engine struct {
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	stepLimit  int
	traceLimit int
}

// EngineOption configures the runtime engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStepLimit caps the number of executed steps. Zero means unbounded.
func WithStepLimit(limit int) EngineOption {
	return func(e *Engine) {
		if limit > 0 {
			e.stepLimit = limit
		}
	}
}

// WithTraceLimit caps the bytes of tape snapshots kept in the trace. A run whose
// next entry would exceed it halts as failed. Zero means unbounded.
func WithTraceLimit(bytes int) EngineOption {
	return func(e *Engine) {
		if bytes > 0 {
			e.traceLimit = bytes
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StepLimit returns the configured step cap (0 when unbounded).
func (e *Engine) StepLimit() int {
	return e.stepLimit
}

// TraceLimit returns the configured trace byte cap (0 when unbounded).
func (e *Engine) TraceLimit() int {
	return e.traceLimit
}

// Execute runs the machine on input until it halts.
//
// Invalid states, invalid symbols and the step limit end the run normally with
// Succeeded=false. A start state that cannot perform its first read is a
// malformed machine and is returned as an error, as is a cancelled context.
func (e *Engine) Execute(ctx context.Context, m *domain.Machine, input string) (*domain.Outcome, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil machine", domain.ErrMalformedMachine)
	}

	ribbon := tape.New(input, m.BlankSymbol())
	state := m.StartState
	position := 0

	// The first read only seeds the trace; it is not a halt condition.
	reading := ribbon.Read(position)
	first, ok := m.Table.Lookup(state, reading)
	if !ok {
		return nil, fmt.Errorf("%w: start state %q has no transition for %q", domain.ErrMalformedMachine, state, reading.String())
	}

	trace := []domain.TraceEntry{{
		State:      state,
		Position:   position,
		Reading:    reading,
		Memory:     ribbon.String(),
		Transition: first,
	}}
	traceBytes := len(trace[0].Memory)

	logger := e.logger.With("machine", m.Name)
	logger.DebugContext(ctx, "run started", "start_state", state, "input_len", ribbon.Len())

	var failure *domain.Failure
	steps := 0

	for !m.IsFinal(state) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if e.stepLimit > 0 && steps >= e.stepLimit {
			failure = &domain.Failure{
				Kind:   domain.FailureStepLimit,
				Detail: fmt.Sprintf("Step limit reached: %d", e.stepLimit),
			}
			break
		}

		symbols, ok := m.Table.State(state)
		if !ok {
			failure = &domain.Failure{
				Kind:   domain.FailureInvalidState,
				Detail: fmt.Sprintf("Invalid state: %s", state),
			}
			break
		}

		reading = ribbon.Read(position)
		transition, ok := symbols[reading]
		if !ok {
			failure = &domain.Failure{
				Kind:   domain.FailureInvalidSymbol,
				Detail: fmt.Sprintf("Invalid symbol: `%s` @(p:%d)", reading, position),
			}
			break
		}

		memory := ribbon.String()
		if e.traceLimit > 0 && traceBytes+len(memory) > e.traceLimit {
			failure = &domain.Failure{
				Kind:   domain.FailureTraceLimit,
				Detail: fmt.Sprintf("Trace limit reached: %d bytes", e.traceLimit),
			}
			break
		}
		traceBytes += len(memory)

		entry := domain.TraceEntry{
			State:      state,
			Position:   position,
			Reading:    reading,
			Memory:     memory,
			Transition: transition,
		}

		state, position = apply(transition, state, position, ribbon)
		trace = append(trace, entry)
		steps++

		logger.DebugContext(ctx, "step", "n", steps, "state", entry.State, "reading", entry.Reading.String(), "position", entry.Position, "next", state)
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, Machine: m.Name},
				Step:      steps,
				Entry:     entry,
			})
		}
	}

	// Halting diagnostics take the tape's place in the output and are cleaned like it.
	if failure != nil && (failure.Kind == domain.FailureInvalidState || failure.Kind == domain.FailureInvalidSymbol) {
		failure.Detail = tape.Trim(failure.Detail, m.BlankSymbol())
	}

	outcome := &domain.Outcome{
		Tape:      ribbon.Trimmed(),
		Trace:     trace,
		Succeeded: failure == nil,
		Steps:     steps,
		Failure:   failure,
	}

	if failure != nil {
		logger.InfoContext(ctx, "run failed", "steps", steps, "kind", failure.Kind, "detail", failure.Detail)
	} else {
		logger.InfoContext(ctx, "run succeeded", "steps", steps, "final_state", state)
	}

	if e.hooks.OnHalt != nil {
		e.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt, Machine: m.Name},
			Outcome:   outcome,
		})
	}

	return outcome, nil
}

// apply performs one transition on the ribbon and returns the next state and head position.
func apply(tr domain.Transition, state domain.StateID, position int, ribbon *tape.Ribbon) (domain.StateID, int) {
	switch t := tr.(type) {
	case domain.MoveAndTransition:
		if t.Overwrite {
			ribbon.Write(position, t.Write)
		}
		return t.Next, ribbon.Move(position, t.Dir)
	case domain.Move:
		return state, ribbon.Move(position, t.Dir)
	}
	panic(fmt.Sprintf("runtime: unknown transition type %T", tr))
}
