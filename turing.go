package turing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the Turing library.
// It wraps the internal runtime and records runs in an optional store.
type Engine struct {
	runtime   *runtime.Engine
	store     ports.RunStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	stepLimit  int
	traceLimit int
	newID      func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepLimit halts runs as failed after n steps. Zero (the default) is unbounded.
func WithStepLimit(n int) Option {
	return func(e *Engine) {
		e.stepLimit = n
	}
}

// WithTraceLimit halts runs as failed once the tape snapshots in their trace
// would exceed n bytes. Zero (the default) is unbounded.
func WithTraceLimit(n int) Option {
	return func(e *Engine) {
		e.traceLimit = n
	}
}

// WithStore records every run in the given store.
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// New initializes a new Turing Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = eng.newRuntime(eng.stepLimit)

	return eng
}

func (e *Engine) newRuntime(stepLimit int) *runtime.Engine {
	return runtime.NewEngine(
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
		runtime.WithStepLimit(stepLimit),
		runtime.WithTraceLimit(e.traceLimit),
	)
}

// Execute runs the machine on input and returns its outcome without recording it.
func (e *Engine) Execute(ctx context.Context, m *domain.Machine, input string) (*domain.Outcome, error) {
	return e.runtime.Execute(ctx, m, input)
}

// Run executes the machine and records the run. The record is saved when a store
// is configured; a failed save is returned together with the record.
func (e *Engine) Run(ctx context.Context, m *domain.Machine, input string) (*domain.RunRecord, error) {
	started := time.Now()

	outcome, err := e.runtime.Execute(ctx, m, input)
	if err != nil {
		return nil, err
	}

	record := &domain.RunRecord{
		ID:        e.newID(),
		Machine:   m.Name,
		Input:     input,
		Outcome:   outcome,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
	}

	if e.store != nil {
		if err := e.store.Save(ctx, record); err != nil {
			e.logger.ErrorContext(ctx, "failed to save run", "run_id", record.ID, "error", err)
			return record, fmt.Errorf("failed to save run %s: %w", record.ID, err)
		}
	}

	return record, nil
}

// Limited returns an engine sharing this engine's store, hooks, logger and trace
// limit, with the step limit lowered to n. A non-positive n, or one above the current limit,
// leaves the limit unchanged.
func (e *Engine) Limited(n int) *Engine {
	current := e.StepLimit()
	if n <= 0 || (current > 0 && n >= current) {
		return e
	}

	derived := *e
	derived.stepLimit = n
	derived.runtime = e.newRuntime(n)
	return &derived
}

// Store returns the configured run store, or nil.
func (e *Engine) Store() ports.RunStore {
	return e.store
}

// StepLimit returns the configured step limit (0 when unbounded).
func (e *Engine) StepLimit() int {
	return e.runtime.StepLimit()
}

// TraceLimit returns the configured trace byte limit (0 when unbounded).
func (e *Engine) TraceLimit() int {
	return e.runtime.TraceLimit()
}

// LoadFile reads a machine definition (YAML, or JSON by extension).
func LoadFile(path string) (*domain.Machine, error) {
	return schema.LoadFile(path)
}

// Execute runs a machine once with a throwaway engine.
func Execute(ctx context.Context, m *domain.Machine, input string, opts ...Option) (*domain.Outcome, error) {
	return New(opts...).Execute(ctx, m, input)
}
