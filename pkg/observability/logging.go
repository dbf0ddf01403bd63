package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LogHooks returns lifecycle hooks that write each step (Debug) and halt (Info) to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"machine", e.Machine,
				"n", e.Step,
				"state", e.Entry.State,
				"reading", e.Entry.Reading.String(),
				"position", e.Entry.Position,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			attrs := []any{"machine", e.Machine, "steps", e.Outcome.Steps, "succeeded", e.Outcome.Succeeded}
			if e.Outcome.Failure != nil {
				attrs = append(attrs, "failure", e.Outcome.Failure.Detail)
			}
			logger.InfoContext(ctx, "halt", attrs...)
		},
	}
}
