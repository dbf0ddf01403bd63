package middleware

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

type traceLimitMiddleware struct {
	next ports.RunStore
	keep int
}

// NewTraceLimitMiddleware keeps only the last n trace entries of every saved run.
// The caller's record is not modified. A non-positive n drops the trace entirely.
func NewTraceLimitMiddleware(n int) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &traceLimitMiddleware{next: next, keep: n}
	}
}

func (m *traceLimitMiddleware) Save(ctx context.Context, record *domain.RunRecord) error {
	if record.Outcome == nil || len(record.Outcome.Trace) <= m.keep {
		return m.next.Save(ctx, record)
	}

	cloned := *record
	outcome := *record.Outcome
	if m.keep > 0 {
		outcome.Trace = outcome.Trace[len(outcome.Trace)-m.keep:]
	} else {
		outcome.Trace = nil
	}
	cloned.Outcome = &outcome

	return m.next.Save(ctx, &cloned)
}

func (m *traceLimitMiddleware) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	return m.next.Load(ctx, id)
}

func (m *traceLimitMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *traceLimitMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
