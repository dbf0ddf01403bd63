package tests

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// SampleRecord builds a finished run with a non-trivial trace.
func SampleRecord(id string) *domain.RunRecord {
	return &domain.RunRecord{
		ID:      id,
		Machine: "unary-increment",
		Input:   "11",
		Outcome: &domain.Outcome{
			Tape:      "111",
			Succeeded: true,
			Steps:     1,
			Trace: []domain.TraceEntry{
				{State: "q0", Position: 0, Reading: '1', Memory: "11", Transition: domain.NewMove(domain.Right)},
				{State: "q0", Position: 2, Reading: ' ', Memory: "11 ", Transition: domain.NewWriteTransition('1', domain.Right, "q1")},
			},
		},
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Microsecond,
	}
}

// RunStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.RunStore.
func RunStoreContractTest(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-run")
		if !errors.Is(err, domain.ErrRunNotFound) {
			t.Fatalf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Save_Load", func(t *testing.T) {
		want := SampleRecord("run-1")
		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "run-1")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if got.Machine != want.Machine || got.Input != want.Input || got.Duration != want.Duration {
			t.Errorf("metadata mismatch: got %+v, want %+v", got, want)
		}
		if !got.StartedAt.Equal(want.StartedAt) {
			t.Errorf("started_at mismatch: got %v, want %v", got.StartedAt, want.StartedAt)
		}
		if got.Outcome.Tape != "111" || !got.Outcome.Succeeded || len(got.Outcome.Trace) != 2 {
			t.Fatalf("outcome mismatch: %+v", got.Outcome)
		}
		if got.Outcome.Trace[1] != want.Outcome.Trace[1] {
			t.Errorf("trace mismatch: got %+v, want %+v", got.Outcome.Trace[1], want.Outcome.Trace[1])
		}
	})

	t.Run("Save_Isolation", func(t *testing.T) {
		rec := SampleRecord("run-iso")
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		rec.Outcome.Tape = "mutated"

		got, err := store.Load(ctx, "run-iso")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Outcome.Tape != "111" {
			t.Errorf("store shares memory with caller: tape = %q", got.Outcome.Tape)
		}
	})

	t.Run("Failed_Outcome", func(t *testing.T) {
		rec := SampleRecord("run-failed")
		rec.Outcome.Succeeded = false
		rec.Outcome.Failure = &domain.Failure{Kind: domain.FailureInvalidSymbol, Detail: "Invalid symbol: `x` @(p:0)"}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "run-failed")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Outcome.Failure == nil || *got.Outcome.Failure != *rec.Outcome.Failure {
			t.Errorf("failure mismatch: got %+v", got.Outcome.Failure)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		sort.Strings(ids)

		want := []string{"run-1", "run-failed", "run-iso"}
		if len(ids) != len(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("expected %v, got %v", want, ids)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "run-1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "run-1"); !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, "run-1"); err != nil {
			t.Errorf("deleting twice should not fail: %v", err)
		}
	})
}
