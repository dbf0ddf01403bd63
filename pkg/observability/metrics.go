package observability

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values of turing_runs_total.
const (
	ResultSucceeded = "succeeded"
)

// Metrics holds the Prometheus collectors of the engine.
type Metrics struct {
	Steps      *prometheus.CounterVec
	Runs       *prometheus.CounterVec
	TapeLength prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_steps_total",
				Help: "Total number of executed steps, by state",
			},
			[]string{"state"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of halted runs, by result",
			},
			[]string{"result"},
		),
		TapeLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turing_tape_length",
				Help:    "Length of the cleaned tape at halt",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
	reg.MustRegister(m.Steps, m.Runs, m.TapeLength)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(string(e.Entry.State)).Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			result := ResultSucceeded
			if e.Outcome.Failure != nil {
				result = string(e.Outcome.Failure.Kind)
			}
			m.Runs.WithLabelValues(result).Inc()
			m.TapeLength.Observe(float64(len([]rune(e.Outcome.Tape))))
		},
	}
}
