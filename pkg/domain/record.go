package domain

import "time"

// RunRecord is a persisted run.
type RunRecord struct {
	ID        string        `json:"id"`
	Machine   string        `json:"machine,omitempty"`
	Input     string        `json:"input"`
	Outcome   *Outcome      `json:"outcome"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Clone returns a deep copy of the record.
func (r *RunRecord) Clone() *RunRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Outcome != nil {
		o := *r.Outcome
		o.Trace = append([]TraceEntry(nil), r.Outcome.Trace...)
		if r.Outcome.Failure != nil {
			f := *r.Outcome.Failure
			o.Failure = &f
		}
		out.Outcome = &o
	}
	return &out
}
