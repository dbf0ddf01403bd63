package domain

// FailureKind names why a run halted without reaching a final state.
type FailureKind string

const (
	FailureInvalidState  FailureKind = "invalid_state"
	FailureInvalidSymbol FailureKind = "invalid_symbol"
	FailureStepLimit     FailureKind = "step_limit"
	FailureTraceLimit    FailureKind = "trace_limit"
)

// Failure describes a failed halt. Detail carries the human-readable diagnostic.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

func (f *Failure) Error() string {
	return f.Detail
}

// Outcome is the result of a halted run.
type Outcome struct {
	// Tape is the tape at halt time with leading and trailing blanks removed.
	Tape      string       `json:"tape"`
	Trace     []TraceEntry `json:"trace"`
	Succeeded bool         `json:"succeeded"`
	Steps     int          `json:"steps"`
	Failure   *Failure     `json:"failure,omitempty"`
}

// Output returns the diagnostic of a failed run, or the tape of a successful one.
func (o *Outcome) Output() string {
	if o.Failure != nil {
		return o.Failure.Detail
	}
	return o.Tape
}
