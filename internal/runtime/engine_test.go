package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unaryIncrement appends a '1' to a block of ones.
func unaryIncrement() *domain.Machine {
	return &domain.Machine{
		Name:        "unary-increment",
		StartState:  "q0",
		FinalStates: domain.NewStateSet("q1"),
		Table: domain.Table{
			"q0": {
				'1': domain.NewMove(domain.Right),
				' ': domain.NewWriteTransition('1', domain.Right, "q1"),
			},
		},
	}
}

// binaryIncrement adds one to a binary number.
func binaryIncrement() *domain.Machine {
	return &domain.Machine{
		Name:        "binary-increment",
		StartState:  "right",
		FinalStates: domain.NewStateSet("done"),
		Table: domain.Table{
			"right": {
				'1': domain.NewMove(domain.Right),
				'0': domain.NewMove(domain.Right),
				' ': domain.NewTransition(domain.Left, "carry"),
			},
			"carry": {
				'1': domain.NewWriteTransition('0', domain.Left, "carry"),
				'0': domain.NewWriteTransition('1', domain.Left, "done"),
				' ': domain.NewWriteTransition('1', domain.Left, "done"),
			},
		},
	}
}

func TestEngine_Execute_UnaryIncrement(t *testing.T) {
	engine := runtime.NewEngine()

	out, err := engine.Execute(context.Background(), unaryIncrement(), "11")
	require.NoError(t, err)

	assert.True(t, out.Succeeded)
	assert.Nil(t, out.Failure)
	assert.Equal(t, "111", out.Tape)
	assert.Equal(t, 3, out.Steps)
	assert.Len(t, out.Trace, out.Steps+1)
}

func TestEngine_Execute_BinaryIncrement(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "1"},
		{"1", "10"},
		{"1011", "1100"},
		{"111", "1000"},
	}

	engine := runtime.NewEngine()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := engine.Execute(context.Background(), binaryIncrement(), tt.input)
			require.NoError(t, err)
			assert.True(t, out.Succeeded)
			assert.Equal(t, tt.want, out.Tape)
		})
	}
}

func TestEngine_Execute_MovesRightUntilUnknownSymbol(t *testing.T) {
	m := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet(),
		Table: domain.Table{
			"q0": {
				'0': domain.NewMove(domain.Right),
				'1': domain.NewMove(domain.Right),
			},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "101")
	require.NoError(t, err)

	assert.False(t, out.Succeeded)
	require.NotNil(t, out.Failure)
	assert.Equal(t, domain.FailureInvalidSymbol, out.Failure.Kind)
	assert.Equal(t, "Invalid symbol: ` ` @(p:3)", out.Failure.Detail)
	assert.Contains(t, out.Output(), "Invalid symbol")
	assert.Equal(t, "101", out.Tape)
}

func TestEngine_Execute_AlreadyFinal(t *testing.T) {
	m := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet("q0"),
		Table: domain.Table{
			"q0": {'a': domain.NewMove(domain.Right)},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "ab ")
	require.NoError(t, err)

	assert.True(t, out.Succeeded)
	assert.Equal(t, "ab", out.Tape)
	assert.Equal(t, 0, out.Steps)
	require.Len(t, out.Trace, 1)
	assert.Equal(t, domain.TraceEntry{
		State:      "q0",
		Position:   0,
		Reading:    'a',
		Memory:     "ab ",
		Transition: domain.NewMove(domain.Right),
	}, out.Trace[0])
}

func TestEngine_Execute_UnknownStartState(t *testing.T) {
	m := unaryIncrement()
	m.StartState = "qX"

	out, err := runtime.NewEngine().Execute(context.Background(), m, "11")
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domain.ErrMalformedMachine), "got %v", err)
}

func TestEngine_Execute_StartSymbolMissing(t *testing.T) {
	out, err := runtime.NewEngine().Execute(context.Background(), unaryIncrement(), "0")
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrMalformedMachine)
}

func TestEngine_Execute_NilMachine(t *testing.T) {
	_, err := runtime.NewEngine().Execute(context.Background(), nil, "")
	assert.ErrorIs(t, err, domain.ErrMalformedMachine)
}

func TestEngine_Execute_InvalidState(t *testing.T) {
	m := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet("end"),
		Table: domain.Table{
			"q0": {'1': domain.NewTransition(domain.Right, "ghost")},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "1")
	require.NoError(t, err)

	assert.False(t, out.Succeeded)
	require.NotNil(t, out.Failure)
	assert.Equal(t, domain.FailureInvalidState, out.Failure.Kind)
	assert.Equal(t, "Invalid state: ghost", out.Output())
}

func TestEngine_Execute_EmptyInputReadsBlank(t *testing.T) {
	out, err := runtime.NewEngine().Execute(context.Background(), unaryIncrement(), "")
	require.NoError(t, err)

	assert.True(t, out.Succeeded)
	assert.Equal(t, "1", out.Tape)
	assert.Equal(t, domain.Symbol(' '), out.Trace[0].Reading)
}

func TestEngine_Execute_CustomBlank(t *testing.T) {
	m := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet("halt"),
		Blank:       '_',
		Table: domain.Table{
			"q0": {
				'a': domain.NewMove(domain.Right),
				'_': domain.NewWriteTransition('b', domain.Right, "halt"),
			},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "a")
	require.NoError(t, err)
	assert.Equal(t, "ab", out.Tape)
}

func TestEngine_Execute_LeftwardGrowth(t *testing.T) {
	// Walk two cells left of the input, then write a marker and stop.
	m := &domain.Machine{
		StartState:  "l1",
		FinalStates: domain.NewStateSet("done"),
		Table: domain.Table{
			"l1": {'x': domain.NewTransition(domain.Left, "l2")},
			"l2": {' ': domain.NewTransition(domain.Left, "mark")},
			"mark": {
				' ': domain.NewWriteTransition('<', domain.Right, "done"),
			},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "x")
	require.NoError(t, err)
	require.True(t, out.Succeeded)

	assert.Equal(t, "< x", out.Tape)

	// Every left move past the origin inserts exactly one blank and pins the head at 0.
	require.Len(t, out.Trace, 4)
	assert.Equal(t, "x", out.Trace[1].Memory)
	assert.Equal(t, 0, out.Trace[2].Position)
	assert.Equal(t, " x", out.Trace[2].Memory)
	assert.Equal(t, 0, out.Trace[3].Position)
	assert.Equal(t, "  x", out.Trace[3].Memory)
}

func TestEngine_Execute_TraceMemoryIsPreStep(t *testing.T) {
	out, err := runtime.NewEngine().Execute(context.Background(), binaryIncrement(), "1")
	require.NoError(t, err)

	memories := make([]string, 0, len(out.Trace))
	for _, e := range out.Trace {
		memories = append(memories, e.Memory)
	}

	// priming, right on '1', right on the appended blank, carry on '1', then carry on
	// the blank inserted at the front.
	assert.Equal(t, []string{"1", "1", "1 ", "1 ", " 0 "}, memories)
	assert.Equal(t, "10", out.Tape)
}

func TestEngine_Execute_Deterministic(t *testing.T) {
	engine := runtime.NewEngine()
	first, err := engine.Execute(context.Background(), binaryIncrement(), "10111")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.Execute(context.Background(), binaryIncrement(), "10111")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEngine_Execute_StepLimit(t *testing.T) {
	loop := &domain.Machine{
		StartState: "q0",
		Table: domain.Table{
			"q0": {' ': domain.NewMove(domain.Right)},
		},
	}

	out, err := runtime.NewEngine(runtime.WithStepLimit(25)).Execute(context.Background(), loop, "")
	require.NoError(t, err)

	assert.False(t, out.Succeeded)
	assert.Equal(t, domain.FailureStepLimit, out.Failure.Kind)
	assert.Equal(t, "Step limit reached: 25", out.Output())
	assert.Equal(t, 25, out.Steps)
	assert.Len(t, out.Trace, 26)
}

func TestEngine_Execute_StepLimitDoesNotCutShortHalts(t *testing.T) {
	out, err := runtime.NewEngine(runtime.WithStepLimit(3)).Execute(context.Background(), unaryIncrement(), "11")
	require.NoError(t, err)
	assert.True(t, out.Succeeded)
}

func TestEngine_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runtime.NewEngine().Execute(ctx, unaryIncrement(), "11")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Execute_Hooks(t *testing.T) {
	var steps []int
	var halted *domain.Outcome

	hooks := domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			steps = append(steps, e.Step)
			assert.Equal(t, "unary-increment", e.Machine)
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			halted = e.Outcome
		},
	}

	out, err := runtime.NewEngine(runtime.WithLifecycleHooks(hooks)).Execute(context.Background(), unaryIncrement(), "11")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, steps)
	assert.Same(t, out, halted)
}

func TestEngine_Execute_InteriorBlanksKept(t *testing.T) {
	m := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet("q1"),
		Table: domain.Table{
			"q0": {'a': domain.NewWriteTransition(' ', domain.Right, "q1")},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "aab ")
	require.NoError(t, err)
	assert.Equal(t, "ab", out.Tape)

	out, err = runtime.NewEngine().Execute(context.Background(), m, "a b")
	require.NoError(t, err)
	assert.Equal(t, "b", out.Tape)

	m.Table["q0"]['a'] = domain.NewTransition(domain.Right, "q1")
	out, err = runtime.NewEngine().Execute(context.Background(), m, "a b")
	require.NoError(t, err)
	assert.Equal(t, "a b", out.Tape)
}

func TestEngine_Execute_InvalidStateDetailIsTrimmed(t *testing.T) {
	m := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet("end"),
		Blank:       '_',
		Table: domain.Table{
			"q0": {'1': domain.NewTransition(domain.Right, "q_")},
		},
	}

	out, err := runtime.NewEngine().Execute(context.Background(), m, "1")
	require.NoError(t, err)

	assert.Equal(t, domain.FailureInvalidState, out.Failure.Kind)
	assert.Equal(t, "Invalid state: q", out.Output())
}

func TestEngine_Execute_StepLimitDetailIsNotTrimmed(t *testing.T) {
	loop := &domain.Machine{
		StartState: "q0",
		Blank:      '0',
		Table: domain.Table{
			"q0": {'0': domain.NewMove(domain.Right)},
		},
	}

	out, err := runtime.NewEngine(runtime.WithStepLimit(10)).Execute(context.Background(), loop, "")
	require.NoError(t, err)
	assert.Equal(t, "Step limit reached: 10", out.Output())
}

// bouncer moves the head between cells 0 and 1 forever without growing the tape.
func bouncer() *domain.Machine {
	return &domain.Machine{
		StartState: "right",
		Table: domain.Table{
			"right": {'1': domain.NewTransition(domain.Right, "left")},
			"left":  {'1': domain.NewTransition(domain.Left, "right")},
		},
	}
}

func TestEngine_Execute_TraceLimit(t *testing.T) {
	input := strings.Repeat("1", 1000)
	engine := runtime.NewEngine(runtime.WithStepLimit(100000), runtime.WithTraceLimit(10*1000))

	out, err := engine.Execute(context.Background(), bouncer(), input)
	require.NoError(t, err)

	assert.False(t, out.Succeeded)
	require.NotNil(t, out.Failure)
	assert.Equal(t, domain.FailureTraceLimit, out.Failure.Kind)
	assert.Equal(t, "Trace limit reached: 10000 bytes", out.Output())

	// The priming entry plus nine steps fill the budget exactly.
	assert.Equal(t, 9, out.Steps)
	assert.Len(t, out.Trace, out.Steps+1)

	total := 0
	for _, e := range out.Trace {
		total += len(e.Memory)
	}
	assert.LessOrEqual(t, total, 10*1000)
}

func TestEngine_Execute_TraceLimitDoesNotCutShortHalts(t *testing.T) {
	out, err := runtime.NewEngine(runtime.WithTraceLimit(64)).Execute(context.Background(), unaryIncrement(), "11")
	require.NoError(t, err)
	assert.True(t, out.Succeeded)
	assert.Equal(t, "111", out.Tape)
}
