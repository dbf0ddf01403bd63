package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unaryDefinition = `
name: unary-increment
start state: q0
final states: [q1]
table:
  q0:
    "1": R
    " ": {write: "1", R: q1}
`

func TestRunMachine(t *testing.T) {
	store := memory.NewStore()
	s := NewServer(turing.New(turing.WithStore(store)))

	resp, err := s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": unaryDefinition,
		"input":      "11",
		"trace":      true,
	})
	require.NoError(t, err)

	assert.True(t, resp.Succeeded)
	assert.Equal(t, "111", resp.Output)
	assert.Equal(t, 3, resp.Steps)
	assert.Len(t, resp.Trace, 4)

	ids, err := s.listRuns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{resp.ID}, ids)
}

func TestRunMachine_FailureDiagnostic(t *testing.T) {
	s := NewServer(turing.New())

	resp, err := s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": unaryDefinition,
		"input":      "1x",
	})
	require.NoError(t, err)

	assert.False(t, resp.Succeeded)
	assert.Equal(t, "Invalid symbol: `x` @(p:1)", resp.Output)
	assert.Nil(t, resp.Trace)
}

func TestRunMachine_StepLimit(t *testing.T) {
	s := NewServer(turing.New(turing.WithStepLimit(1000)))

	resp, err := s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": "start state: q0\ntable: {q0: {' ': R}}\n",
		"steps":      float64(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Step limit reached: 5", resp.Output)
}

func TestRunMachine_TraceLimit(t *testing.T) {
	s := NewServer(turing.New(turing.WithStepLimit(100000), turing.WithTraceLimit(64*1024)))

	bouncer := "start state: right\ntable:\n  right: {\"1\": {R: left}}\n  left: {\"1\": {L: right}}\n"
	resp, err := s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": bouncer,
		"input":      strings.Repeat("1", 4096),
		"trace":      true,
	})
	require.NoError(t, err)

	assert.False(t, resp.Succeeded)
	assert.Equal(t, "Trace limit reached: 65536 bytes", resp.Output)
	assert.Equal(t, 15, resp.Steps)
	assert.Len(t, resp.Trace, 16)
}

func TestRunMachine_Errors(t *testing.T) {
	s := NewServer(turing.New())

	_, err := s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": "table: [",
	})
	assert.ErrorContains(t, err, "invalid definition")

	_, err = s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": unaryDefinition,
		"input":      "0",
	})
	assert.ErrorContains(t, err, "run failed")

	_, err = s.handleRunMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": unaryDefinition,
		"input":      "1\x00",
	})
	assert.ErrorContains(t, err, "input rejected")
}

func TestValidateMachine(t *testing.T) {
	s := NewServer(turing.New())

	resp, err := s.handleValidateMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": unaryDefinition,
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Issues)

	resp, err = s.handleValidateMachine(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"definition": "start state: q0\ntable: {q0: {ab: R}}\n",
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Issues, 1)
	assert.Contains(t, resp.Issues[0], "table.q0.ab")
}

func TestListRuns_NoStore(t *testing.T) {
	s := NewServer(turing.New())
	_, err := s.listRuns(context.Background())
	assert.ErrorIs(t, err, errNoStore)
}
