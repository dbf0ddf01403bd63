package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHead(t *testing.T) {
	assert.Equal(t, "1[0]1", Head("101", 1, false))
	assert.Equal(t, "[ ]x", Head(" x", 0, false))
	assert.Equal(t, "abc", Head("abc", 5, false), "out of range leaves memory untouched")
}

func TestWriteTrace(t *testing.T) {
	trace := []domain.TraceEntry{
		{State: "q0", Position: 0, Reading: '1', Memory: "1", Transition: domain.NewMove(domain.Right)},
		{State: "q0", Position: 1, Reading: ' ', Memory: "1 ", Transition: domain.NewWriteTransition('1', domain.Right, "q1")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, trace, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATE")
	assert.Contains(t, lines[1], `"R"`)
	assert.Contains(t, lines[2], "1[ ]")
	assert.Contains(t, lines[2], `"write":"1"`)
}

func TestSummary(t *testing.T) {
	ok := Summary("unary", &domain.Outcome{Tape: "111", Succeeded: true, Steps: 3, Trace: make([]domain.TraceEntry, 4)})
	assert.Contains(t, ok, "# unary")
	assert.Contains(t, ok, "**Halted** after 3 steps")
	assert.Contains(t, ok, "`111`")

	failed := Summary("", &domain.Outcome{
		Tape:    "1x",
		Steps:   1,
		Failure: &domain.Failure{Kind: domain.FailureInvalidSymbol, Detail: "Invalid symbol: `x` @(p:1)"},
	})
	assert.Contains(t, failed, "# machine")
	assert.Contains(t, failed, "**Failed** after 1 steps")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
