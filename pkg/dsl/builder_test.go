package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BinaryIncrement(t *testing.T) {
	b := dsl.New("binary-increment").Start("right").Final("done")

	b.State("right").
		On('0').Right().
		On('1').Right().
		On(' ').Left().Go("carry")

	b.State("carry").
		On('1').Write('0').Left().Stay().
		On('0').Write('1').Left().Go("done").
		On(' ').Write('1').Left().Go("done")

	m, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "binary-increment", m.Name)
	assert.Equal(t, domain.NewMove(domain.Right), m.Table["right"]['0'])
	assert.Equal(t, domain.NewTransition(domain.Left, "carry"), m.Table["right"][' '])
	assert.Equal(t, domain.NewWriteTransition('0', domain.Left, "carry"), m.Table["carry"]['1'])

	out, err := runtime.NewEngine().Execute(context.Background(), m, "1011")
	require.NoError(t, err)
	assert.Equal(t, "1100", out.Tape)
}

func TestBuilder_WriteWithoutGoStays(t *testing.T) {
	b := dsl.New("").Start("q0").Final("q1")
	b.State("q0").
		On('a').Write('b').Right().
		On(' ').Left().Go("q1")

	m, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.NewWriteTransition('b', domain.Right, "q0"), m.Table["q0"]['a'])
}

func TestBuilder_StateSwitchingAndBlank(t *testing.T) {
	b := dsl.New("marker").Start("q0").Final("done").Blank('_')

	b.State("q0").
		On('x').Right().Go("q1").
		State("q1").
		On('_').Write('!').Left().Go("done")

	m, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.Symbol('_'), m.BlankSymbol())

	out, err := runtime.NewEngine().Execute(context.Background(), m, "x")
	require.NoError(t, err)
	assert.True(t, out.Succeeded)
	assert.Equal(t, "x!", out.Tape)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *dsl.Builder
	}{
		{
			name: "Missing Start",
			build: func() *dsl.Builder {
				b := dsl.New("m")
				b.State("q0").On('a').Right()
				return b
			},
		},
		{
			name: "Missing Direction",
			build: func() *dsl.Builder {
				b := dsl.New("m").Start("q0")
				b.State("q0").On('a').Write('b')
				return b
			},
		},
		{
			name: "Step Before On",
			build: func() *dsl.Builder {
				b := dsl.New("m").Start("q0")
				b.State("q0").Right()
				return b
			},
		},
		{
			name: "Duplicate Rule",
			build: func() *dsl.Builder {
				b := dsl.New("m").Start("q0")
				b.State("q0").On('a').Right().On('a').Left()
				return b
			},
		},
		{
			name: "Undefined Target",
			build: func() *dsl.Builder {
				b := dsl.New("m").Start("q0").Final("done")
				b.State("q0").On('a').Right().Go("ghost")
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			assert.ErrorIs(t, err, domain.ErrMalformedMachine)
		})
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		dsl.New("broken").MustBuild()
	})
}
