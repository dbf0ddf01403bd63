package turing_test

import (
	"context"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

func ExampleExecute() {
	// Unary increment: skip the ones, then write one more on the first blank.
	machine := &domain.Machine{
		StartState:  "q0",
		FinalStates: domain.NewStateSet("q1"),
		Table: domain.Table{
			"q0": {
				'1': domain.NewMove(domain.Right),
				' ': domain.NewWriteTransition('1', domain.Right, "q1"),
			},
		},
	}

	out, err := turing.Execute(context.Background(), machine, "11")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(out.Output(), out.Succeeded, len(out.Trace))
	// Output: 111 true 4
}

func ExampleExecute_invalidSymbol() {
	machine := &domain.Machine{
		StartState: "q0",
		Table: domain.Table{
			"q0": {'0': domain.NewMove(domain.Right), '1': domain.NewMove(domain.Right)},
		},
	}

	out, _ := turing.Execute(context.Background(), machine, "101")
	fmt.Println(out.Output())
	fmt.Println(out.Succeeded)
	// Output:
	// Invalid symbol: ` ` @(p:3)
	// false
}

func ExampleEngine_Run_dsl() {
	b := dsl.New("binary-increment").Start("right").Final("done")
	b.State("right").
		On('0').Right().
		On('1').Right().
		On(' ').Left().Go("carry")
	b.State("carry").
		On('1').Write('0').Left().Stay().
		On('0').Write('1').Left().Go("done").
		On(' ').Write('1').Left().Go("done")

	eng := turing.New(turing.WithStore(memory.NewStore()))
	record, err := eng.Run(context.Background(), b.MustBuild(), "111")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(record.Machine, record.Outcome.Output())
	// Output: binary-increment 1000
}
