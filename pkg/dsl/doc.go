/*
Package dsl provides a Go DSL for programmatically constructing Turing machines.

It allows developers to define transition tables with a type-safe, fluent builder
instead of YAML or JSON files. This is particularly useful for generated machines
and unit tests.

Example usage:

	b := dsl.New("binary-increment").Start("right").Final("done")

	b.State("right").
		On('0').Right().
		On('1').Right().
		On(' ').Left().Go("carry")

	b.State("carry").
		On('1').Write('0').Left().Stay().
		On('0').Write('1').Left().Go("done").
		On(' ').Write('1').Left().Go("done")

	machine, err := b.Build()
*/
package dsl
