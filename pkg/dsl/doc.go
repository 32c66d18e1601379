/*
Package dsl provides a Go DSL for programmatically constructing arbor grammars.

It allows developers to define grammar libraries using a type-safe, fluent
builder instead of relying on external YAML or Markdown files. This is
particularly useful for procedural grammar families, unit testing, and
leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/arbor"
		"github.com/aretw0/arbor/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Add("fern").
			Describe("Leaning fern").
			Axiom("X").
			Rule("X -> F[+X]F[-X]+X").
			Rule("F -> FF").
			Iterations(5).
			Fixed(20)

		// The resulting loader can be passed to arbor.New
		loader, err := b.Build()
		if err != nil {
			panic(err)
		}
		eng, _ := arbor.New("", arbor.WithLoader(loader))
		_ = eng
	}
*/
package dsl
