/*
Package arbor generates branching trees from L-system grammars and simulates their growth.

A grammar (an axiom plus an ordered list of rewriting rules) is expanded for a
number of generations into a flat sequence of symbols. A turtle then walks the
sequence once and builds an explicit tree of branches with 3D positions and
directions. Finally a simulator animates the branch lengths, one time step at a
time, so that a branch only grows once everything below it is fully grown.

# Symbols

	F  draw a branch and move forward
	+  turn left about the local Z axis
	-  turn right about the local Z axis
	<  yaw left about the local Y axis
	>  yaw right about the local Y axis
	[  save the turtle
	]  restore the last saved turtle

Every other symbol is only meaningful to the rewriting rules.

# Usage

Grammars come from a Loam repository of Markdown/YAML documents, from the
built-in presets, or from any ports.GrammarLoader.

	package main

	import (
		"context"
		"log"
		"time"

		"github.com/aretw0/arbor"
	)

	func main() {
		// Serve the built-in presets with a reproducible random source
		eng, err := arbor.New("", arbor.WithSeed(42))
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		res, err := eng.GenerateByName(ctx, "plant", -1)
		if err != nil {
			log.Fatal(err)
		}

		// Animate at 60 ticks per second until every branch is grown
		sim := eng.NewSimulator(res.Tree)
		for !sim.Complete() {
			sim.Grow(ctx, time.Second/60)
		}
		log.Printf("%d branches grown in %s", res.Tree.Len(), sim.Elapsed())
	}
*/
package arbor
