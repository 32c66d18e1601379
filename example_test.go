package arbor_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
)

// ExampleNew_memory demonstrates how to use the Engine with an in-memory grammar definition.
// This is useful for testing, embedded scenarios, or when you don't want to rely on the file system.
func ExampleNew_memory() {
	// 1. Define your grammar using helper NewFromGrammars for clean, type-safe construction.
	loader, err := memory.NewFromGrammars(domain.Grammar{
		Name:       "weed",
		Axiom:      domain.ParseSequence("F"),
		Rules:      domain.RuleSet{domain.NewRule('F', "F[+F]F[-F]F")},
		Iterations: 1,
		Turtle:     domain.TurtleConfig{Mode: domain.TurnFixed, Angle: 25},
	})
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize arbor with the custom loader
	engine, err := arbor.New("", arbor.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Generate
	res, err := engine.GenerateByName(context.Background(), "weed", -1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Sequence: %s\n", res.Sequence)
	fmt.Printf("Branches: %d\n", res.Tree.Len())
	fmt.Printf("Depth: %d\n", res.Tree.MaxDepth())
	// Output:
	// Sequence: F[+F]F[-F]F
	// Branches: 6
	// Depth: 3
}

// ExampleEngine_NewSimulator grows a tree one level per tick.
func ExampleEngine_NewSimulator() {
	engine, err := arbor.New("", arbor.WithSeed(7))
	if err != nil {
		log.Fatal(err)
	}

	g := &domain.Grammar{
		Name:       "weed",
		Axiom:      domain.ParseSequence("F"),
		Rules:      domain.RuleSet{domain.NewRule('F', "F[+F]F[-F]F")},
		Iterations: 1,
	}
	res, err := engine.Generate(context.Background(), g)
	if err != nil {
		log.Fatal(err)
	}

	// At 4 units per second a quarter second grows a unit branch completely.
	sim := engine.NewSimulator(res.Tree)
	for !sim.Complete() {
		ev := sim.Grow(context.Background(), 250*time.Millisecond)
		fmt.Printf("tick %d: %d growing, %d/%d mature\n", ev.Tick, ev.Growing, ev.Mature, res.Tree.Len())
	}
	// Output:
	// tick 1: 1 growing, 1/6 mature
	// tick 2: 1 growing, 2/6 mature
	// tick 3: 2 growing, 4/6 mature
	// tick 4: 2 growing, 6/6 mature
}

// ExampleNew_presets lists the built-in grammars served when no repository is given.
func ExampleNew_presets() {
	engine, err := arbor.New("")
	if err != nil {
		log.Fatal(err)
	}

	names, err := engine.Grammars()
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range names {
		fmt.Println(name)
	}
	// Output:
	// algae
	// bush
	// plant
	// tree3d
}
