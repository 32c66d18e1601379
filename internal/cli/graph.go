package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/runner"
)

// GraphOptions configures RunGraph.
type GraphOptions struct {
	Options
	Grammar     string
	Iterations  int
	MaxBranches int
	// Ticks grows the tree for this many default steps before export and styles it by growth.
	Ticks int
}

// RunGraph prints the Mermaid chart of a generated tree.
func RunGraph(ctx context.Context, opts GraphOptions) error {
	engine, closeEngine, err := NewEngine(opts.Options)
	if err != nil {
		return err
	}
	defer closeEngine()

	g, err := loadGrammar(engine, opts.Grammar, opts.Iterations)
	if err != nil {
		return err
	}
	res, err := engine.Generate(ctx, g)
	if err != nil {
		return err
	}

	if opts.Ticks > 0 {
		sim := engine.NewSimulator(res.Tree)
		for i := 0; i < opts.Ticks && !sim.Complete(); i++ {
			sim.Grow(ctx, runner.DefaultStep)
		}
	}

	_, err = fmt.Fprint(opts.out(), graph.GenerateMermaid(res.Tree, graph.Options{
		MaxBranches: opts.MaxBranches,
		Growth:      opts.Ticks > 0,
	}))
	return err
}
