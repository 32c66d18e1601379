package cli

import (
	"context"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/runner"
)

// GrowOptions configures RunGrow.
type GrowOptions struct {
	Options
	Grammar    string
	Iterations int
	Rate       float32
	Step       time.Duration
	Speed      float64
	Realtime   bool
	MaxTicks   int
	Every      int
	JSON       bool
}

// RunGrow generates a tree and animates its growth until it completes or is interrupted.
func RunGrow(ctx context.Context, opts GrowOptions) error {
	w := opts.out()
	interactive := isTerminal(w)
	if interactive && !opts.JSON {
		tui.PrintBanner(w)
	}

	engine, closeEngine, err := NewEngine(opts.Options)
	if err != nil {
		return err
	}
	defer closeEngine()

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	g, err := loadGrammar(engine, opts.Grammar, opts.Iterations)
	if err != nil {
		return err
	}
	res, err := engine.Generate(sigCtx, g)
	if err != nil {
		return handleExecutionError(err)
	}

	var handler runner.Handler
	if opts.JSON {
		handler = runner.NewJSONHandler(w)
	} else {
		printSystemMessage(w, "Growing '%s': %d branches, depth %d.", res.Grammar, res.Tree.Len(), res.Tree.MaxDepth())
		handler = runner.NewTextHandler(w,
			runner.WithInteractive(interactive),
			runner.WithEvery(opts.Every),
		)
	}

	runnerOpts := []runner.Option{
		runner.WithHandler(handler),
		runner.WithLogger(engine.Logger()),
		runner.WithStep(opts.Step),
		runner.WithSpeed(opts.Speed),
		runner.WithRealtime(opts.Realtime),
	}
	if opts.MaxTicks > 0 {
		runnerOpts = append(runnerOpts, runner.WithMaxTicks(opts.MaxTicks))
	}
	r := runner.NewRunner(runnerOpts...)
	sim := engine.NewSimulator(res.Tree, arbor.WithGrowthRate(opts.Rate))

	summary, err := r.Run(sigCtx, sim)
	if err != nil {
		return handleExecutionError(err)
	}
	if !summary.Complete && sigCtx.Signal() != nil && !opts.JSON {
		printSystemMessage(w, "Interrupted after %d ticks.", summary.Ticks)
	}
	return nil
}
