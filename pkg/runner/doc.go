/*
Package runner implements the fixed-timestep growth loop of the arbor simulator.

It acts as the scheduler the simulator itself does not have: it calls Grow once
per tick with a constant time step, paces ticks against the wall clock when
asked to, and hands every tick to a pluggable Handler.

# Key Components

  - Runner: The loop. It stops when the tree is fully grown, when the tick
    budget is spent or when the context is cancelled.
  - Handler: Decouples how progress is reported (CLI, JSON, etc.).
  - TextHandler: A progress line for terminals and logs.
  - JSONHandler: One JSON object per tick (NDJSON), carrying the length diff.

# Usage

	r := runner.NewRunner(
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
		runner.WithStep(time.Second/30),
		runner.WithRealtime(true),
	)

	summary, err := r.Run(ctx, engine.NewSimulator(res.Tree))
	if err != nil {
		log.Fatal(err)
	}
*/
package runner
