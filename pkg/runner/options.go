package runner

import (
	"log/slog"
	"time"
)

// DefaultStep is the simulated time advanced per tick (60 ticks per second).
const DefaultStep = time.Second / 60

// DefaultMaxTicks bounds a run whose tree never completes.
const DefaultMaxTicks = 100_000

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures how ticks are reported.
func WithHandler(handler Handler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithStep sets the simulated time of one tick.
func WithStep(step time.Duration) Option {
	return func(r *Runner) {
		if step > 0 {
			r.Step = step
		}
	}
}

// WithSpeed scales wall-clock pacing: 2 runs twice as fast as real time.
// It only matters with WithRealtime.
func WithSpeed(speed float64) Option {
	return func(r *Runner) {
		if speed > 0 {
			r.Speed = speed
		}
	}
}

// WithRealtime paces ticks against the wall clock instead of running flat out.
func WithRealtime(realtime bool) Option {
	return func(r *Runner) {
		r.Realtime = realtime
	}
}

// WithMaxTicks stops the run after n ticks even if the tree is not complete.
func WithMaxTicks(n int) Option {
	return func(r *Runner) {
		r.MaxTicks = n
	}
}
