package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/arbor"
)

// Runner drives a Simulator with a fixed time step.
type Runner struct {
	// Handler receives every tick. If nil, ticks are discarded.
	Handler Handler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Step     time.Duration
	Speed    float64
	Realtime bool
	MaxTicks int
}

// NewRunner creates a Runner that runs flat out at DefaultStep.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Handler:  NopHandler{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Step:     DefaultStep,
		Speed:    1,
		MaxTicks: DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run ticks sim until its tree is fully grown, MaxTicks is reached or ctx is done.
// Cancellation is not an error: the summary reports how far growth got.
func (r *Runner) Run(ctx context.Context, sim *arbor.Simulator) (*Summary, error) {
	// 1. Setup Phase
	start := time.Now()
	handler := r.Handler
	if handler == nil {
		handler = NopHandler{}
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var pace <-chan time.Time
	if r.Realtime {
		ticker := time.NewTicker(r.interval())
		defer ticker.Stop()
		pace = ticker.C
	}

	tree := sim.Tree()
	ticks := 0

	// 2. Execution Loop
loop:
	for !sim.Complete() && (r.MaxTicks <= 0 || ticks < r.MaxTicks) {
		if pace != nil {
			select {
			case <-ctx.Done():
				break loop
			case <-pace:
			}
		} else if ctx.Err() != nil {
			break loop
		}

		ev := sim.Grow(ctx, r.Step)
		ticks++
		if err := handler.Tick(ctx, ev, tree); err != nil {
			return nil, fmt.Errorf("tick handler failed: %w", err)
		}
	}

	// 3. Report
	summary := Summary{
		Ticks:    sim.Ticks(),
		Elapsed:  sim.Elapsed(),
		Wall:     time.Since(start),
		Complete: sim.Complete(),
		Stats:    tree.Stats(),
	}
	logger.Debug("growth run finished",
		"ticks", summary.Ticks,
		"elapsed", summary.Elapsed,
		"complete", summary.Complete,
		"cancelled", ctx.Err() != nil,
	)
	if err := handler.Done(ctx, summary); err != nil {
		return nil, fmt.Errorf("done handler failed: %w", err)
	}
	return &summary, nil
}

// interval is the wall-clock time between paced ticks.
// Very large speeds round to zero, which time.NewTicker rejects.
func (r *Runner) interval() time.Duration {
	speed := r.Speed
	if speed <= 0 {
		speed = 1
	}
	interval := time.Duration(float64(r.Step) / speed)
	if interval < time.Nanosecond {
		interval = time.Nanosecond
	}
	return interval
}
