package runner

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
)

// Handler defines the strategy for reporting growth.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type Handler interface {
	// Tick presents the outcome of one growth step.
	Tick(ctx context.Context, ev domain.TickEvent, tree *domain.Tree) error

	// Done presents the final summary, whatever stopped the loop.
	Done(ctx context.Context, summary Summary) error
}

// Summary describes a finished run.
type Summary struct {
	Ticks    int           `json:"ticks"`
	Elapsed  time.Duration `json:"elapsed"`
	Wall     time.Duration `json:"wall"`
	Complete bool          `json:"complete"`
	Stats    domain.Stats  `json:"stats"`
}

// NopHandler discards everything.
type NopHandler struct{}

func (NopHandler) Tick(context.Context, domain.TickEvent, *domain.Tree) error { return nil }
func (NopHandler) Done(context.Context, Summary) error                        { return nil }
