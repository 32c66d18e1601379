package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

const barWidth = 30

// TextHandler prints a progress line per tick.
// In interactive mode the line is redrawn in place with a carriage return.
type TextHandler struct {
	Writer      io.Writer
	Interactive bool
	Every       int
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithInteractive redraws a single line instead of printing one per tick.
func WithInteractive(interactive bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.Interactive = interactive
	}
}

// WithEvery prints only every n-th tick (the final state is always printed).
func WithEvery(n int) TextHandlerOption {
	return func(h *TextHandler) {
		if n > 0 {
			h.Every = n
		}
	}
}

// NewTextHandler creates a handler for plain text output.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w, Every: 1}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Tick(ctx context.Context, ev domain.TickEvent, tree *domain.Tree) error {
	if ev.Tick%h.Every != 0 && ev.Mature < tree.Len() {
		return nil
	}
	line := fmt.Sprintf("tick %5d  %s %3.0f%%  growing %d  mature %d/%d",
		ev.Tick, ProgressBar(ev.Progress, barWidth), ev.Progress*100, ev.Growing, ev.Mature, tree.Len())
	if h.Interactive {
		_, err := fmt.Fprintf(h.Writer, "\r%s", line)
		return err
	}
	_, err := fmt.Fprintln(h.Writer, line)
	return err
}

func (h *TextHandler) Done(ctx context.Context, s Summary) error {
	if h.Interactive {
		fmt.Fprintln(h.Writer)
	}
	state := "complete"
	if !s.Complete {
		state = "stopped"
	}
	_, err := fmt.Fprintf(h.Writer, "%s after %d ticks (%s simulated): %d branches, depth %d, %d leaves\n",
		state, s.Ticks, s.Elapsed, s.Stats.Branches, s.Stats.MaxDepth, s.Stats.Leaves)
	return err
}

// ProgressBar renders a fraction in [0, 1] as a fixed-width bar.
func ProgressBar(fraction float32, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float32(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
