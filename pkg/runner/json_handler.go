package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/arbor/pkg/domain"
)

// JSONHandler emits one JSON object per line (NDJSON).
// Each tick carries only the branch lengths that changed since the previous one.
type JSONHandler struct {
	Encoder *json.Encoder
	last    []float32
}

// TickMessage is the JSON form of a tick.
type TickMessage struct {
	Type string             `json:"type"`
	Tick domain.TickEvent   `json:"event"`
	Diff *domain.GrowthDiff `json:"diff,omitempty"`
}

// DoneMessage is the JSON form of the final summary.
type DoneMessage struct {
	Type    string  `json:"type"`
	Summary Summary `json:"summary"`
}

// NewJSONHandler creates a handler for JSON-Lines output.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Tick(ctx context.Context, ev domain.TickEvent, tree *domain.Tree) error {
	diff := domain.Diff(h.last, tree)
	h.last = domain.Snapshot(tree)
	return h.Encoder.Encode(TickMessage{
		Type: string(ev.Type),
		Tick: ev,
		Diff: diff,
	})
}

func (h *JSONHandler) Done(ctx context.Context, s Summary) error {
	return h.Encoder.Encode(DoneMessage{
		Type:    "done",
		Summary: s,
	})
}
