package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// SequenceCache memoizes the output of the grammar engine.
// Keys are opaque fingerprints computed by the engine.
type SequenceCache interface {
	// Get returns the cached sequence and true, or false on a miss.
	Get(ctx context.Context, key string) (domain.Sequence, bool, error)

	// Put stores a sequence under key.
	Put(ctx context.Context, key string, seq domain.Sequence) error
}
