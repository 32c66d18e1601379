package arbor

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
)

// NewRandom returns a deterministic random source for ranged turn angles.
// Two sources built from the same seed produce identical trees.
// The source is safe for concurrent use, so one engine can serve parallel
// requests.
func NewRandom(seed int64) ports.Random {
	return &lockedRandom{
		r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// lockedRandom serializes access to a *rand.Rand, which is not goroutine safe.
type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRandom) Float32() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float32()
}

func timeSeed() int64 {
	return time.Now().UnixNano()
}
