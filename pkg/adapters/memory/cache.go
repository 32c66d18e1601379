package memory

import (
	"context"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Cache implements ports.SequenceCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]domain.Sequence
	mu   sync.RWMutex
}

// NewCache creates a new in-memory sequence cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]domain.Sequence),
	}
}

// Get returns a copy of the cached sequence.
func (c *Cache) Get(ctx context.Context, key string) (domain.Sequence, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seq, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	return append(domain.Sequence{}, seq...), true, nil
}

// Put stores a copy of seq under key.
func (c *Cache) Put(ctx context.Context, key string, seq domain.Sequence) error {
	copied := append(domain.Sequence{}, seq...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = copied
	return nil
}

// Len returns the number of cached sequences.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
