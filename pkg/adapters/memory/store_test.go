package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	session := &domain.Session{ID: "s1", Tree: domain.NewTree(&domain.Branch{MaxLength: 1})}
	require.NoError(t, store.Save(ctx, session))

	session.Tree.Root.Length = 1

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, loaded.Tree.Root.Length, "saved copy must not follow caller mutations")

	loaded.Tree.Root.Length = 0.5
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, again.Tree.Root.Length, "loaded copy must not leak into the store")
}

func TestMemoryCache_Contract(t *testing.T) {
	cache := memory.NewCache()
	ports.RunSequenceCacheContract(t, cache)
	assert.Positive(t, cache.Len())
}
