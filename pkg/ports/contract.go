package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSession := func(id string) *domain.Session {
		return &domain.Session{
			ID:      id,
			Grammar: "plant",
			Tree:    domain.NewTree(&domain.Branch{MaxLength: 1}),
			Created: time.Now(),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Create a session
		session := newSession(sessionID)
		session.Ticks = 3

		// 2. Save
		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		// 3. Load
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.Grammar, loaded.Grammar)
		assert.Equal(t, 3, loaded.Ticks)
		require.NotNil(t, loaded.Tree)
		assert.Equal(t, 1, loaded.Tree.Len())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newSession(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, newSession(id1))
		_ = store.Save(ctx, newSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunSequenceCacheContract verifies that a SequenceCache implementation
// returns exactly what was stored and reports misses without error.
func RunSequenceCacheContract(t *testing.T, cache SequenceCache) {
	ctx := context.Background()
	key := "contract-test-key-" + time.Now().Format("20060102150405")

	t.Run("Miss", func(t *testing.T) {
		seq, ok, err := cache.Get(ctx, "missing-"+key)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, seq)
	})

	t.Run("Put and Get", func(t *testing.T) {
		want := domain.ParseSequence("F[+F]F[-F]F")
		require.NoError(t, cache.Put(ctx, key, want))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want.String(), got.String())
	})

	t.Run("Empty Sequence", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key+"-empty", domain.Sequence{}))

		got, ok, err := cache.Get(ctx, key+"-empty")
		require.NoError(t, err)
		assert.True(t, ok, "an empty expansion is still a hit")
		assert.Empty(t, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, domain.ParseSequence("X")))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "X", got.String())
	})
}
