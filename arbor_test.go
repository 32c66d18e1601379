package arbor_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Presets(t *testing.T) {
	engine, err := arbor.New("", arbor.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, "presets", engine.Name)

	names, err := engine.Grammars()
	require.NoError(t, err)

	for _, name := range names {
		res, err := engine.GenerateByName(context.Background(), name, -1)
		require.NoError(t, err, name)
		assert.Equal(t, res.Sequence.Count(domain.SymForward)+1, res.Tree.Len(), name)
	}
}

func TestEngine_GenerateByName_Overrides(t *testing.T) {
	engine, err := arbor.New("", arbor.WithSeed(1))
	require.NoError(t, err)

	res, err := engine.GenerateByName(context.Background(), "plant", 0)
	require.NoError(t, err)
	assert.Equal(t, "F", res.Sequence.String())
	assert.Equal(t, 2, res.Tree.Len())
}

func TestEngine_GrammarNotFound(t *testing.T) {
	engine, err := arbor.New("")
	require.NoError(t, err)

	_, err = engine.GenerateByName(context.Background(), "missing", -1)
	assert.True(t, errors.Is(err, domain.ErrGrammarNotFound))
}

func TestEngine_SeedIsReproducible(t *testing.T) {
	generate := func() *domain.Tree {
		engine, err := arbor.New("", arbor.WithSeed(42))
		require.NoError(t, err)
		res, err := engine.GenerateByName(context.Background(), "plant", 2)
		require.NoError(t, err)
		return res.Tree
	}

	a, b := generate(), generate()
	require.Equal(t, a.Len(), b.Len())
	for i := range a.Branches {
		assert.Equal(t, a.Branches[i].Direction, b.Branches[i].Direction)
		assert.Equal(t, a.Branches[i].Position, b.Branches[i].Position)
	}
}

func TestEngine_Cache(t *testing.T) {
	cache := memory.NewCache()
	engine, err := arbor.New("", arbor.WithCache(cache))
	require.NoError(t, err)

	ctx := context.Background()
	first, err := engine.GenerateByName(ctx, "bush", -1)
	require.NoError(t, err)
	second, err := engine.GenerateByName(ctx, "bush", -1)
	require.NoError(t, err)

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, cache.Len())
}

func TestEngine_Hooks(t *testing.T) {
	var generated, completed int
	engine, err := arbor.New("",
		arbor.WithSeed(3),
		arbor.WithGenerateHooks(domain.GenerateHooks{
			OnGenerate: func(context.Context, *domain.GenerateEvent) { generated++ },
		}),
		arbor.WithGrowthHooks(domain.GrowthHooks{
			OnComplete: func(context.Context, *domain.TickEvent) { completed++ },
		}),
	)
	require.NoError(t, err)

	res, err := engine.GenerateByName(context.Background(), "plant", 1)
	require.NoError(t, err)

	sim := engine.NewSimulator(res.Tree, arbor.WithGrowthRate(100))
	for i := 0; i < 10; i++ {
		sim.Grow(context.Background(), 1e9)
	}

	assert.Equal(t, 1, generated)
	assert.Equal(t, 1, completed)
}

func TestEngine_LoamRepository(t *testing.T) {
	dir := testutils.SetupGrammarDir(t, map[string]string{
		"twig.md": testutils.GrammarDoc(t, map[string]any{
			"axiom":      "F",
			"rules":      []string{"F -> F[+F]F"},
			"iterations": 2,
			"turtle":     map[string]any{"mode": "fixed", "angle": 30},
		}, "A small twig."),
	})

	engine, err := arbor.New(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), engine.Name)

	g, err := engine.Grammar("twig")
	require.NoError(t, err)
	assert.Equal(t, "twig", g.Name)
	assert.Equal(t, "A small twig.", g.Description)

	res, err := engine.Generate(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Sequence.Count(domain.SymForward))
}

func TestRecalcPos(t *testing.T) {
	engine, err := arbor.New("", arbor.WithSeed(5))
	require.NoError(t, err)
	res, err := engine.GenerateByName(context.Background(), "plant", 1)
	require.NoError(t, err)

	arbor.RecalcPos(res.Tree, 1)
	assert.Equal(t, float32(1), res.Tree.Root.Length)
	assert.InDelta(t, 0.95, res.Tree.Branches[1].Length, 1e-6)
}

func TestEngine_Seeded(t *testing.T) {
	engine, err := arbor.New("")
	require.NoError(t, err)

	a, err := engine.Seeded(9).GenerateByName(context.Background(), "plant", 2)
	require.NoError(t, err)
	b, err := engine.Seeded(9).GenerateByName(context.Background(), "plant", 2)
	require.NoError(t, err)

	for i := range a.Tree.Branches {
		assert.Equal(t, a.Tree.Branches[i].Direction, b.Tree.Branches[i].Direction)
	}
}

func TestEngine_ConcurrentGenerate(t *testing.T) {
	// No seed: every goroutine samples the engine's shared default source.
	engine, err := arbor.New("")
	require.NoError(t, err)

	const workers = 16
	results := make([]*arbor.Result, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.GenerateByName(context.Background(), "tree3d", -1)
		}(i)
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[i].Sequence.Count(domain.SymForward)+1, results[i].Tree.Len())
	}
}

func TestNewRandom_Range(t *testing.T) {
	a, b := arbor.NewRandom(11), arbor.NewRandom(11)
	for range 100 {
		v := a.Float32()
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
		assert.Equal(t, v, b.Float32())
	}
}
