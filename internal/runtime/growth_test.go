package runtime_test

import (
	"context"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 200 * time.Millisecond

func plantTree(t *testing.T) *domain.Tree {
	t.Helper()
	tree, err := runtime.NewBuilder(fixed(25)).Build(domain.ParseSequence("F[+F]F[-F]F"))
	require.NoError(t, err)
	return tree
}

func lengths(tree *domain.Tree) []float32 {
	out := make([]float32, tree.Len())
	for i, b := range tree.Branches {
		out[i] = b.Length
	}
	return out
}

func TestSimulator_Wavefront(t *testing.T) {
	tree := plantTree(t)
	sim := runtime.NewSimulator(tree)
	ctx := context.Background()

	// Tick 1: only the root grows, by 4 * 0.2.
	ev := sim.Grow(ctx, tick)
	assert.InDelta(t, 0.8, tree.Root.Length, 1e-5)
	assert.Equal(t, 1, ev.Growing)
	for _, b := range tree.Branches[1:] {
		assert.Zero(t, b.Length)
	}

	// Tick 2: the root clamps at its maximum, children still wait.
	sim.Grow(ctx, tick)
	assert.Equal(t, float32(1), tree.Root.Length)
	for _, b := range tree.Branches[1:] {
		assert.Zero(t, b.Length)
	}

	// Tick 3: the first child starts.
	sim.Grow(ctx, tick)
	assert.InDelta(t, 0.8, tree.Branches[1].Length, 1e-5)
	assert.Zero(t, tree.Branches[2].Length)
}

func TestSimulator_SiblingsGrowTogether(t *testing.T) {
	tree := plantTree(t)
	sim := runtime.NewSimulator(tree, runtime.WithRate(10))
	ctx := context.Background()

	sim.Grow(ctx, tick) // root
	sim.Grow(ctx, tick) // branch 1
	ev := sim.Grow(ctx, 50*time.Millisecond)

	// Both children of branch 1 grow in the same tick.
	assert.Equal(t, 2, ev.Growing)
	assert.InDelta(t, 0.5, tree.Branches[2].Length, 1e-5)
	assert.InDelta(t, 0.5, tree.Branches[3].Length, 1e-5)
	assert.Zero(t, tree.Branches[4].Length)
}

func TestSimulator_NeverGrowsPastAncestors(t *testing.T) {
	tree := plantTree(t)
	sim := runtime.NewSimulator(tree)

	for i := 0; i < 50 && !sim.Complete(); i++ {
		sim.Grow(context.Background(), 30*time.Millisecond)
		for _, b := range tree.Branches {
			assert.LessOrEqual(t, b.Length, b.MaxLength)
			if b.Length > 0 {
				for p := tree.Parent(b); p != nil; p = tree.Parent(p) {
					assert.True(t, p.Mature(), "branch %d grew before ancestor %d", b.ID, p.ID)
				}
			}
		}
	}
	assert.True(t, sim.Complete())
	assert.True(t, tree.Complete())
	assert.Equal(t, float32(1), tree.Progress())
}

func TestSimulator_IdempotentWhenComplete(t *testing.T) {
	tree := plantTree(t)
	sim := runtime.NewSimulator(tree)
	ctx := context.Background()

	for !sim.Complete() {
		sim.Grow(ctx, time.Second)
	}
	before := lengths(tree)

	ev := sim.Grow(ctx, time.Second)
	assert.Equal(t, before, lengths(tree))
	assert.Zero(t, ev.Growing)
	assert.Equal(t, tree.Len(), ev.Mature)
}

func TestSimulator_ZeroAndNegativeDelta(t *testing.T) {
	tree := plantTree(t)
	sim := runtime.NewSimulator(tree)

	sim.Grow(context.Background(), 0)
	sim.Grow(context.Background(), -time.Second)

	assert.Equal(t, make([]float32, tree.Len()), lengths(tree))
	assert.Equal(t, 2, sim.Ticks())
	assert.Zero(t, sim.Elapsed())
}

func TestSimulator_Hooks(t *testing.T) {
	tree := plantTree(t)

	var (
		ticks     int
		matured   []int
		completes int
	)
	hooks := domain.GrowthHooks{
		OnTick: func(_ context.Context, ev *domain.TickEvent) {
			ticks++
			assert.Equal(t, domain.EventTick, ev.Type)
		},
		OnBranchMature: func(_ context.Context, ev *domain.BranchEvent) {
			matured = append(matured, ev.BranchID)
		},
		OnComplete: func(_ context.Context, ev *domain.TickEvent) {
			completes++
			assert.Equal(t, domain.EventGrowthComplete, ev.Type)
		},
	}

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sim := runtime.NewSimulator(tree,
		runtime.WithGrowthHooks(hooks),
		runtime.WithClock(func() time.Time { return stamp }),
	)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		ev := sim.Grow(ctx, time.Second)
		assert.Equal(t, stamp, ev.Timestamp)
	}

	assert.Equal(t, 10, ticks)
	assert.Equal(t, 1, completes)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5}, matured)
	assert.Equal(t, 0, matured[0])
}

func TestRecalcPos(t *testing.T) {
	tree := plantTree(t)
	runtime.RecalcPos(tree, 2)

	for _, b := range tree.Branches {
		want := 2 * math32.Pow(domain.DefaultLengthDecay, float32(b.Depth))
		assert.InDelta(t, want, b.Length, 1e-5, "branch %d", b.ID)

		parent := tree.Parent(b)
		if parent == nil {
			continue
		}
		expected := parent.Position.Add(parent.Direction.MulScalar(b.Length))
		assertVec(t, expected, b.Position)
	}

	// The root keeps its position.
	assertVec(t, math32.Vec3(0, 0, 0), tree.Root.Position)
}

func TestRecalcPos_NilTree(t *testing.T) {
	assert.NotPanics(t, func() {
		runtime.RecalcPos(nil, 1)
		runtime.RecalcPos(&domain.Tree{}, 1)
	})
}
