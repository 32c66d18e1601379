package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
)

// Simulator animates the branch lengths of a tree, one time step per call to Grow.
//
// Growth is a wavefront: a branch only starts growing once it and every one of
// its ancestors reached full length. The topology is never changed.
type Simulator struct {
	tree   *domain.Tree
	rate   float32
	hooks  domain.GrowthHooks
	logger *slog.Logger
	now    func() time.Time

	ticks   int
	elapsed time.Duration
	mature  int
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithRate sets the growth speed in length units per second.
func WithRate(rate float32) SimulatorOption {
	return func(s *Simulator) {
		if rate > 0 {
			s.rate = rate
		}
	}
}

// WithGrowthHooks registers observability hooks.
func WithGrowthHooks(hooks domain.GrowthHooks) SimulatorOption {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithSimulatorLogger sets the structured logger of the simulator.
func WithSimulatorLogger(logger *slog.Logger) SimulatorOption {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the timestamp source of emitted events.
func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// WithProgress resumes the tick counter and elapsed time of a simulation
// restored from a stored session.
func WithProgress(ticks int, elapsed time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.ticks = ticks
		s.elapsed = elapsed
	}
}

// NewSimulator creates a simulator over tree.
func NewSimulator(tree *domain.Tree, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		tree:   tree,
		rate:   domain.DefaultGrowthRate,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, b := range tree.Branches {
		if b.Mature() {
			s.mature++
		}
	}
	return s
}

// Tree returns the simulated tree.
func (s *Simulator) Tree() *domain.Tree {
	return s.tree
}

// Ticks returns the number of steps taken so far.
func (s *Simulator) Ticks() int {
	return s.ticks
}

// Elapsed returns the simulated time accumulated so far.
func (s *Simulator) Elapsed() time.Duration {
	return s.elapsed
}

// Complete reports whether every branch reached its target length.
func (s *Simulator) Complete() bool {
	return s.mature >= s.tree.Len()
}

// Grow advances the simulation by dt.
//
// Walking depth-first from the root, a branch shorter than its target grows by
// rate*dt (clamped to MaxLength) and its subtree is left alone for this step;
// a fully grown branch passes the step on to its children. Once the tree is
// complete further calls leave every length unchanged.
func (s *Simulator) Grow(ctx context.Context, dt time.Duration) domain.TickEvent {
	if dt < 0 {
		dt = 0
	}
	wasComplete := s.Complete()
	step := s.rate * float32(dt.Seconds())

	var (
		growing int
		matured []*domain.Branch
	)

	if step > 0 && !wasComplete {
		stack := []*domain.Branch{s.tree.Root}
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if b.Length < b.MaxLength {
				growing++
				b.Length += step
				if b.Length >= b.MaxLength {
					b.Length = b.MaxLength
					matured = append(matured, b)
				}
				continue
			}

			for i := len(b.Children) - 1; i >= 0; i-- {
				stack = append(stack, b.Children[i])
			}
		}
	}

	s.ticks++
	s.elapsed += dt
	s.mature += len(matured)

	now := s.now()
	event := domain.TickEvent{
		EventBase: domain.EventBase{Timestamp: now, Type: domain.EventTick},
		Tick:      s.ticks,
		Delta:     dt,
		Elapsed:   s.elapsed,
		Growing:   growing,
		Mature:    s.mature,
		Progress:  s.tree.Progress(),
	}

	if s.hooks.OnBranchMature != nil {
		for _, b := range matured {
			s.hooks.OnBranchMature(ctx, &domain.BranchEvent{
				EventBase: domain.EventBase{Timestamp: now, Type: domain.EventBranchMature},
				BranchID:  b.ID,
				Depth:     b.Depth,
			})
		}
	}
	if s.hooks.OnTick != nil {
		s.hooks.OnTick(ctx, &event)
	}
	if !wasComplete && s.Complete() {
		s.logger.Debug("growth complete", "ticks", s.ticks, "elapsed", s.elapsed)
		if s.hooks.OnComplete != nil {
			done := event
			done.Type = domain.EventGrowthComplete
			s.hooks.OnComplete(ctx, &done)
		}
	}

	return event
}

// RecalcPos re-derives every branch position from an externally driven length.
//
// The root takes length; every level below takes the previous level's length
// multiplied by domain.DefaultLengthDecay. A non-root branch starts at
// parent.Position + parent.Direction * (its own propagated length).
func RecalcPos(tree *domain.Tree, length float32) {
	type frame struct {
		branch *domain.Branch
		length float32
	}

	if tree == nil || tree.Root == nil {
		return
	}

	stack := []frame{{branch: tree.Root, length: length}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		f.branch.Length = f.length
		if parent := tree.Parent(f.branch); parent != nil {
			f.branch.Position = parent.Position.Add(parent.Direction.MulScalar(f.length))
		}

		childLength := f.length * domain.DefaultLengthDecay
		for i := len(f.branch.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{branch: f.branch.Children[i], length: childLength})
		}
	}
}
