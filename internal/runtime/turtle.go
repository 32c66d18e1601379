package runtime

import (
	"fmt"
	"io"
	"log/slog"

	"cogentcore.org/core/math32"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

var (
	forwardAxis = math32.Vec3(0, 1, 0)
	rollAxis    = math32.Vec3(0, 0, 1)
	yawAxis     = math32.Vec3(0, 1, 0)
)

// Builder interprets a finished sequence with a turtle and builds the branch tree.
type Builder struct {
	config domain.TurtleConfig
	random ports.Random
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRandom sets the source used for ranged turn angles.
func WithRandom(r ports.Random) BuilderOption {
	return func(b *Builder) {
		b.random = r
	}
}

// WithBuilderLogger sets the structured logger of the builder.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder for the given turtle configuration.
// Zero fields of cfg take their defaults.
func NewBuilder(cfg domain.TurtleConfig, opts ...BuilderOption) *Builder {
	b := &Builder{
		config: cfg.WithDefaults(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build walks seq once, left to right, and returns the resulting tree.
//
// The root sits at the origin pointing along +Y; the turtle starts at the
// root's tip. '[' saves the turtle and ']' restores it, so every bracketed
// region hangs off the branch that was current when the bracket opened.
// A ']' with nothing to restore aborts the build with a *domain.BracketError.
func (b *Builder) Build(seq domain.Sequence) (*domain.Tree, error) {
	cfg := b.config
	switch cfg.Mode {
	case domain.TurnFixed:
	case domain.TurnRanged:
		if b.random == nil {
			return nil, fmt.Errorf("%w: ranged turn mode requires a random source", domain.ErrInvalidGrammar)
		}
	default:
		return nil, fmt.Errorf("%w: unknown turn mode %q", domain.ErrInvalidGrammar, cfg.Mode)
	}

	root := &domain.Branch{
		MaxLength: cfg.MaxLength,
		Direction: forwardAxis,
	}
	tree := domain.NewTree(root)

	var orientation math32.Quat
	orientation.SetIdentity()

	turtle := domain.TurtleState{
		Position:    root.Position.Add(root.Direction.MulScalar(cfg.Step)),
		Orientation: orientation,
		Current:     root.ID,
	}
	var stack []domain.TurtleState

	for i, sym := range seq {
		switch sym {
		case domain.SymForward:
			heading := forwardAxis.MulQuat(turtle.Orientation)
			next := &domain.Branch{
				MaxLength: cfg.MaxLength,
				Position:  turtle.Position,
				Direction: heading,
			}
			tree.Attach(tree.Branches[turtle.Current], next)
			turtle.Current = next.ID
			turtle.Position = turtle.Position.Add(heading.MulScalar(cfg.Step))
		case domain.SymTurnLeft:
			b.turn(&turtle, rollAxis, b.angle(1))
		case domain.SymTurnRight:
			b.turn(&turtle, rollAxis, -b.angle(1))
		case domain.SymYawLeft:
			b.turn(&turtle, yawAxis, b.angle(cfg.YawMultiplier))
		case domain.SymYawRight:
			b.turn(&turtle, yawAxis, -b.angle(cfg.YawMultiplier))
		case domain.SymPush:
			stack = append(stack, turtle)
		case domain.SymPop:
			if len(stack) == 0 {
				return nil, &domain.BracketError{Offset: i}
			}
			turtle = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		b.logger.Debug("sequence ended with unclosed brackets", "open", len(stack))
	}
	b.logger.Debug("tree built",
		"symbols", len(seq),
		"branches", tree.Len(),
		"max_depth", tree.MaxDepth(),
	)

	return tree, nil
}

// angle returns a turn magnitude in degrees, scaled by k.
func (b *Builder) angle(k float32) float32 {
	cfg := b.config
	if cfg.Mode == domain.TurnFixed {
		return cfg.Angle * k
	}
	lo, hi := cfg.MinAngle*k, cfg.MaxAngle*k
	return lo + b.random.Float32()*(hi-lo)
}

// turn composes the turtle orientation with a local rotation about axis.
func (b *Builder) turn(t *domain.TurtleState, axis math32.Vector3, degrees float32) {
	rot := math32.NewQuatAxisAngle(axis, math32.DegToRad(degrees))
	t.Orientation = t.Orientation.Mul(rot)
}
