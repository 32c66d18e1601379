package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/cespare/xxhash/v2"
)

// Result is the output of a full generation: the expanded sequence and the tree built from it.
type Result struct {
	Grammar  string          `json:"grammar"`
	Sequence domain.Sequence `json:"sequence"`
	Tree     *domain.Tree    `json:"tree"`
	CacheHit bool            `json:"cache_hit"`
}

// Engine is the core generator: grammar expansion, optional memoization and
// turtle interpretation.
type Engine struct {
	cache  ports.SequenceCache
	random ports.Random
	hooks  domain.GenerateHooks
	logger *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithCache enables memoization of expanded sequences.
func WithCache(cache ports.SequenceCache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithRandomSource sets the random source handed to every Builder.
func WithRandomSource(r ports.Random) EngineOption {
	return func(e *Engine) {
		e.random = r
	}
}

// WithGenerateHooks registers generation observability hooks.
func WithGenerateHooks(hooks domain.GenerateHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger of the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive returns a copy of the engine that samples angles from r.
// Cache, hooks and logger are shared with the original.
func (e *Engine) Derive(r ports.Random) *Engine {
	c := *e
	c.random = r
	return &c
}

// Generate validates g, expands it and interprets the result.
// No partial tree is returned on error.
func (e *Engine) Generate(ctx context.Context, g *domain.Grammar) (*Result, error) {
	start := time.Now()

	// 1. Validate
	report := validator.ValidateGrammar(g)
	for _, w := range report.Warnings {
		e.logger.Warn("grammar warning", "grammar", g.Name, "warning", w)
	}
	if err := report.Err(); err != nil {
		return nil, err
	}

	// 2. Expand
	seq, hit, err := e.Expand(ctx, g)
	if err != nil {
		return nil, err
	}

	// 3. Interpret
	tree, err := e.Build(g, seq)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	e.logger.Info("grammar generated",
		"grammar", g.Name,
		"iterations", g.Iterations,
		"symbols", len(seq),
		"branches", tree.Len(),
		"cache_hit", hit,
		"duration", elapsed,
	)
	if e.hooks.OnGenerate != nil {
		e.hooks.OnGenerate(ctx, &domain.GenerateEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventGenerated},
			Grammar:     g.Name,
			SequenceLen: len(seq),
			Branches:    tree.Len(),
			CacheHit:    hit,
			Duration:    elapsed,
		})
	}

	return &Result{
		Grammar:  g.Name,
		Sequence: seq,
		Tree:     tree,
		CacheHit: hit,
	}, nil
}

// Expand runs the grammar engine for g.Iterations passes.
// When a cache is configured it is consulted first and filled on a miss;
// cache failures are logged and never fail the expansion.
func (e *Engine) Expand(ctx context.Context, g *domain.Grammar) (domain.Sequence, bool, error) {
	if g.Iterations < 0 {
		return nil, false, fmt.Errorf("%w: iterations must not be negative", domain.ErrInvalidGrammar)
	}

	key := Fingerprint(g)
	if e.cache != nil {
		seq, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			e.logger.Warn("sequence cache read failed", "key", key, "err", err)
		} else if ok {
			e.logger.Debug("sequence cache hit", "grammar", g.Name, "key", key)
			return seq, true, nil
		}
	}

	seq, err := ExpandContext(ctx, g.Axiom, g.Rules, g.Iterations)
	if err != nil {
		return nil, false, fmt.Errorf("expansion of %q interrupted: %w", g.Name, err)
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, seq); err != nil {
			e.logger.Warn("sequence cache write failed", "key", key, "err", err)
		}
	}
	return seq, false, nil
}

// Build interprets seq with the turtle configuration of g.
func (e *Engine) Build(g *domain.Grammar, seq domain.Sequence) (*domain.Tree, error) {
	opts := []BuilderOption{WithBuilderLogger(e.logger)}
	if e.random != nil {
		opts = append(opts, WithRandom(e.random))
	}

	tree, err := NewBuilder(g.Turtle, opts...).Build(seq)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree for %q: %w", g.Name, err)
	}
	return tree, nil
}

// Fingerprint derives a stable cache key from everything that affects expansion:
// axiom, ordered rules and iteration count. Turtle parameters are excluded.
func Fingerprint(g *domain.Grammar) string {
	d := xxhash.New()
	_, _ = d.WriteString(g.Axiom.String())
	_, _ = d.WriteString("\x00")
	for _, r := range g.Rules {
		_, _ = d.WriteString(r.Predecessor.String())
		_, _ = d.WriteString("\x01")
		_, _ = d.WriteString(r.Successor.String())
		_, _ = d.WriteString("\x00")
	}
	_, _ = d.WriteString(strconv.Itoa(g.Iterations))
	return strconv.FormatUint(d.Sum64(), 16)
}
