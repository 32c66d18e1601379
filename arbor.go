package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/runtime"
	loamAdapter "github.com/aretw0/arbor/pkg/adapters/loam"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/loam"
)

// Result is the output of a generation: the final sequence and its tree.
type Result = runtime.Result

// Simulator animates a generated tree; see NewSimulator.
type Simulator = runtime.Simulator

// Engine is the high-level entry point for the arbor library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	loader      ports.GrammarLoader
	parser      *compiler.Parser
	cache       ports.SequenceCache
	random      ports.Random
	genHooks    domain.GenerateHooks
	growthHooks domain.GrowthHooks
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom GrammarLoader, bypassing the default Loam initialization.
func WithLoader(l ports.GrammarLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCache memoizes expanded sequences in the given cache.
func WithCache(c ports.SequenceCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithRandom sets the source of ranged turn angles.
// Without it a time-seeded source is used. An engine shared between
// goroutines needs r to be safe for concurrent use, as NewRandom is.
func WithRandom(r ports.Random) Option {
	return func(e *Engine) {
		e.random = r
	}
}

// WithSeed is a shorthand for WithRandom(NewRandom(seed)).
func WithSeed(seed int64) Option {
	return WithRandom(NewRandom(seed))
}

// WithGenerateHooks registers generation observability hooks.
func WithGenerateHooks(hooks domain.GenerateHooks) Option {
	return func(e *Engine) {
		e.genHooks = hooks
	}
}

// WithGrowthHooks registers hooks attached to every Simulator created by the engine.
func WithGrowthHooks(hooks domain.GrowthHooks) Option {
	return func(e *Engine) {
		e.growthHooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new arbor Engine.
// A non-empty repoPath is opened as a Loam repository of grammar documents.
// With an empty repoPath and no WithLoader option the built-in presets are served.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		parser: compiler.NewParser(),
	}

	// Apply Options first to check if a loader is provided
	for _, opt := range opts {
		opt(eng)
	}

	switch {
	case eng.loader != nil:
		if repoPath != "" {
			eng.Name = filepath.Base(repoPath)
		}
	case repoPath == "":
		eng.Name = "presets"
		eng.loader = memory.NewPresetLoader()
	default:
		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		// The engine never writes grammars, so Loam is opened read-only.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		eng.loader = loamAdapter.New(loam.NewTypedRepository[loamAdapter.GrammarMetadata](repo))
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("library", eng.Name)
	}
	if eng.random == nil {
		eng.random = NewRandom(timeSeed())
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithRandomSource(eng.random),
		runtime.WithGenerateHooks(eng.genHooks),
	}
	if eng.cache != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithCache(eng.cache))
	}
	eng.runtime = runtime.NewEngine(runtimeOpts...)

	return eng, nil
}

// Loader returns the grammar source of the engine.
func (e *Engine) Loader() ports.GrammarLoader {
	return e.loader
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Grammars lists the names of every available grammar.
func (e *Engine) Grammars() ([]string, error) {
	return e.loader.ListGrammars()
}

// Grammar loads and parses a grammar by name.
func (e *Engine) Grammar(name string) (*domain.Grammar, error) {
	raw, err := e.loader.GetGrammar(name)
	if err != nil {
		return nil, err
	}
	g, err := e.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compile grammar %q: %w", name, err)
	}
	if g.Name == "" {
		g.Name = name
	}
	return g, nil
}

// Seeded returns a copy of the engine whose ranged turns replay from seed.
// Loader, cache, hooks and logger are shared with e.
func (e *Engine) Seeded(seed int64) *Engine {
	c := *e
	c.random = NewRandom(seed)
	c.runtime = e.runtime.Derive(c.random)
	return &c
}

// Generate expands g and builds its tree.
func (e *Engine) Generate(ctx context.Context, g *domain.Grammar) (*Result, error) {
	return e.runtime.Generate(ctx, g)
}

// GenerateByName loads the named grammar and generates it.
// A non-negative iterations overrides the grammar's own count.
func (e *Engine) GenerateByName(ctx context.Context, name string, iterations int) (*Result, error) {
	g, err := e.Grammar(name)
	if err != nil {
		return nil, err
	}
	if iterations >= 0 {
		g.Iterations = iterations
	}
	return e.Generate(ctx, g)
}

// Expand runs only the grammar engine for g.
func (e *Engine) Expand(ctx context.Context, g *domain.Grammar) (domain.Sequence, error) {
	seq, _, err := e.runtime.Expand(ctx, g)
	return seq, err
}

// SimulatorOption configures a Simulator created by the engine.
type SimulatorOption = runtime.SimulatorOption

// WithGrowthRate sets the growth speed in length units per second.
func WithGrowthRate(rate float32) SimulatorOption {
	return runtime.WithRate(rate)
}

// ResumeFrom restores the tick counter and elapsed time of a stored session.
func ResumeFrom(ticks int, elapsed time.Duration) SimulatorOption {
	return runtime.WithProgress(ticks, elapsed)
}

// NewSimulator creates a growth simulator over tree with the engine hooks and logger.
func (e *Engine) NewSimulator(tree *domain.Tree, opts ...SimulatorOption) *Simulator {
	base := []runtime.SimulatorOption{
		runtime.WithGrowthHooks(e.growthHooks),
		runtime.WithSimulatorLogger(e.logger),
	}
	return runtime.NewSimulator(tree, append(base, opts...)...)
}

// RecalcPos re-derives branch lengths and positions from an externally driven length.
func RecalcPos(tree *domain.Tree, length float32) {
	runtime.RecalcPos(tree, length)
}
