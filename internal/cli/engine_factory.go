package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
)

const redisDialTimeout = 3 * time.Second

// NewEngine initializes an arbor engine with standard CLI conventions.
// The returned func releases the resources the engine holds (e.g. the Redis client).
func NewEngine(opts Options, extra ...arbor.Option) (*arbor.Engine, func(), error) {
	logger := createLogger(opts)
	closer := func() {}

	// 1. Logger & Hooks
	var (
		genHooks    []domain.GenerateHooks
		growthHooks []domain.GrowthHooks
	)
	if opts.Debug {
		genHooks = append(genHooks, observability.LogGenerateHooks(logger))
		growthHooks = append(growthHooks, observability.LogGrowthHooks(logger))
	}
	if opts.Metrics != nil {
		genHooks = append(genHooks, opts.Metrics.GenerateHooks())
		growthHooks = append(growthHooks, opts.Metrics.GrowthHooks())
	}
	engineOpts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithGenerateHooks(observability.CombineGenerateHooks(genHooks...)),
		arbor.WithGrowthHooks(observability.CombineGrowthHooks(growthHooks...)),
	}

	// 2. Deterministic turns
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, arbor.WithSeed(opts.Seed))
	}

	// 3. Shared sequence cache
	if opts.RedisURL != "" {
		cache, err := connectCache(opts.RedisURL, logger)
		if err != nil {
			return nil, nil, err
		}
		engineOpts = append(engineOpts, arbor.WithCache(cache))
		closer = func() {
			if err := cache.Close(); err != nil {
				logger.Warn("failed to close redis cache", "err", err)
			}
		}
	}

	// 4. Initialize (caller options win)
	engine, err := arbor.New(opts.RepoPath, append(engineOpts, extra...)...)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closer, nil
}

func connectCache(addr string, logger *slog.Logger) (*redis.Cache, error) {
	cache := redis.New(addr)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	logger.Info("sequence cache enabled", "backend", "redis", "addr", addr)
	return cache, nil
}

// loadGrammar fetches name and applies an iterations override (negative keeps the default).
func loadGrammar(engine *arbor.Engine, name string, iterations int) (*domain.Grammar, error) {
	g, err := engine.Grammar(name)
	if err != nil {
		return nil, err
	}
	if iterations >= 0 {
		g.Iterations = iterations
	}
	return g, nil
}
