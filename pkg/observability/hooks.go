package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// LogGenerateHooks logs every generation at info level.
func LogGenerateHooks(logger *slog.Logger) domain.GenerateHooks {
	return domain.GenerateHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			logger.InfoContext(ctx, "generate",
				"grammar", e.Grammar,
				"symbols", e.SequenceLen,
				"branches", e.Branches,
				"cache_hit", e.CacheHit,
				"duration", e.Duration,
			)
		},
	}
}

// LogGrowthHooks logs matured branches at debug level and completion at info level.
func LogGrowthHooks(logger *slog.Logger) domain.GrowthHooks {
	return domain.GrowthHooks{
		OnBranchMature: func(ctx context.Context, e *domain.BranchEvent) {
			logger.DebugContext(ctx, "branch_mature", "branch_id", e.BranchID, "depth", e.Depth)
		},
		OnComplete: func(ctx context.Context, e *domain.TickEvent) {
			logger.InfoContext(ctx, "growth_complete", "ticks", e.Tick, "elapsed", e.Elapsed)
		},
	}
}

// CombineGrowthHooks fans every callback out to each set, in order.
func CombineGrowthHooks(sets ...domain.GrowthHooks) domain.GrowthHooks {
	return domain.GrowthHooks{
		OnTick: func(ctx context.Context, e *domain.TickEvent) {
			for _, s := range sets {
				if s.OnTick != nil {
					s.OnTick(ctx, e)
				}
			}
		},
		OnBranchMature: func(ctx context.Context, e *domain.BranchEvent) {
			for _, s := range sets {
				if s.OnBranchMature != nil {
					s.OnBranchMature(ctx, e)
				}
			}
		},
		OnComplete: func(ctx context.Context, e *domain.TickEvent) {
			for _, s := range sets {
				if s.OnComplete != nil {
					s.OnComplete(ctx, e)
				}
			}
		},
	}
}

// CombineGenerateHooks fans OnGenerate out to each set, in order.
func CombineGenerateHooks(sets ...domain.GenerateHooks) domain.GenerateHooks {
	return domain.GenerateHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			for _, s := range sets {
				if s.OnGenerate != nil {
					s.OnGenerate(ctx, e)
				}
			}
		},
	}
}
