package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the generator.
type Metrics struct {
	Generations    *prometheus.CounterVec
	GenerateTime   *prometheus.HistogramVec
	SequenceLength *prometheus.HistogramVec
	Branches       *prometheus.HistogramVec
	Ticks          prometheus.Counter
	Matured        *prometheus.CounterVec
	Completed      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_generations_total",
				Help: "Total number of generated trees",
			},
			[]string{"grammar", "cache"},
		),
		GenerateTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_generate_duration_seconds",
				Help:    "Duration of expansion plus tree building",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"grammar"},
		),
		SequenceLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_sequence_symbols",
				Help:    "Length of expanded sequences",
				Buckets: prometheus.ExponentialBuckets(1, 4, 12),
			},
			[]string{"grammar"},
		),
		Branches: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_tree_branches",
				Help:    "Number of branches of generated trees",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"grammar"},
		),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_growth_ticks_total",
			Help: "Total number of growth steps",
		}),
		Matured: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_branches_matured_total",
				Help: "Branches that reached full length, by depth",
			},
			[]string{"depth"},
		),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_growth_completed_total",
			Help: "Simulations that fully grew their tree",
		}),
	}
	reg.MustRegister(
		m.Generations,
		m.GenerateTime,
		m.SequenceLength,
		m.Branches,
		m.Ticks,
		m.Matured,
		m.Completed,
	)
	return m
}

// GenerateHooks records every generation.
func (m *Metrics) GenerateHooks() domain.GenerateHooks {
	return domain.GenerateHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			cache := "miss"
			if e.CacheHit {
				cache = "hit"
			}
			m.Generations.WithLabelValues(e.Grammar, cache).Inc()
			m.GenerateTime.WithLabelValues(e.Grammar).Observe(e.Duration.Seconds())
			m.SequenceLength.WithLabelValues(e.Grammar).Observe(float64(e.SequenceLen))
			m.Branches.WithLabelValues(e.Grammar).Observe(float64(e.Branches))
		},
	}
}

// GrowthHooks records simulator progress.
func (m *Metrics) GrowthHooks() domain.GrowthHooks {
	return domain.GrowthHooks{
		OnTick: func(context.Context, *domain.TickEvent) {
			m.Ticks.Inc()
		},
		OnBranchMature: func(_ context.Context, e *domain.BranchEvent) {
			m.Matured.WithLabelValues(strconv.Itoa(e.Depth)).Inc()
		},
		OnComplete: func(context.Context, *domain.TickEvent) {
			m.Completed.Inc()
		},
	}
}
