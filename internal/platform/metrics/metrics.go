package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RankingRuns counts per-client ranking runs by outcome
	// (ok, not_analyzable, no_candidates, persistence_failed).
	RankingRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proximity",
		Subsystem: "engine",
		Name:      "ranking_runs_total",
		Help:      "Per-client ranking runs by outcome",
	}, []string{"status"})

	// DistanceResolutions counts resolver answers by source
	// (api, cache, fallback).
	DistanceResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proximity",
		Subsystem: "resolver",
		Name:      "distance_resolutions_total",
		Help:      "Resolved distances by source",
	}, []string{"source"})

	// RankingRunDuration observes wall time of one client's ranking run.
	RankingRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "proximity",
		Subsystem: "engine",
		Name:      "ranking_run_duration_seconds",
		Help:      "Duration of a single client ranking run",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
	})
)
