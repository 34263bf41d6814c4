package routing

import (
	"context"

	"go.uber.org/zap"

	"proximity-analysis-service/internal/domain"
	"proximity-analysis-service/internal/platform/geo"
	"proximity-analysis-service/internal/platform/metrics"
	"proximity-analysis-service/internal/ports"
)

// Resolver implements ports.DistanceResolver as an explicit two-step
// strategy: ask the routing service for a real travel distance, and degrade
// to the haversine estimate when the service cannot answer. Each resolution
// is tagged with the step that produced it.
//
// The fallback is pure computation, so Resolve always returns a distance and
// never blocks past the routing client's timeout.
type Resolver struct {
	matrix *MatrixClient
	cache  ports.DistanceCache
	log    *zap.Logger
}

// NewResolver builds a resolver. matrix may be nil (no routing service
// configured) and cache may be nil (caching disabled); both degrade
// gracefully.
func NewResolver(matrix *MatrixClient, cache ports.DistanceCache, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{matrix: matrix, cache: cache, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, origin, destination domain.Location) ports.Resolution {
	if r.cache != nil {
		km, ok, err := r.cache.Get(ctx, origin, destination)
		if err != nil {
			r.log.Warn("distance cache read failed", zap.Error(err))
		} else if ok {
			metrics.DistanceResolutions.WithLabelValues(ports.SourceCache).Inc()
			return ports.Resolution{DistanceKm: km, Source: ports.SourceCache}
		}
	}

	if r.matrix != nil {
		rm, err := r.matrix.Distance(ctx, origin, destination)
		if err == nil {
			km := geo.RoundKm(rm.DistanceKm)
			if r.cache != nil {
				if err := r.cache.Put(ctx, origin, destination, km); err != nil {
					r.log.Warn("distance cache write failed", zap.Error(err))
				}
			}
			metrics.DistanceResolutions.WithLabelValues(ports.SourceAPI).Inc()
			return ports.Resolution{DistanceKm: km, Source: ports.SourceAPI}
		}

		r.log.Debug("routing service unavailable, using haversine",
			zap.Float64("origin_lat", origin.Lat),
			zap.Float64("origin_lon", origin.Lon),
			zap.Error(err),
		)
	}

	metrics.DistanceResolutions.WithLabelValues(ports.SourceFallback).Inc()
	return ports.Resolution{
		DistanceKm: geo.Haversine(origin, destination),
		Source:     ports.SourceFallback,
	}
}
