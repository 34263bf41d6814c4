package ports

import (
	"context"

	"proximity-analysis-service/internal/domain"
)

// Resolution source tags. The resolver reports which step of its strategy
// produced the distance, so callers and tests can tell a real route from a
// geometric estimate.
const (
	SourceAPI      = "api"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// A resolved travel distance in kilometers, tagged with its origin.
type Resolution struct {
	DistanceKm float64
	Source     string
}

// Contract for obtaining a distance between two valid locations.
// Resolve must always produce a distance: ordinary failures (network,
// service, malformed payloads) degrade to a deterministic estimate and are
// never surfaced to the caller. Inputs are validated by the caller.
type DistanceResolver interface {
	Resolve(ctx context.Context, origin, destination domain.Location) Resolution
}

// Optional cache for API-resolved distances, consulted before the external
// service. Get returns ok=false on a miss.
type DistanceCache interface {
	Get(ctx context.Context, origin, destination domain.Location) (km float64, ok bool, err error)
	Put(ctx context.Context, origin, destination domain.Location, km float64) error
}
