package services

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"proximity-analysis-service/internal/domain"
)

// TopForClient returns up to limit persisted ranking entries for a client,
// best rank first. When fewer than limit entries exist, it triggers one
// fresh ranking run and re-reads, so first access computes on demand; if
// the run or re-read fails, whatever subset exists is returned.
func (e *Engine) TopForClient(ctx context.Context, clientID, limit int) ([]*domain.RankingEntry, error) {
	if limit <= 0 {
		limit = e.topK
	}

	entries, err := e.rankings.TopByClient(ctx, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("top for client %d: %w", clientID, err)
	}
	if len(entries) >= limit {
		return entries, nil
	}

	if err := e.RankClient(ctx, clientID); err != nil {
		e.log.Debug("on-demand ranking failed",
			zap.Int("client_id", clientID),
			zap.Error(err),
		)
		return entries, nil
	}

	fresh, err := e.rankings.TopByClient(ctx, clientID, limit)
	if err != nil {
		e.log.Warn("re-read after on-demand ranking failed",
			zap.Int("client_id", clientID),
			zap.Error(err),
		)
		return entries, nil
	}

	return fresh, nil
}

// Statistics derives aggregates from the persisted ranking set only:
// distinct client/provider counts, entry total, and the mean distance
// rounded to 1 decimal. An empty set yields all zeros.
func (e *Engine) Statistics(ctx context.Context) (domain.Statistics, error) {
	entries, err := e.rankings.ListAll(ctx)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	if len(entries) == 0 {
		return domain.Statistics{}, nil
	}

	clientIDs := make(map[int]struct{})
	providerIDs := make(map[int]struct{})
	var total float64

	for _, entry := range entries {
		clientIDs[entry.ClientID] = struct{}{}
		providerIDs[entry.ProviderID] = struct{}{}
		total += entry.DistanceKm
	}

	avg := total / float64(len(entries))

	return domain.Statistics{
		ClientCount:   len(clientIDs),
		ProviderCount: len(providerIDs),
		AvgDistanceKm: math.Round(avg*10) / 10,
		TotalEntries:  len(entries),
	}, nil
}
