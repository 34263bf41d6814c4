package services

import (
	"context"
	"testing"

	"proximity-analysis-service/internal/domain"
)

func TestTopForClientComputesOnFirstAccess(t *testing.T) {
	clients := &mockClientRepo{getByIDFn: func(ctx context.Context, id int) (*domain.Client, error) {
		return fixtureClient(id), nil
	}}
	providers := &mockProviderRepo{listFn: func(ctx context.Context) ([]*domain.Provider, error) {
		return fixtureProviders(30, 10, 20), nil
	}}
	rankings := newMemRankingRepo()
	engine := testEngine(clients, providers, rankings, lonResolver(), 3)

	entries, err := engine.TopForClient(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected on-demand computation to produce 3 entries, got %d", len(entries))
	}
	if entries[0].ProviderID != 2 {
		t.Errorf("expected closest provider (2) first, got %d", entries[0].ProviderID)
	}
	if rankings.replaces != 1 {
		t.Errorf("expected exactly one ranking run, got %d", rankings.replaces)
	}
}

func TestTopForClientServesPersistedSetWithoutRecompute(t *testing.T) {
	clients := &mockClientRepo{getByIDFn: func(ctx context.Context, id int) (*domain.Client, error) {
		return fixtureClient(id), nil
	}}
	providers := &mockProviderRepo{listFn: func(ctx context.Context) ([]*domain.Provider, error) {
		return fixtureProviders(30, 10, 20), nil
	}}
	rankings := newMemRankingRepo()
	engine := testEngine(clients, providers, rankings, lonResolver(), 3)

	if err := engine.RankClient(context.Background(), 1); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	if _, err := engine.TopForClient(context.Background(), 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rankings.replaces != 1 {
		t.Errorf("read with a full persisted set must not recompute, got %d runs", rankings.replaces)
	}
}

func TestTopForClientReturnsSubsetWhenComputationFails(t *testing.T) {
	clients := &mockClientRepo{getByIDFn: func(ctx context.Context, id int) (*domain.Client, error) {
		return &domain.Client{ID: id, Name: "No Coords"}, nil
	}}
	rankings := newMemRankingRepo()
	rankings.byClient[1] = []*domain.RankingEntry{
		{ClientID: 1, ProviderID: 9, DistanceKm: 4.2, Rank: 1},
	}
	engine := testEngine(clients, &mockProviderRepo{}, rankings, lonResolver(), 3)

	entries, err := engine.TopForClient(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("a failed self-heal must not surface an error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the existing subset back, got %d entries", len(entries))
	}
}

func TestTopForClientDefaultsLimit(t *testing.T) {
	clients := &mockClientRepo{getByIDFn: func(ctx context.Context, id int) (*domain.Client, error) {
		return fixtureClient(id), nil
	}}
	providers := &mockProviderRepo{listFn: func(ctx context.Context) ([]*domain.Provider, error) {
		return fixtureProviders(10, 20, 30, 40), nil
	}}
	rankings := newMemRankingRepo()
	engine := testEngine(clients, providers, rankings, lonResolver(), 3)

	entries, err := engine.TopForClient(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected limit to default to top-K (3), got %d", len(entries))
	}
}

func TestStatistics(t *testing.T) {
	rankings := newMemRankingRepo()
	rankings.byClient[1] = []*domain.RankingEntry{
		{ClientID: 1, ProviderID: 10, DistanceKm: 1.0, Rank: 1},
		{ClientID: 1, ProviderID: 20, DistanceKm: 2.0, Rank: 2},
	}
	rankings.byClient[2] = []*domain.RankingEntry{
		{ClientID: 2, ProviderID: 10, DistanceKm: 4.55, Rank: 1},
	}
	engine := testEngine(&mockClientRepo{}, &mockProviderRepo{}, rankings, lonResolver(), 3)

	stats, err := engine.Statistics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ClientCount != 2 {
		t.Errorf("expected 2 distinct clients, got %d", stats.ClientCount)
	}
	if stats.ProviderCount != 2 {
		t.Errorf("expected 2 distinct providers, got %d", stats.ProviderCount)
	}
	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.TotalEntries)
	}
	// (1.0 + 2.0 + 4.55) / 3 = 2.5166..., rounded to 1 decimal.
	if stats.AvgDistanceKm != 2.5 {
		t.Errorf("expected avg 2.5, got %v", stats.AvgDistanceKm)
	}
}

func TestStatisticsEmptySet(t *testing.T) {
	engine := testEngine(&mockClientRepo{}, &mockProviderRepo{}, newMemRankingRepo(), lonResolver(), 3)

	stats, err := engine.Statistics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != (domain.Statistics{}) {
		t.Fatalf("expected all-zero statistics for empty set, got %+v", stats)
	}
}
