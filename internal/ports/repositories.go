package ports

import (
	"context"

	"proximity-analysis-service/internal/domain"
)

// Port: boundary for retrieving Client reference data.
// Lookups return (nil, nil) when the record does not exist.
type ClientRepository interface {
	List(ctx context.Context) ([]*domain.Client, error)
	GetByID(ctx context.Context, id int) (*domain.Client, error)
	ListByUF(ctx context.Context, uf string) ([]*domain.Client, error)
}

// Port: boundary for retrieving Provider reference data.
type ProviderRepository interface {
	List(ctx context.Context) ([]*domain.Provider, error)
	GetByID(ctx context.Context, id int) (*domain.Provider, error)
	ListByUF(ctx context.Context, uf string) ([]*domain.Provider, error)
}

// Port: boundary for the persisted ranking set.
//
// ReplaceForClient swaps a client's entire rank set atomically: a concurrent
// reader observes either the previous set or the new one, never a mix, and
// on error the previous set remains intact.
type RankingRepository interface {
	ListAll(ctx context.Context) ([]*domain.RankingEntry, error)
	ListByClient(ctx context.Context, clientID int) ([]*domain.RankingEntry, error)
	TopByClient(ctx context.Context, clientID, limit int) ([]*domain.RankingEntry, error)
	ReplaceForClient(ctx context.Context, clientID int, entries []*domain.RankingEntry) error
}
