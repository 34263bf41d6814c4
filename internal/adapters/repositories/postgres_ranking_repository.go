package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proximity-analysis-service/internal/domain"
)

// Postgres-backed implementation of the RankingRepository port.
//
// ReplaceForClient runs delete-then-insert inside a single transaction, so a
// concurrent reader sees either the previous rank set or the new one and a
// failed run leaves the previous set untouched.
type PostgresRankingRepository struct{ DB *sql.DB }

func NewPostgresRankingRepository(db *sql.DB) *PostgresRankingRepository {
	return &PostgresRankingRepository{DB: db}
}

const rankingColumns = `
	id, client_id, provider_id, distance_km, rank_position, analyzed_at,
	client_name, client_cep, client_uf, client_latitude, client_longitude,
	provider_name, provider_cep, provider_uf, provider_latitude, provider_longitude,
	plans, specialties`

func scanRankingEntry(s interface{ Scan(...any) error }) (*domain.RankingEntry, error) {
	var e domain.RankingEntry

	if err := s.Scan(
		&e.ID, &e.ClientID, &e.ProviderID, &e.DistanceKm, &e.Rank, &e.AnalyzedAt,
		&e.ClientName, &e.ClientCEP, &e.ClientUF, &e.ClientLocation.Lat, &e.ClientLocation.Lon,
		&e.ProviderName, &e.ProviderCEP, &e.ProviderUF, &e.ProviderLocation.Lat, &e.ProviderLocation.Lon,
		&e.Plans, &e.Specialties,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *PostgresRankingRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.RankingEntry, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ranking_entries table: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.RankingEntry, 0, 32)
	for rows.Next() {
		e, err := scanRankingEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return entries, nil
}

// Return every persisted ranking entry.
func (r *PostgresRankingRepository) ListAll(ctx context.Context) ([]*domain.RankingEntry, error) {
	if r.DB == nil {
		return nil, errors.New("ranking repository: DB is nil")
	}

	query := `SELECT ` + rankingColumns + ` FROM ranking_entries ORDER BY client_id, rank_position;`
	entries, err := r.queryEntries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}

	return entries, nil
}

// Return one client's full rank set ordered by rank.
func (r *PostgresRankingRepository) ListByClient(ctx context.Context, clientID int) ([]*domain.RankingEntry, error) {
	if r.DB == nil {
		return nil, errors.New("ranking repository: DB is nil")
	}

	query := `SELECT ` + rankingColumns + ` FROM ranking_entries WHERE client_id = $1 ORDER BY rank_position;`
	entries, err := r.queryEntries(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list rankings client_id=%d: %w", clientID, err)
	}

	return entries, nil
}

// Return up to limit entries for a client, best rank first.
func (r *PostgresRankingRepository) TopByClient(ctx context.Context, clientID, limit int) ([]*domain.RankingEntry, error) {
	if r.DB == nil {
		return nil, errors.New("ranking repository: DB is nil")
	}
	if limit <= 0 {
		return []*domain.RankingEntry{}, nil
	}

	query := `SELECT ` + rankingColumns + ` FROM ranking_entries WHERE client_id = $1 ORDER BY rank_position LIMIT $2;`
	entries, err := r.queryEntries(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("top rankings client_id=%d: %w", clientID, err)
	}

	return entries, nil
}

// Atomically replace a client's rank set.
func (r *PostgresRankingRepository) ReplaceForClient(ctx context.Context, clientID int, entries []*domain.RankingEntry) error {
	if r.DB == nil {
		return errors.New("ranking repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace rankings client_id=%d: begin tx: %w", clientID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ranking_entries WHERE client_id = $1;`, clientID); err != nil {
		return fmt.Errorf("replace rankings client_id=%d: delete old set: %w", clientID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO ranking_entries (
		client_id, provider_id, distance_km, rank_position, analyzed_at,
		client_name, client_cep, client_uf, client_latitude, client_longitude,
		provider_name, provider_cep, provider_uf, provider_latitude, provider_longitude,
		plans, specialties
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`)
	if err != nil {
		return fmt.Errorf("replace rankings client_id=%d: prepare insert: %w", clientID, err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ClientID != clientID {
			return fmt.Errorf("replace rankings client_id=%d: entry belongs to client %d", clientID, e.ClientID)
		}

		if _, err := stmt.ExecContext(ctx,
			e.ClientID, e.ProviderID, e.DistanceKm, e.Rank, e.AnalyzedAt,
			e.ClientName, e.ClientCEP, e.ClientUF, e.ClientLocation.Lat, e.ClientLocation.Lon,
			e.ProviderName, e.ProviderCEP, e.ProviderUF, e.ProviderLocation.Lat, e.ProviderLocation.Lon,
			e.Plans, e.Specialties,
		); err != nil {
			return fmt.Errorf("replace rankings client_id=%d: insert rank=%d: %w", clientID, e.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace rankings client_id=%d: commit tx: %w", clientID, err)
	}

	return nil
}
