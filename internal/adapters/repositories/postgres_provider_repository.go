package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proximity-analysis-service/internal/domain"
)

// Postgres-backed implementation of the ProviderRepository port.
type PostgresProviderRepository struct{ DB *sql.DB }

func NewPostgresProviderRepository(db *sql.DB) *PostgresProviderRepository {
	return &PostgresProviderRepository{DB: db}
}

const providerColumns = `id, name, uf, municipality, cep, latitude, longitude, service_type, specialties, plans`

func scanProvider(s interface{ Scan(...any) error }) (*domain.Provider, error) {
	var p domain.Provider
	var lat, lon sql.NullFloat64
	var specialties, plans string

	if err := s.Scan(
		&p.ID, &p.Name, &p.UF, &p.Municipality, &p.CEP,
		&lat, &lon, &p.ServiceType, &specialties, &plans,
	); err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		p.Location = &domain.Location{Lat: lat.Float64, Lon: lon.Float64}
	}
	p.Specialties = splitList(specialties)
	p.Plans = splitList(plans)

	return &p, nil
}

// Return all providers, including those without coordinates.
// Ordering by id keeps the candidate set deterministic, which the ranking
// engine relies on for stable tie-breaking.
func (r *PostgresProviderRepository) List(ctx context.Context) ([]*domain.Provider, error) {
	if r.DB == nil {
		return nil, errors.New("provider repository: DB is nil")
	}

	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: query providers table: %w", err)
	}
	defer rows.Close()

	providers := make([]*domain.Provider, 0, 64)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("list providers: scan row: %w", err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list providers: row iteration: %w", err)
	}

	return providers, nil
}

// Return one provider, or (nil, nil) when the id does not exist.
func (r *PostgresProviderRepository) GetByID(ctx context.Context, id int) (*domain.Provider, error) {
	if r.DB == nil {
		return nil, errors.New("provider repository: DB is nil")
	}

	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1;`
	p, err := scanProvider(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get provider id=%d: %w", id, err)
	}

	return p, nil
}

// Return providers in a given state (UF).
func (r *PostgresProviderRepository) ListByUF(ctx context.Context, uf string) ([]*domain.Provider, error) {
	if r.DB == nil {
		return nil, errors.New("provider repository: DB is nil")
	}

	query := `SELECT ` + providerColumns + ` FROM providers WHERE uf = $1 ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query, uf)
	if err != nil {
		return nil, fmt.Errorf("list providers by uf=%q: query: %w", uf, err)
	}
	defer rows.Close()

	providers := make([]*domain.Provider, 0, 16)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("list providers by uf=%q: scan row: %w", uf, err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list providers by uf=%q: row iteration: %w", uf, err)
	}

	return providers, nil
}
