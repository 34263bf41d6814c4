package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proximity-analysis-service/internal/domain"
)

// Postgres-backed implementation of the ClientRepository port.
type PostgresClientRepository struct{ DB *sql.DB }

func NewPostgresClientRepository(db *sql.DB) *PostgresClientRepository {
	return &PostgresClientRepository{DB: db}
}

const clientColumns = `id, name, uf, cep, latitude, longitude`

func scanClient(s interface{ Scan(...any) error }) (*domain.Client, error) {
	var c domain.Client
	var lat, lon sql.NullFloat64

	if err := s.Scan(&c.ID, &c.Name, &c.UF, &c.CEP, &lat, &lon); err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		c.Location = &domain.Location{Lat: lat.Float64, Lon: lon.Float64}
	}

	return &c, nil
}

// Return all clients, including those without coordinates.
func (r *PostgresClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	if r.DB == nil {
		return nil, errors.New("client repository: DB is nil")
	}

	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: query clients table: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0, 64)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: scan row: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: row iteration: %w", err)
	}

	return clients, nil
}

// Return one client, or (nil, nil) when the id does not exist.
func (r *PostgresClientRepository) GetByID(ctx context.Context, id int) (*domain.Client, error) {
	if r.DB == nil {
		return nil, errors.New("client repository: DB is nil")
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1;`
	c, err := scanClient(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client id=%d: %w", id, err)
	}

	return c, nil
}

// Return clients in a given state (UF).
func (r *PostgresClientRepository) ListByUF(ctx context.Context, uf string) ([]*domain.Client, error) {
	if r.DB == nil {
		return nil, errors.New("client repository: DB is nil")
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE uf = $1 ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query, uf)
	if err != nil {
		return nil, fmt.Errorf("list clients by uf=%q: query: %w", uf, err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0, 16)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients by uf=%q: scan row: %w", uf, err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients by uf=%q: row iteration: %w", uf, err)
	}

	return clients, nil
}
