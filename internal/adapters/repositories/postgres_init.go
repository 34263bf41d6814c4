package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema. Reference tables carry externally assigned
// ids; ranking entries are engine-owned and keyed per (client, rank).
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createClientsQuery := `
	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		uf TEXT NOT NULL DEFAULT '',
		cep TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createProvidersQuery := `
	CREATE TABLE IF NOT EXISTS providers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		uf TEXT NOT NULL DEFAULT '',
		municipality TEXT NOT NULL DEFAULT '',
		cep TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		service_type TEXT NOT NULL DEFAULT '',
		specialties TEXT NOT NULL DEFAULT '',
		plans TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createRankingEntriesQuery := `
	CREATE TABLE IF NOT EXISTS ranking_entries (
		id BIGSERIAL PRIMARY KEY,
		client_id INTEGER NOT NULL,
		provider_id INTEGER NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		rank_position INTEGER NOT NULL,
		analyzed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		client_name TEXT NOT NULL DEFAULT '',
		client_cep TEXT NOT NULL DEFAULT '',
		client_uf TEXT NOT NULL DEFAULT '',
		client_latitude DOUBLE PRECISION NOT NULL,
		client_longitude DOUBLE PRECISION NOT NULL,
		provider_name TEXT NOT NULL DEFAULT '',
		provider_cep TEXT NOT NULL DEFAULT '',
		provider_uf TEXT NOT NULL DEFAULT '',
		provider_latitude DOUBLE PRECISION NOT NULL,
		provider_longitude DOUBLE PRECISION NOT NULL,
		plans TEXT NOT NULL DEFAULT '',
		specialties TEXT NOT NULL DEFAULT '',
		UNIQUE (client_id, rank_position)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_ranking_entries_client
	ON ranking_entries(client_id, rank_position);
	`

	statements := []string{
		createClientsQuery,
		createProvidersQuery,
		createRankingEntriesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ClientSeed struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	UF        string   `json:"uf"`
	CEP       string   `json:"cep"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ProviderSeed struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	UF           string   `json:"uf"`
	Municipality string   `json:"municipality"`
	CEP          string   `json:"cep"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ServiceType  string   `json:"service_type"`
	Specialties  []string `json:"specialties"`
	Plans        []string `json:"plans"`
}

// Populate the clients table from a JSON file. Seed rows may legitimately
// lack coordinates; those clients exist but cannot be analyzed.
func SeedClientsFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed clients: read %q: %w", jsonPath, err)
	}

	var data []ClientSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed clients: parse json: %w", err)
	}

	for i, c := range data {
		if c.ID <= 0 {
			return fmt.Errorf("seed clients: invalid id at index %d: %d", i+1, c.ID)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("seed clients: empty name at index %d", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed clients: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO clients (id, name, uf, cep, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		uf = EXCLUDED.uf,
		cep = EXCLUDED.cep,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed clients: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range data {
		if _, err := stmt.Exec(c.ID, strings.TrimSpace(c.Name), c.UF, c.CEP, c.Latitude, c.Longitude); err != nil {
			return fmt.Errorf("seed clients: insert id=%d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed clients: commit tx: %w", err)
	}

	return nil
}

// Populate the providers table from a JSON file.
func SeedProvidersFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed providers: read %q: %w", jsonPath, err)
	}

	var data []ProviderSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed providers: parse json: %w", err)
	}

	for i, p := range data {
		if p.ID <= 0 {
			return fmt.Errorf("seed providers: invalid id at index %d: %d", i+1, p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("seed providers: empty name at index %d", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed providers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO providers (id, name, uf, municipality, cep, latitude, longitude, service_type, specialties, plans)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		uf = EXCLUDED.uf,
		municipality = EXCLUDED.municipality,
		cep = EXCLUDED.cep,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		service_type = EXCLUDED.service_type,
		specialties = EXCLUDED.specialties,
		plans = EXCLUDED.plans;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed providers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range data {
		if _, err := stmt.Exec(
			p.ID, strings.TrimSpace(p.Name), p.UF, p.Municipality, p.CEP,
			p.Latitude, p.Longitude, p.ServiceType,
			joinList(p.Specialties), joinList(p.Plans),
		); err != nil {
			return fmt.Errorf("seed providers: insert id=%d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed providers: commit tx: %w", err)
	}

	return nil
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
