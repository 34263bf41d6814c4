package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/handlers"
	"proximity-analysis-service/internal/domain"
	"proximity-analysis-service/internal/ports"
	"proximity-analysis-service/internal/services"
)

// ---- Mocks ----

type mockClientRepo struct {
	listFn     func(ctx context.Context) ([]*domain.Client, error)
	getByIDFn  func(ctx context.Context, id int) (*domain.Client, error)
	listByUFFn func(ctx context.Context, uf string) ([]*domain.Client, error)
}

func (m *mockClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockClientRepo) GetByID(ctx context.Context, id int) (*domain.Client, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockClientRepo) ListByUF(ctx context.Context, uf string) ([]*domain.Client, error) {
	if m.listByUFFn != nil {
		return m.listByUFFn(ctx, uf)
	}
	return nil, nil
}

type mockProviderRepo struct {
	listFn func(ctx context.Context) ([]*domain.Provider, error)
}

func (m *mockProviderRepo) List(ctx context.Context) ([]*domain.Provider, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockProviderRepo) GetByID(ctx context.Context, id int) (*domain.Provider, error) {
	return nil, nil
}

func (m *mockProviderRepo) ListByUF(ctx context.Context, uf string) ([]*domain.Provider, error) {
	return nil, nil
}

type memRankingRepo struct {
	entries map[int][]*domain.RankingEntry
}

func newMemRankingRepo() *memRankingRepo {
	return &memRankingRepo{entries: map[int][]*domain.RankingEntry{}}
}

func (m *memRankingRepo) ListAll(ctx context.Context) ([]*domain.RankingEntry, error) {
	var all []*domain.RankingEntry
	for _, set := range m.entries {
		all = append(all, set...)
	}
	return all, nil
}

func (m *memRankingRepo) ListByClient(ctx context.Context, clientID int) ([]*domain.RankingEntry, error) {
	return m.entries[clientID], nil
}

func (m *memRankingRepo) TopByClient(ctx context.Context, clientID, limit int) ([]*domain.RankingEntry, error) {
	set := m.entries[clientID]
	if len(set) > limit {
		set = set[:limit]
	}
	return set, nil
}

func (m *memRankingRepo) ReplaceForClient(ctx context.Context, clientID int, entries []*domain.RankingEntry) error {
	m.entries[clientID] = entries
	return nil
}

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, origin, destination domain.Location) ports.Resolution {
	return ports.Resolution{DistanceKm: destination.Lon, Source: ports.SourceFallback}
}

func loc(lat, lon float64) *domain.Location {
	return &domain.Location{Lat: lat, Lon: lon}
}

// testRouter wires the handlers onto a bare chi mux, the same shape the real
// router uses minus middleware.
func testRouter(clients ports.ClientRepository, providers ports.ProviderRepository, rankings ports.RankingRepository, engine *services.Engine) http.Handler {
	log := zap.NewNop()
	clientHandler := &handlers.ClientHandler{Repo: clients, Log: log}
	providerHandler := &handlers.ProviderHandler{Repo: providers, Log: log}
	rankingHandler := &handlers.RankingHandler{Rankings: rankings, Engine: engine, Log: log}
	statisticsHandler := &handlers.StatisticsHandler{Engine: engine, Log: log}

	r := chi.NewRouter()
	r.Get("/api/clients/{id}", clientHandler.GetByID)
	r.Get("/api/providers", providerHandler.List)
	r.Get("/api/rankings/client/{id}", rankingHandler.ListByClient)
	r.Get("/api/analysis/client/{id}", rankingHandler.Analysis)
	r.Post("/api/calculate/client/{id}", rankingHandler.CalculateClient)
	r.Get("/api/statistics", statisticsHandler.Get)
	return r
}

func fixtureDeps() (*mockClientRepo, *mockProviderRepo, *memRankingRepo, *services.Engine) {
	clients := &mockClientRepo{
		getByIDFn: func(ctx context.Context, id int) (*domain.Client, error) {
			switch id {
			case 1:
				return &domain.Client{ID: 1, Name: "Mercado Central", UF: "SP", Location: loc(-23.5, -46.6)}, nil
			case 2:
				return &domain.Client{ID: 2, Name: "Sem Endereço", UF: "SP"}, nil
			}
			return nil, nil
		},
	}
	providers := &mockProviderRepo{
		listFn: func(ctx context.Context) ([]*domain.Provider, error) {
			return []*domain.Provider{
				{ID: 1, Name: "Clínica A", UF: "SP", Location: loc(-23.5, 30)},
				{ID: 2, Name: "Clínica B", UF: "SP", Location: loc(-23.5, 10)},
			}, nil
		},
	}
	rankings := newMemRankingRepo()
	engine := services.NewEngine(clients, providers, rankings, stubResolver{}, 3, 2, zap.NewNop())
	return clients, providers, rankings, engine
}

// ---- Tests ----

func TestGetClientByID(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/clients/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 1 || body.Name != "Mercado Central" {
		t.Errorf("body = %+v", body)
	}
}

func TestGetClientByIDNotFound(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/clients/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetClientByIDInvalid(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/clients/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCalculateClientSuccess(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate/client/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if got := len(rankings.entries[1]); got != 2 {
		t.Errorf("persisted entries = %d, want 2", got)
	}
}

func TestCalculateClientWithoutCoordinates(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate/client/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCalculateUnknownClient(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate/client/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAnalysisComputesOnFirstAccess(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/client/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Rankings []struct {
			ProviderID int     `json:"provider_id"`
			DistanceKm float64 `json:"distance_km"`
			Rank       int     `json:"rank"`
		} `json:"rankings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Rankings) != 2 {
		t.Fatalf("rankings = %d, want 2", len(body.Rankings))
	}
	if body.Rankings[0].ProviderID != 2 || body.Rankings[0].Rank != 1 {
		t.Errorf("first entry = %+v, want provider 2 at rank 1", body.Rankings[0])
	}
}

func TestAnalysisInvalidLimit(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/client/1?limit=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStatistics(t *testing.T) {
	clients, providers, rankings, engine := fixtureDeps()
	rankings.entries[1] = []*domain.RankingEntry{
		{ClientID: 1, ProviderID: 1, DistanceKm: 10, Rank: 1},
		{ClientID: 1, ProviderID: 2, DistanceKm: 20, Rank: 2},
	}
	router := testRouter(clients, providers, rankings, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		ClientCount   int     `json:"client_count"`
		ProviderCount int     `json:"provider_count"`
		AvgDistanceKm float64 `json:"avg_distance_km"`
		TotalEntries  int     `json:"total_entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ClientCount != 1 || body.ProviderCount != 2 || body.AvgDistanceKm != 15.0 || body.TotalEntries != 2 {
		t.Errorf("statistics = %+v", body)
	}
}
