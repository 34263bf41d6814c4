package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/dto"
	"proximity-analysis-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// idParam parses the {id} route parameter; a false return means a 400 has
// already been written.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func latLon(l *domain.Location) (lat, lon *float64) {
	if l == nil {
		return nil, nil
	}
	return &l.Lat, &l.Lon
}

func toClientResponse(c *domain.Client) dto.ClientResponse {
	lat, lon := latLon(c.Location)
	return dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		UF:        c.UF,
		CEP:       c.CEP,
		Latitude:  lat,
		Longitude: lon,
	}
}

func toProviderResponse(p *domain.Provider) dto.ProviderResponse {
	lat, lon := latLon(p.Location)
	return dto.ProviderResponse{
		ID:           p.ID,
		Name:         p.Name,
		UF:           p.UF,
		Municipality: p.Municipality,
		CEP:          p.CEP,
		Latitude:     lat,
		Longitude:    lon,
		ServiceType:  p.ServiceType,
		Specialties:  p.Specialties,
		Plans:        p.Plans,
	}
}

func toRankingResponse(e *domain.RankingEntry) dto.RankingEntryResponse {
	return dto.RankingEntryResponse{
		ClientID:          e.ClientID,
		ProviderID:        e.ProviderID,
		DistanceKm:        e.DistanceKm,
		Rank:              e.Rank,
		AnalyzedAt:        e.AnalyzedAt,
		ClientName:        e.ClientName,
		ClientCEP:         e.ClientCEP,
		ClientUF:          e.ClientUF,
		ClientLatitude:    e.ClientLocation.Lat,
		ClientLongitude:   e.ClientLocation.Lon,
		ProviderName:      e.ProviderName,
		ProviderCEP:       e.ProviderCEP,
		ProviderUF:        e.ProviderUF,
		ProviderLatitude:  e.ProviderLocation.Lat,
		ProviderLongitude: e.ProviderLocation.Lon,
		Plans:             e.Plans,
		Specialties:       e.Specialties,
	}
}

func toRankingList(entries []*domain.RankingEntry) dto.ListRankingsResponse {
	res := dto.ListRankingsResponse{
		Rankings: make([]dto.RankingEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Rankings = append(res.Rankings, toRankingResponse(e))
	}
	return res
}
