package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/dto"
	"proximity-analysis-service/internal/ports"
)

// ProviderHandler exposes read-only provider reference data.
type ProviderHandler struct {
	Repo ports.ProviderRepository
	Log  *zap.Logger
}

func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.Repo.List(r.Context())
	if err != nil {
		h.Log.Error("list providers failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListProvidersResponse{Providers: make([]dto.ProviderResponse, 0, len(providers))}
	for _, p := range providers {
		res.Providers = append(res.Providers, toProviderResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ProviderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	provider, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		h.Log.Error("get provider failed", zap.Int("provider_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if provider == nil {
		writeError(w, r, http.StatusNotFound, "provider not found")
		return
	}

	writeJSON(w, r, http.StatusOK, toProviderResponse(provider))
}

func (h *ProviderHandler) ListByUF(w http.ResponseWriter, r *http.Request) {
	uf := chi.URLParam(r, "uf")

	providers, err := h.Repo.ListByUF(r.Context(), uf)
	if err != nil {
		h.Log.Error("list providers by uf failed", zap.String("uf", uf), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListProvidersResponse{Providers: make([]dto.ProviderResponse, 0, len(providers))}
	for _, p := range providers {
		res.Providers = append(res.Providers, toProviderResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}
