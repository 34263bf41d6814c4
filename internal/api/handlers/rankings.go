package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/dto"
	"proximity-analysis-service/internal/ports"
	"proximity-analysis-service/internal/services"
)

// RankingHandler exposes the persisted ranking sets and the operations that
// compute them.
type RankingHandler struct {
	Rankings ports.RankingRepository
	Engine   *services.Engine
	Log      *zap.Logger
}

func (h *RankingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Rankings.ListAll(r.Context())
	if err != nil {
		h.Log.Error("list rankings failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRankingList(entries))
}

func (h *RankingHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Rankings.ListByClient(r.Context(), id)
	if err != nil {
		h.Log.Error("list rankings by client failed", zap.Int("client_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRankingList(entries))
}

// CalculateClient recomputes and persists one client's ranking set.
func (h *RankingHandler) CalculateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Engine.RankClient(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotAnalyzable):
			writeError(w, r, http.StatusUnprocessableEntity, "client is missing coordinates or does not exist")
		case errors.Is(err, services.ErrNoCandidates):
			writeError(w, r, http.StatusUnprocessableEntity, "no providers with coordinates available")
		default:
			h.Log.Error("ranking run failed", zap.Int("client_id", id), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CalculateResponse{
		Success: true,
		Message: "ranking computed",
	})
}

// CalculateAll recomputes every client's ranking set. Per-client failures do
// not abort the batch; the response carries the outcome counts.
func (h *RankingHandler) CalculateAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.Engine.RankAll(r.Context())
	if err != nil {
		h.Log.Error("batch ranking run failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CalculateAllResponse{
		Success:   true,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	})
}

// Analysis serves a client's top-ranked providers, computing the set on first
// access. The optional limit query parameter caps the returned entries.
func (h *RankingHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.Engine.TopForClient(r.Context(), id, limit)
	if err != nil {
		h.Log.Error("analysis failed", zap.Int("client_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRankingList(entries))
}
