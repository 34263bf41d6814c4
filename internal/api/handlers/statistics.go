package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/dto"
	"proximity-analysis-service/internal/services"
)

type StatisticsHandler struct {
	Engine *services.Engine
	Log    *zap.Logger
}

func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Engine.Statistics(r.Context())
	if err != nil {
		h.Log.Error("statistics failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StatisticsResponse{
		ClientCount:   stats.ClientCount,
		ProviderCount: stats.ProviderCount,
		AvgDistanceKm: stats.AvgDistanceKm,
		TotalEntries:  stats.TotalEntries,
	})
}
