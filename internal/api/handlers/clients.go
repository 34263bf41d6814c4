package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"proximity-analysis-service/internal/api/dto"
	"proximity-analysis-service/internal/ports"
)

// ClientHandler exposes read-only client reference data.
type ClientHandler struct {
	Repo ports.ClientRepository
	Log  *zap.Logger
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Repo.List(r.Context())
	if err != nil {
		h.Log.Error("list clients failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListClientsResponse{Clients: make([]dto.ClientResponse, 0, len(clients))}
	for _, c := range clients {
		res.Clients = append(res.Clients, toClientResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	client, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		h.Log.Error("get client failed", zap.Int("client_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if client == nil {
		writeError(w, r, http.StatusNotFound, "client not found")
		return
	}

	writeJSON(w, r, http.StatusOK, toClientResponse(client))
}

func (h *ClientHandler) ListByUF(w http.ResponseWriter, r *http.Request) {
	uf := chi.URLParam(r, "uf")

	clients, err := h.Repo.ListByUF(r.Context(), uf)
	if err != nil {
		h.Log.Error("list clients by uf failed", zap.String("uf", uf), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListClientsResponse{Clients: make([]dto.ClientResponse, 0, len(clients))}
	for _, c := range clients {
		res.Clients = append(res.Clients, toClientResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}
