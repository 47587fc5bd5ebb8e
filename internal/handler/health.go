package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"car-listings-viewer/internal/model"
)

// Pinger reports whether the listings service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	api Pinger
}

func NewHealthHandler(api Pinger) *HealthHandler {
	return &HealthHandler{api: api}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	apiStatus := "connected"
	if err := h.api.Ping(ctx); err != nil {
		apiStatus = "disconnected"
	}

	response := model.HealthResponse{
		Status:      "ok",
		ListingsAPI: apiStatus,
		Timestamp:   time.Now(),
	}

	if apiStatus == "disconnected" {
		response.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
