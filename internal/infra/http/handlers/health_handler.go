package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/angushq/prospect-sync/internal/config"
)

type HealthHandler struct {
	Config    *config.Config
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		Config:    cfg,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.Config.StoreAPIKey != "" && h.Config.StoreBaseID != "" {
		deps["recordstore"] = "configured"
	} else {
		deps["recordstore"] = "not configured"
	}

	if h.Config.CRMAPIKey != "" && h.Config.CRMLocationID != "" {
		deps["crm"] = "configured"
	} else {
		deps["crm"] = "not configured"
	}

	response := HealthResponse{
		Status:       "healthy",
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
