package handler

import (
	"net/http"

	natsclient "github.com/hearthplan/renovation-assistant/internal/nats"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	natsClient *natsclient.Client
}

// NewHealthHandler creates a new health handler. natsClient may be nil;
// the journal is optional and the service stays ready without it.
func NewHealthHandler(natsClient *natsclient.Client) *HealthHandler {
	return &HealthHandler{
		natsClient: natsClient,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	journal := "disabled"
	if h.natsClient != nil {
		if h.natsClient.IsConnected() {
			journal = "connected"
		} else {
			journal = "disconnected"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"journal": journal,
	})
}
