package handler

import (
	"net/http"
	"time"

	"ripapay/internal/chain"
)

type SystemHandler struct {
	gateway   chain.Gateway
	logger    Logger
	startTime time.Time
}

func NewSystemHandler(gateway chain.Gateway, log Logger) *SystemHandler {
	return &SystemHandler{
		gateway:   gateway,
		logger:    log,
		startTime: time.Now(),
	}
}

// Root serves the API banner.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "RipaPay Gateway",
		"status":  "running",
	})
}

type HealthResponse struct {
	Status        string `json:"status"`
	Network       string `json:"network"`
	Tick          uint64 `json:"tick,omitempty"`
	Epoch         uint32 `json:"epoch,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// Health reports service and network health. The service answers even
// when the node does not; a dead node degrades the report rather than
// failing it.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "healthy",
		Network:       "unreachable",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	status, err := h.gateway.GetStatus(r.Context())
	if err != nil {
		h.logger.Warn("Network status check failed", map[string]interface{}{"error": err.Error()})
		resp.Status = "degraded"
	} else {
		resp.Network = status.Status
		resp.Tick = status.Tick
		resp.Epoch = status.Epoch
	}

	respondJSON(w, http.StatusOK, resp)
}
