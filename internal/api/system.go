package api

import (
	"context"
	"net/http"
	"time"
)

// componentCheckTimeout bounds each component health probe.
const componentCheckTimeout = 2 * time.Second

// SystemStatusResponse reports overall health and per-component detail.
type SystemStatusResponse struct {
	Status     string            `json:"status"` // "ok" or "degraded"
	Version    string            `json:"version"`
	UptimeSecs int64             `json:"uptime_seconds"`
	Components map[string]string `json:"components"`
	WSClients  int               `json:"ws_clients"`
}

// handleSystemStatus reports component health: database, MQTT broker, and
// the WebSocket hub. Optional components that are not configured are
// reported as "disabled" and do not degrade overall status.
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), componentCheckTimeout)
	defer cancel()

	components := make(map[string]string)
	degraded := false

	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			components["database"] = "unhealthy: " + err.Error()
			degraded = true
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "disabled"
	}

	if s.mqtt != nil {
		if err := s.mqtt.HealthCheck(ctx); err != nil {
			components["mqtt"] = "unhealthy: " + err.Error()
			degraded = true
		} else {
			components["mqtt"] = "ok"
		}
	} else {
		components["mqtt"] = "disabled"
	}

	status := "ok"
	if degraded {
		status = "degraded"
	}

	wsClients := 0
	if s.hub != nil {
		wsClients = s.hub.ClientCount()
	}

	writeJSON(w, http.StatusOK, SystemStatusResponse{
		Status:     status,
		Version:    s.version,
		UptimeSecs: int64(time.Since(s.startedAt).Seconds()),
		Components: components,
		WSClients:  wsClients,
	})
}
