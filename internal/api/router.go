package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", s.handleHealth)

		// System status (component health, uptime)
		r.Get("/system/status", s.handleSystemStatus)

		// Automation endpoints
		r.Route("/automations", func(r chi.Router) {
			r.Get("/", s.handleListAutomations)
			r.Post("/", s.handleCreateAutomation)

			// Templates (static segment registered before {id})
			r.Get("/templates", s.handleListTemplates)
			r.Post("/templates/{templateID}", s.handleCreateFromTemplate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAutomation)
				r.Delete("/", s.handleDeleteAutomation)
				r.Post("/enable", s.handleEnableAutomation)
				r.Post("/disable", s.handleDisableAutomation)
				r.Post("/trigger", s.handleTriggerAutomation)
				r.Get("/runs", s.handleListRuns)
			})
		})

		// Recent runs across all automations
		r.Get("/runs", s.handleListRecentRuns)

		// External event injection (same path as MQTT events, over HTTP)
		r.Post("/events/{name}", s.handleFireEvent)

		// Context snapshot and overrides
		r.Route("/context", func(r chi.Router) {
			r.Get("/", s.handleGetContext)
			r.Put("/overrides", s.handleSetOverrides)
			r.Delete("/overrides/{key}", s.handleClearOverride)
			r.Post("/meetings", s.handleAddMeeting)
		})

		// WebSocket for real-time run broadcasts
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
