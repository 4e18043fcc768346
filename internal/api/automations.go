package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omnihq/omni-core/internal/automation"
)

// maxQueryParamLen limits URL parameter length to prevent DoS via oversized params.
const maxQueryParamLen = 100

// createAutomationRequest is the request body for POST /automations.
type createAutomationRequest struct {
	Name       string              `json:"name"`
	Trigger    automation.Trigger  `json:"trigger"`
	Actions    []automation.Action `json:"actions"`
	Conditions []string            `json:"conditions,omitempty"`
}

// handleListAutomations returns all automations, sorted by creation time.
func (s *Server) handleListAutomations(w http.ResponseWriter, _ *http.Request) {
	automations := s.catalog.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"automations": automations,
		"count":       len(automations),
	})
}

// handleCreateAutomation creates a new automation from an explicit definition.
func (s *Server) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	var req createAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.catalog.Create(req.Name, req.Trigger, req.Actions, req.Conditions)
	if err != nil {
		writeAutomationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleListTemplates returns the built-in automation templates.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	templates := s.catalog.ListTemplates()
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}

// handleCreateFromTemplate instantiates a built-in template, with optional
// field overrides in the request body.
func (s *Server) handleCreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	if templateID == "" || len(templateID) > maxQueryParamLen {
		writeBadRequest(w, "invalid template ID")
		return
	}

	var overrides automation.TemplateOverrides
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}

	created, err := s.catalog.CreateFromTemplate(templateID, overrides)
	if err != nil {
		writeAutomationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGetAutomation returns a single automation by ID.
func (s *Server) handleGetAutomation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid automation ID")
		return
	}

	a, err := s.catalog.Get(id)
	if err != nil {
		writeAutomationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// handleDeleteAutomation removes an automation and cancels its schedule.
func (s *Server) handleDeleteAutomation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid automation ID")
		return
	}

	if err := s.catalog.Delete(id); err != nil {
		writeAutomationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleEnableAutomation enables an automation (idempotent).
func (s *Server) handleEnableAutomation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid automation ID")
		return
	}

	if err := s.catalog.Enable(id); err != nil {
		writeAutomationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "enabled": true})
}

// handleDisableAutomation disables an automation (idempotent).
func (s *Server) handleDisableAutomation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid automation ID")
		return
	}

	if err := s.catalog.Disable(id); err != nil {
		writeAutomationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "enabled": false})
}

// handleTriggerAutomation runs an automation immediately.
//
// The context snapshot is taken from the context provider and merged with
// any JSON object in the request body, so callers can supply ad-hoc fields
// for condition evaluation and placeholder resolution.
//
// The run executes synchronously; the full RunResult is returned.
func (s *Server) handleTriggerAutomation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid automation ID")
		return
	}

	snap := automation.Snapshot{}
	if s.contexts != nil {
		snap = s.contexts.Snapshot()
	}

	if r.Body != nil && r.ContentLength > 0 {
		var extra map[string]any
		if err := json.NewDecoder(r.Body).Decode(&extra); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		for k, v := range extra {
			snap[k] = v
		}
	}

	run, err := s.catalog.Trigger(r.Context(), id, snap)
	if err != nil {
		writeAutomationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// handleFireEvent fires all enabled event-based automations matching the
// event name. The JSON body (if any) is merged into the context snapshot
// as the event payload.
func (s *Server) handleFireEvent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || len(name) > maxQueryParamLen {
		writeBadRequest(w, "invalid event name")
		return
	}

	snap := automation.Snapshot{}
	if s.contexts != nil {
		snap = s.contexts.Snapshot()
	}

	if r.Body != nil && r.ContentLength > 0 {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		for k, v := range payload {
			snap[k] = v
		}
	}

	runs := s.catalog.FireEvent(r.Context(), name, snap)
	writeJSON(w, http.StatusOK, map[string]any{
		"event": name,
		"runs":  runs,
		"count": len(runs),
	})
}

// defaultRunLimit is how many run records list endpoints return by default.
const defaultRunLimit = 20

// handleListRuns returns run history for one automation, newest first.
//
// Query parameters:
//   - limit: maximum records to return (default 20, capped at 100)
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid automation ID")
		return
	}

	// Verify the automation exists so unknown IDs 404 rather than
	// returning an empty list.
	if _, err := s.catalog.Get(id); err != nil {
		writeAutomationError(w, err)
		return
	}

	if s.runs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"runs": []automation.RunRecord{}, "count": 0})
		return
	}

	runs, err := s.runs.ListRuns(r.Context(), id, parseLimit(r, defaultRunLimit))
	if err != nil {
		writeInternalError(w, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleListRecentRuns returns the most recent runs across all automations.
func (s *Server) handleListRecentRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"runs": []automation.RunRecord{}, "count": 0})
		return
	}

	runs, err := s.runs.ListRecentRuns(r.Context(), parseLimit(r, defaultRunLimit))
	if err != nil {
		writeInternalError(w, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// parseLimit reads the limit query parameter, falling back to a default.
// Range clamping is handled by the repository.
func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return limit
}
