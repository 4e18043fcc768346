package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleGetContext returns the current context snapshot, including derived
// time-of-day fields and any active manual overrides.
func (s *Server) handleGetContext(w http.ResponseWriter, _ *http.Request) {
	if s.contexts == nil {
		writeJSON(w, http.StatusOK, map[string]any{"context": map[string]any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"context": s.contexts.Snapshot()})
}

// handleSetOverrides applies manual context overrides from a JSON object.
// Each key/value pair is set on the context provider and takes precedence
// over derived fields in subsequent snapshots.
func (s *Server) handleSetOverrides(w http.ResponseWriter, r *http.Request) {
	if s.contexts == nil {
		writeInternalError(w, "context provider not configured")
		return
	}

	var overrides map[string]any
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(overrides) == 0 {
		writeBadRequest(w, "at least one override is required")
		return
	}

	for key, value := range overrides {
		s.contexts.Set(key, value)
	}

	writeJSON(w, http.StatusOK, map[string]any{"context": s.contexts.Snapshot()})
}

// handleClearOverride removes a single manual override by key.
func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	if s.contexts == nil {
		writeInternalError(w, "context provider not configured")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" || len(key) > maxQueryParamLen {
		writeBadRequest(w, "invalid override key")
		return
	}

	s.contexts.Clear(key)
	w.WriteHeader(http.StatusNoContent)
}

// addMeetingRequest is the request body for POST /context/meetings.
type addMeetingRequest struct {
	StartAt string `json:"start_at"`
}

// handleAddMeeting registers an upcoming meeting on the schedule used by
// the meeting_soon condition.
func (s *Server) handleAddMeeting(w http.ResponseWriter, r *http.Request) {
	if s.meetings == nil {
		writeInternalError(w, "meeting schedule not configured")
		return
	}

	var req addMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		writeBadRequest(w, "start_at must be an RFC 3339 timestamp")
		return
	}

	s.meetings.Add(start)
	writeJSON(w, http.StatusCreated, map[string]any{"start_at": start.Format(time.RFC3339)})
}
