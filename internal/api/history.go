package api

import (
	"net/http"
	"strconv"
)

// handleListAudit returns recent audit entries. Accepts optional ?type=
// (event type prefix) and ?limit=N query parameters.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	entries, err := s.historySvc.ListAudit(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		s.writeServiceError(w, "list audit history", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleListNotificationLog returns recent notification delivery log entries.
func (s *Server) handleListNotificationLog(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	entries, err := s.historySvc.ListNotifications(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, "list notification log", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// parseLimit reads ?limit=N. Missing means 0, the store default.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	l := r.URL.Query().Get("limit")
	if l == "" {
		return 0, true
	}
	n, err := strconv.Atoi(l)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a number")
		return 0, false
	}
	return n, true
}
