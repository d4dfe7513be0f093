package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleTailLog returns the end of the nginx access or error log as plain
// text. The file that was read is reported in X-Log-Path.
func (s *Server) handleTailLog(w http.ResponseWriter, r *http.Request) {
	lines := 0
	if l := r.URL.Query().Get("lines"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lines must be a number")
			return
		}
		lines = n
	}

	tail, err := s.logSvc.Tail(r.Context(), chi.URLParam(r, "kind"), lines)
	if err != nil {
		s.writeServiceError(w, "read log", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Log-Path", tail.Path)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(tail.Content))
}

func (s *Server) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := s.certSvc.List(r.Context())
	if err != nil {
		s.writeServiceError(w, "list certificates", err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}
