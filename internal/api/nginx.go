package api

import (
	"net/http"
)

// A failed "nginx -t" is still a 200: the result body carries success=false
// and nginx's own diagnostics.
func (s *Server) handleNginxTest(w http.ResponseWriter, r *http.Request) {
	result, err := s.nginxSvc.Test(r.Context())
	if err != nil {
		s.writeServiceError(w, "test nginx config", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNginxReload(w http.ResponseWriter, r *http.Request) {
	result, err := s.nginxSvc.Reload(r.Context())
	if err != nil {
		s.writeServiceError(w, "reload nginx", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
