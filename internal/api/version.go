package api

import (
	"net/http"

	"github.com/vm75/nginx-manager/internal/build"
	"github.com/vm75/nginx-manager/internal/models"
)

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.VersionInfo{
		Version:   build.Version,
		Commit:    build.CommitSHA,
		BuildDate: build.BuildDate,
	})
}
