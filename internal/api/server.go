package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vm75/nginx-manager/internal/service"
)

// Server holds all dependencies for the REST API handlers.
type Server struct {
	configSvc  service.ConfigService
	nginxSvc   service.NginxService
	historySvc service.HistoryService
	logSvc     service.LogService
	certSvc    service.CertService
	logger     *slog.Logger
}

// New creates a new API Server backed by the provided services.
func New(
	configSvc service.ConfigService,
	nginxSvc service.NginxService,
	historySvc service.HistoryService,
	logSvc service.LogService,
	certSvc service.CertService,
	logger *slog.Logger,
) *Server {
	return &Server{
		configSvc:  configSvc,
		nginxSvc:   nginxSvc,
		historySvc: historySvc,
		logSvc:     logSvc,
		certSvc:    certSvc,
		logger:     logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Config tree browser
	r.Get("/files", s.handleListFiles)
	r.Get("/file/read", s.handleReadFile)
	r.Post("/file/write", s.handleWriteFile)
	r.Post("/file/create", s.handleCreateFile)
	r.Post("/file/delete", s.handleDeleteFile)
	r.Post("/file/rename", s.handleRenameFile)
	r.Post("/file/move", s.handleMoveFile)
	r.Post("/file/symlink", s.handleCreateSymlink)

	// nginx control
	r.Post("/nginx/test", s.handleNginxTest)
	r.Post("/nginx/reload", s.handleNginxReload)
	r.Get("/logs/{kind}", s.handleTailLog)
	r.Get("/certificates", s.handleListCertificates)

	// History
	r.Get("/audit", s.handleListAudit)
	r.Get("/notifications/log", s.handleListNotificationLog)

	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// MaxRequestBody caps JSON request bodies, including file content sent to
// /file/write.
const MaxRequestBody = 10 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", MaxRequestBody))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps the service layer's typed errors onto HTTP statuses.
// Untyped errors are logged and reported as a generic failure of op.
func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	var (
		ve  *service.ValidationError
		nfe *service.NotFoundError
		ce  *service.ConflictError
		fe  *service.ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &fe):
		writeError(w, http.StatusForbidden, fe.Error())
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, nfe.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Error())
	default:
		s.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
