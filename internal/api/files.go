package api

import (
	"net/http"

	"github.com/vm75/nginx-manager/internal/models"
)

var statusOK = models.StatusResponse{Status: "ok"}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("path")
	files, err := s.configSvc.ListFiles(r.Context(), dir)
	if err != nil {
		s.writeServiceError(w, "list files", err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	content, err := s.configSvc.ReadFile(r.Context(), path)
	if err != nil {
		s.writeServiceError(w, "read file", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleWriteFile(w http.ResponseWriter, r *http.Request) {
	var req models.WriteFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.configSvc.WriteFile(r.Context(), req.Path, req.Content); err != nil {
		s.writeServiceError(w, "write file", err)
		return
	}
	writeJSON(w, http.StatusOK, statusOK)
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.configSvc.CreateFile(r.Context(), req.Path, req.IsDir); err != nil {
		s.writeServiceError(w, "create file", err)
		return
	}
	writeJSON(w, http.StatusCreated, statusOK)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.configSvc.DeleteFile(r.Context(), req.Path); err != nil {
		s.writeServiceError(w, "delete file", err)
		return
	}
	writeJSON(w, http.StatusOK, statusOK)
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	var req models.RenameFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.configSvc.RenameFile(r.Context(), req.OldPath, req.NewPath); err != nil {
		s.writeServiceError(w, "rename file", err)
		return
	}
	writeJSON(w, http.StatusOK, statusOK)
}

func (s *Server) handleMoveFile(w http.ResponseWriter, r *http.Request) {
	var req models.MoveFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.configSvc.MoveFile(r.Context(), req.SourcePath, req.TargetPath); err != nil {
		s.writeServiceError(w, "move file", err)
		return
	}
	writeJSON(w, http.StatusOK, statusOK)
}

func (s *Server) handleCreateSymlink(w http.ResponseWriter, r *http.Request) {
	var req models.SymlinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.configSvc.CreateSymlink(r.Context(), req.TargetPath, req.LinkPath); err != nil {
		s.writeServiceError(w, "create symlink", err)
		return
	}
	writeJSON(w, http.StatusCreated, statusOK)
}
