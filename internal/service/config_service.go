// Package service implements the business logic layer between HTTP handlers
// and the storage package. All interfaces are designed for easy mocking in
// tests.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vm75/nginx-manager/internal/eventbus"
	"github.com/vm75/nginx-manager/internal/models"
	"github.com/vm75/nginx-manager/internal/storage"
)

// ConfigService defines the business logic for browsing and editing the
// nginx configuration tree.
type ConfigService interface {
	// ListFiles returns the entries of dir. An empty dir lists the root.
	ListFiles(ctx context.Context, dir string) ([]models.FileInfo, error)

	// ReadFile returns the content of a file.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteFile replaces the content of a file, creating it when missing.
	WriteFile(ctx context.Context, path, content string) error

	// CreateFile creates an empty file or a directory.
	CreateFile(ctx context.Context, path string, isDir bool) error

	// DeleteFile removes a file, symlink or directory tree.
	DeleteFile(ctx context.Context, path string) error

	// RenameFile renames oldPath to newPath.
	RenameFile(ctx context.Context, oldPath, newPath string) error

	// MoveFile moves sourcePath into targetPath when it is a directory,
	// or renames it to targetPath otherwise.
	MoveFile(ctx context.Context, sourcePath, targetPath string) error

	// CreateSymlink creates linkPath pointing at targetPath.
	CreateSymlink(ctx context.Context, targetPath, linkPath string) error
}

// configService is the default implementation of ConfigService.
type configService struct {
	store     storage.ConfigStore
	publisher EventPublisher
	logger    *slog.Logger
}

// NewConfigService returns a ConfigService backed by store. publisher may be
// nil when no audit trail is wanted.
func NewConfigService(store storage.ConfigStore, publisher EventPublisher, logger *slog.Logger) ConfigService {
	return &configService{store: store, publisher: publisher, logger: logger}
}

func (s *configService) ListFiles(_ context.Context, dir string) ([]models.FileInfo, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "/"
	}
	files, err := s.store.List(dir)
	if err != nil {
		return nil, mapStoreError("directory", dir, err)
	}
	return files, nil
}

func (s *configService) ReadFile(_ context.Context, path string) (string, error) {
	if err := requirePath("path", path); err != nil {
		return "", err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return "", mapStoreError("file", path, err)
	}
	return string(data), nil
}

func (s *configService) WriteFile(_ context.Context, path, content string) error {
	if err := requirePath("path", path); err != nil {
		return err
	}
	if err := s.store.Write(path, []byte(content)); err != nil {
		return mapStoreError("file", path, err)
	}

	s.logger.Info("config file written", "path", path, "bytes", len(content))
	s.publish(eventbus.ConfigFileWritten, map[string]string{"path": path})
	return nil
}

func (s *configService) CreateFile(_ context.Context, path string, isDir bool) error {
	if err := requirePath("path", path); err != nil {
		return err
	}
	kind := "file"
	if isDir {
		kind = "directory"
	}
	if err := s.store.Create(path, isDir); err != nil {
		return mapStoreError(kind, path, err)
	}

	s.logger.Info("config entry created", "path", path, "kind", kind)
	s.publish(eventbus.ConfigFileCreated, map[string]string{"path": path, "kind": kind})
	return nil
}

func (s *configService) DeleteFile(_ context.Context, path string) error {
	if err := requirePath("path", path); err != nil {
		return err
	}
	if err := s.store.Delete(path); err != nil {
		return mapStoreError("file", path, err)
	}

	s.logger.Info("config entry deleted", "path", path)
	s.publish(eventbus.ConfigFileDeleted, map[string]string{"path": path})
	return nil
}

func (s *configService) RenameFile(_ context.Context, oldPath, newPath string) error {
	if err := requirePath("oldPath", oldPath); err != nil {
		return err
	}
	if err := requirePath("newPath", newPath); err != nil {
		return err
	}
	if err := s.store.Rename(oldPath, newPath); err != nil {
		return mapStoreError("file", oldPath, err)
	}

	s.logger.Info("config entry renamed", "from", oldPath, "to", newPath)
	s.publish(eventbus.ConfigFileRenamed, map[string]string{"from": oldPath, "to": newPath})
	return nil
}

func (s *configService) MoveFile(_ context.Context, sourcePath, targetPath string) error {
	if err := requirePath("sourcePath", sourcePath); err != nil {
		return err
	}
	if err := requirePath("targetPath", targetPath); err != nil {
		return err
	}
	if err := s.store.Move(sourcePath, targetPath); err != nil {
		return mapStoreError("file", sourcePath, err)
	}

	s.logger.Info("config entry moved", "from", sourcePath, "to", targetPath)
	s.publish(eventbus.ConfigFileMoved, map[string]string{"from": sourcePath, "to": targetPath})
	return nil
}

func (s *configService) CreateSymlink(_ context.Context, targetPath, linkPath string) error {
	if err := requirePath("targetPath", targetPath); err != nil {
		return err
	}
	if err := requirePath("linkPath", linkPath); err != nil {
		return err
	}
	if err := s.store.Symlink(targetPath, linkPath); err != nil {
		return mapStoreError("symlink", linkPath, err)
	}

	s.logger.Info("config symlink created", "link", linkPath, "target", targetPath)
	s.publish(eventbus.ConfigSymlinkCreated, map[string]string{"link": linkPath, "target": targetPath})
	return nil
}

func (s *configService) publish(eventType string, payload map[string]string) {
	if s.publisher != nil {
		s.publisher.Publish(eventType, payload)
	}
}

func requirePath(field, p string) error {
	if strings.TrimSpace(p) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// mapStoreError converts storage sentinels into the typed errors the API
// layer understands. Anything else is wrapped unchanged.
func mapStoreError(resource, p string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &NotFoundError{Resource: resource, ID: p}
	case errors.Is(err, storage.ErrExists):
		return &ConflictError{Resource: resource, ID: p}
	case errors.Is(err, storage.ErrOutsideRoot):
		return &ForbiddenError{Path: p}
	case errors.Is(err, storage.ErrIsDir):
		return &ValidationError{Field: "path", Message: fmt.Sprintf("%q is a directory", p)}
	case errors.Is(err, storage.ErrIntoSelf):
		return &ValidationError{Field: "path", Message: fmt.Sprintf("%q cannot be moved into itself", p)}
	default:
		return fmt.Errorf("%s %q: %w", resource, p, err)
	}
}
