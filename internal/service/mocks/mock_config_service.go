package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vm75/nginx-manager/internal/models"
)

// MockConfigService is a mock implementation of service.ConfigService.
type MockConfigService struct {
	mock.Mock
}

//nolint:revive
func (m *MockConfigService) ListFiles(ctx context.Context, dir string) ([]models.FileInfo, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FileInfo), args.Error(1)
}

//nolint:revive
func (m *MockConfigService) ReadFile(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

//nolint:revive
func (m *MockConfigService) WriteFile(ctx context.Context, path, content string) error {
	args := m.Called(ctx, path, content)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigService) CreateFile(ctx context.Context, path string, isDir bool) error {
	args := m.Called(ctx, path, isDir)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigService) DeleteFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigService) RenameFile(ctx context.Context, oldPath, newPath string) error {
	args := m.Called(ctx, oldPath, newPath)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigService) MoveFile(ctx context.Context, sourcePath, targetPath string) error {
	args := m.Called(ctx, sourcePath, targetPath)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigService) CreateSymlink(ctx context.Context, targetPath, linkPath string) error {
	args := m.Called(ctx, targetPath, linkPath)
	return args.Error(0)
}
