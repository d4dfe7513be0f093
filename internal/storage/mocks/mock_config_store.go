package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/vm75/nginx-manager/internal/models"
)

// MockConfigStore is a mock implementation of storage.ConfigStore.
type MockConfigStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockConfigStore) List(dir string) ([]models.FileInfo, error) {
	args := m.Called(dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FileInfo), args.Error(1)
}

//nolint:revive
func (m *MockConfigStore) Read(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

//nolint:revive
func (m *MockConfigStore) Write(path string, content []byte) error {
	args := m.Called(path, content)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigStore) Create(path string, isDir bool) error {
	args := m.Called(path, isDir)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigStore) Delete(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigStore) Rename(oldPath, newPath string) error {
	args := m.Called(oldPath, newPath)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigStore) Move(src, target string) error {
	args := m.Called(src, target)
	return args.Error(0)
}

//nolint:revive
func (m *MockConfigStore) Symlink(target, linkPath string) error {
	args := m.Called(target, linkPath)
	return args.Error(0)
}
