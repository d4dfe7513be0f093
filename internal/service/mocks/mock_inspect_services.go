package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vm75/nginx-manager/internal/models"
)

// MockLogService is a mock implementation of service.LogService.
type MockLogService struct {
	mock.Mock
}

//nolint:revive
func (m *MockLogService) Tail(ctx context.Context, kind string, lines int) (*models.LogTail, error) {
	args := m.Called(ctx, kind, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LogTail), args.Error(1)
}

// MockCertService is a mock implementation of service.CertService.
type MockCertService struct {
	mock.Mock
}

//nolint:revive
func (m *MockCertService) List(ctx context.Context) ([]models.CertificateInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CertificateInfo), args.Error(1)
}
