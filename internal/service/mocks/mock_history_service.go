package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vm75/nginx-manager/internal/models"
)

// MockHistoryService is a mock implementation of service.HistoryService.
type MockHistoryService struct {
	mock.Mock
}

//nolint:revive
func (m *MockHistoryService) ListAudit(ctx context.Context, typePrefix string, limit int) ([]models.AuditEntry, error) {
	args := m.Called(ctx, typePrefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

//nolint:revive
func (m *MockHistoryService) ListNotifications(ctx context.Context, limit int) ([]models.NotificationLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotificationLogEntry), args.Error(1)
}

//nolint:revive
func (m *MockHistoryService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}
