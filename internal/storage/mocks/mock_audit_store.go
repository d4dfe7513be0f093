package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vm75/nginx-manager/internal/models"
	"github.com/vm75/nginx-manager/internal/storage"
)

// MockAuditStore is a mock implementation of storage.AuditStore.
type MockAuditStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockAuditStore) Append(ctx context.Context, entry models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

//nolint:revive
func (m *MockAuditStore) List(ctx context.Context, filter storage.AuditFilter) ([]models.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

//nolint:revive
func (m *MockAuditStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationStore is a mock implementation of storage.NotificationStore.
type MockNotificationStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockNotificationStore) LogNotification(ctx context.Context, entry models.NotificationLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

//nolint:revive
func (m *MockNotificationStore) ListNotifications(ctx context.Context, limit int) ([]models.NotificationLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotificationLogEntry), args.Error(1)
}
