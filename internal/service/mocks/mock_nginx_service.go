package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vm75/nginx-manager/internal/models"
)

// MockNginxService is a mock implementation of service.NginxService.
type MockNginxService struct {
	mock.Mock
}

//nolint:revive
func (m *MockNginxService) Test(ctx context.Context) (*models.CommandResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommandResult), args.Error(1)
}

//nolint:revive
func (m *MockNginxService) Reload(ctx context.Context) (*models.CommandResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommandResult), args.Error(1)
}

// MockCommandRunner is a mock implementation of service.CommandRunner.
type MockCommandRunner struct {
	mock.Mock
}

//nolint:revive
func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	called := m.Called(ctx, name, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]byte), called.Error(1)
}

// MockEventPublisher is a mock implementation of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

//nolint:revive
func (m *MockEventPublisher) Publish(eventType string, payload map[string]string) {
	m.Called(eventType, payload)
}
