package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vm75/nginx-manager/internal/eventbus"
	"github.com/vm75/nginx-manager/internal/models"
	"github.com/vm75/nginx-manager/internal/service"
	servicemocks "github.com/vm75/nginx-manager/internal/service/mocks"
	"github.com/vm75/nginx-manager/internal/storage"
	"github.com/vm75/nginx-manager/internal/storage/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigService_ListFiles(t *testing.T) {
	tests := []struct {
		name      string
		dir       string
		setupMock func(m *mocks.MockConfigStore)
		want      []models.FileInfo
		wantErr   func(t *testing.T, err error)
	}{
		{
			name: "empty dir lists root",
			dir:  "",
			setupMock: func(m *mocks.MockConfigStore) {
				m.On("List", "/").Return([]models.FileInfo{{Name: "nginx.conf", Path: "/nginx.conf"}}, nil)
			},
			want: []models.FileInfo{{Name: "nginx.conf", Path: "/nginx.conf"}},
		},
		{
			name: "lists given dir",
			dir:  "/conf.d",
			setupMock: func(m *mocks.MockConfigStore) {
				m.On("List", "/conf.d").Return([]models.FileInfo{}, nil)
			},
			want: []models.FileInfo{},
		},
		{
			name: "missing dir maps to not found",
			dir:  "/missing",
			setupMock: func(m *mocks.MockConfigStore) {
				m.On("List", "/missing").Return(nil, fmt.Errorf("reading: %w", storage.ErrNotFound))
			},
			wantErr: func(t *testing.T, err error) {
				var nErr *service.NotFoundError
				require.ErrorAs(t, err, &nErr)
				assert.Equal(t, "directory", nErr.Resource)
			},
		},
		{
			name: "traversal maps to forbidden",
			dir:  "../",
			setupMock: func(m *mocks.MockConfigStore) {
				m.On("List", "../").Return(nil, storage.ErrOutsideRoot)
			},
			wantErr: func(t *testing.T, err error) {
				var fErr *service.ForbiddenError
				require.ErrorAs(t, err, &fErr)
				assert.Equal(t, "../", fErr.Path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockConfigStore)
			tt.setupMock(store)
			svc := service.NewConfigService(store, nil, newTestLogger())

			files, err := svc.ListFiles(context.Background(), tt.dir)

			if tt.wantErr != nil {
				tt.wantErr(t, err)
				assert.Nil(t, files)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, files)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestConfigService_ReadFile(t *testing.T) {
	store := new(mocks.MockConfigStore)
	store.On("Read", "/nginx.conf").Return([]byte("events {}\n"), nil)
	store.On("Read", "/conf.d").Return(nil, storage.ErrIsDir)
	svc := service.NewConfigService(store, nil, newTestLogger())

	content, err := svc.ReadFile(context.Background(), "/nginx.conf")
	require.NoError(t, err)
	assert.Equal(t, "events {}\n", content)

	_, err = svc.ReadFile(context.Background(), "/conf.d")
	var vErr *service.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "path", vErr.Field)

	_, err = svc.ReadFile(context.Background(), "  ")
	assert.ErrorAs(t, err, &vErr)
	store.AssertExpectations(t)
}

func TestConfigService_Mutations(t *testing.T) {
	tests := []struct {
		name      string
		call      func(svc service.ConfigService) error
		setupMock func(m *mocks.MockConfigStore)
		event     string
		payload   map[string]string
	}{
		{
			name:      "write",
			call:      func(svc service.ConfigService) error { return svc.WriteFile(context.Background(), "/nginx.conf", "x") },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Write", "/nginx.conf", []byte("x")).Return(nil) },
			event:     eventbus.ConfigFileWritten,
			payload:   map[string]string{"path": "/nginx.conf"},
		},
		{
			name:      "create dir",
			call:      func(svc service.ConfigService) error { return svc.CreateFile(context.Background(), "/conf.d", true) },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Create", "/conf.d", true).Return(nil) },
			event:     eventbus.ConfigFileCreated,
			payload:   map[string]string{"path": "/conf.d", "kind": "directory"},
		},
		{
			name:      "create file",
			call:      func(svc service.ConfigService) error { return svc.CreateFile(context.Background(), "/a.conf", false) },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Create", "/a.conf", false).Return(nil) },
			event:     eventbus.ConfigFileCreated,
			payload:   map[string]string{"path": "/a.conf", "kind": "file"},
		},
		{
			name:      "delete",
			call:      func(svc service.ConfigService) error { return svc.DeleteFile(context.Background(), "/a.conf") },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Delete", "/a.conf").Return(nil) },
			event:     eventbus.ConfigFileDeleted,
			payload:   map[string]string{"path": "/a.conf"},
		},
		{
			name: "rename",
			call: func(svc service.ConfigService) error {
				return svc.RenameFile(context.Background(), "/a.conf", "/b.conf")
			},
			setupMock: func(m *mocks.MockConfigStore) { m.On("Rename", "/a.conf", "/b.conf").Return(nil) },
			event:     eventbus.ConfigFileRenamed,
			payload:   map[string]string{"from": "/a.conf", "to": "/b.conf"},
		},
		{
			name:      "move",
			call:      func(svc service.ConfigService) error { return svc.MoveFile(context.Background(), "/a.conf", "/conf.d") },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Move", "/a.conf", "/conf.d").Return(nil) },
			event:     eventbus.ConfigFileMoved,
			payload:   map[string]string{"from": "/a.conf", "to": "/conf.d"},
		},
		{
			name: "symlink",
			call: func(svc service.ConfigService) error {
				return svc.CreateSymlink(context.Background(), "/sites-available/a.conf", "/sites-enabled/a.conf")
			},
			setupMock: func(m *mocks.MockConfigStore) {
				m.On("Symlink", "/sites-available/a.conf", "/sites-enabled/a.conf").Return(nil)
			},
			event:   eventbus.ConfigSymlinkCreated,
			payload: map[string]string{"link": "/sites-enabled/a.conf", "target": "/sites-available/a.conf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockConfigStore)
			tt.setupMock(store)
			pub := new(servicemocks.MockEventPublisher)
			pub.On("Publish", tt.event, tt.payload).Return()

			svc := service.NewConfigService(store, pub, newTestLogger())
			require.NoError(t, tt.call(svc))

			store.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestConfigService_MutationErrors(t *testing.T) {
	tests := []struct {
		name      string
		call      func(svc service.ConfigService) error
		setupMock func(m *mocks.MockConfigStore)
		check     func(t *testing.T, err error)
	}{
		{
			name: "empty write path",
			call: func(svc service.ConfigService) error { return svc.WriteFile(context.Background(), "", "x") },
			check: func(t *testing.T, err error) {
				var vErr *service.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "path", vErr.Field)
			},
		},
		{
			name: "empty rename target",
			call: func(svc service.ConfigService) error { return svc.RenameFile(context.Background(), "/a.conf", "") },
			check: func(t *testing.T, err error) {
				var vErr *service.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "newPath", vErr.Field)
			},
		},
		{
			name: "empty symlink link",
			call: func(svc service.ConfigService) error { return svc.CreateSymlink(context.Background(), "/a.conf", "") },
			check: func(t *testing.T, err error) {
				var vErr *service.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "linkPath", vErr.Field)
			},
		},
		{
			name: "create over existing",
			call: func(svc service.ConfigService) error {
				return svc.CreateFile(context.Background(), "/nginx.conf", false)
			},
			setupMock: func(m *mocks.MockConfigStore) { m.On("Create", "/nginx.conf", false).Return(storage.ErrExists) },
			check: func(t *testing.T, err error) {
				var cErr *service.ConflictError
				require.ErrorAs(t, err, &cErr)
				assert.Equal(t, "/nginx.conf", cErr.ID)
			},
		},
		{
			name:      "delete missing",
			call:      func(svc service.ConfigService) error { return svc.DeleteFile(context.Background(), "/gone") },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Delete", "/gone").Return(storage.ErrNotFound) },
			check: func(t *testing.T, err error) {
				var nErr *service.NotFoundError
				assert.ErrorAs(t, err, &nErr)
			},
		},
		{
			name:      "move outside root",
			call:      func(svc service.ConfigService) error { return svc.MoveFile(context.Background(), "/a.conf", "../x") },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Move", "/a.conf", "../x").Return(storage.ErrOutsideRoot) },
			check: func(t *testing.T, err error) {
				var fErr *service.ForbiddenError
				assert.ErrorAs(t, err, &fErr)
			},
		},
		{
			name: "move directory into itself",
			call: func(svc service.ConfigService) error {
				return svc.MoveFile(context.Background(), "/conf.d", "/conf.d/inner")
			},
			setupMock: func(m *mocks.MockConfigStore) {
				m.On("Move", "/conf.d", "/conf.d/inner").Return(storage.ErrIntoSelf)
			},
			check: func(t *testing.T, err error) {
				var vErr *service.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "path", vErr.Field)
			},
		},
		{
			name:      "unexpected error is wrapped",
			call:      func(svc service.ConfigService) error { return svc.WriteFile(context.Background(), "/a.conf", "x") },
			setupMock: func(m *mocks.MockConfigStore) { m.On("Write", "/a.conf", []byte("x")).Return(errors.New("disk full")) },
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "disk full")
				assert.ErrorContains(t, err, "/a.conf")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockConfigStore)
			if tt.setupMock != nil {
				tt.setupMock(store)
			}
			pub := new(servicemocks.MockEventPublisher)

			svc := service.NewConfigService(store, pub, newTestLogger())
			tt.check(t, tt.call(svc))

			store.AssertExpectations(t)
			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestConfigService_WithRealStore(t *testing.T) {
	store, err := storage.NewFSConfigStore(t.TempDir())
	require.NoError(t, err)

	bus := eventbus.New(1, newTestLogger())
	var events []string
	bus.Subscribe(func(e eventbus.Event) { events = append(events, e.Type) })

	svc := service.NewConfigService(store, bus, newTestLogger())
	ctx := context.Background()

	require.NoError(t, svc.CreateFile(ctx, "/sites-available", true))
	require.NoError(t, svc.CreateFile(ctx, "/sites-enabled", true))
	require.NoError(t, svc.WriteFile(ctx, "/sites-available/app.conf", "server {}"))
	require.NoError(t, svc.CreateSymlink(ctx, "/sites-available/app.conf", "/sites-enabled/app.conf"))

	content, err := svc.ReadFile(ctx, "/sites-enabled/app.conf")
	require.NoError(t, err)
	assert.Equal(t, "server {}", content)

	bus.Close()
	assert.Equal(t, []string{
		eventbus.ConfigFileCreated,
		eventbus.ConfigFileCreated,
		eventbus.ConfigFileWritten,
		eventbus.ConfigSymlinkCreated,
	}, events)
}
