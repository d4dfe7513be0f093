package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vm75/nginx-manager/internal/eventbus"
	"github.com/vm75/nginx-manager/internal/models"
	"github.com/vm75/nginx-manager/internal/storage"
)

// MaxHistoryLimit caps a single page of audit or notification history.
const MaxHistoryLimit = 500

// HistoryService exposes the persisted audit trail and notification log.
type HistoryService interface {
	// ListAudit returns the newest audit entries first. typePrefix filters by
	// event type, e.g. "nginx." or "config.file.written".
	ListAudit(ctx context.Context, typePrefix string, limit int) ([]models.AuditEntry, error)

	// ListNotifications returns the newest delivery attempts first.
	ListNotifications(ctx context.Context, limit int) ([]models.NotificationLogEntry, error)

	// Prune removes audit entries older than retention.
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

type historyService struct {
	audit         storage.AuditStore
	notifications storage.NotificationStore
	logger        *slog.Logger
}

// NewHistoryService returns a HistoryService over the given stores.
func NewHistoryService(audit storage.AuditStore, notifications storage.NotificationStore, logger *slog.Logger) HistoryService {
	return &historyService{audit: audit, notifications: notifications, logger: logger}
}

func (s *historyService) ListAudit(ctx context.Context, typePrefix string, limit int) ([]models.AuditEntry, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	entries, err := s.audit.List(ctx, storage.AuditFilter{TypePrefix: typePrefix, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("listing audit history: %w", err)
	}
	return entries, nil
}

func (s *historyService) ListNotifications(ctx context.Context, limit int) ([]models.NotificationLogEntry, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	entries, err := s.notifications.ListNotifications(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notification log: %w", err)
	}
	return entries, nil
}

func (s *historyService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, &ValidationError{Field: "retention", Message: "retention must be positive"}
	}
	n, err := s.audit.Prune(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("audit history pruned", "removed", n, "retention", retention.String())
	}
	return n, nil
}

func checkLimit(limit int) error {
	if limit < 0 || limit > MaxHistoryLimit {
		return &ValidationError{Field: "limit", Message: fmt.Sprintf("limit must be between 0 and %d", MaxHistoryLimit)}
	}
	return nil
}

// AuditRecorder returns an event bus listener that persists every event to
// store. Write failures are logged and otherwise ignored.
func AuditRecorder(store storage.AuditStore, logger *slog.Logger) eventbus.Listener {
	return func(e eventbus.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := store.Append(ctx, models.AuditEntry{
			ID:        e.ID,
			Type:      e.Type,
			Payload:   e.Payload,
			CreatedAt: e.Timestamp,
		})
		if err != nil {
			logger.Error("failed to persist audit event", "event", e.Type, "event_id", e.ID, "error", err)
		}
	}
}
