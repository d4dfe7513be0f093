package storage

import (
	"context"
	"time"

	"github.com/vm75/nginx-manager/internal/models"
)

// AuditFilter narrows an audit history query. A zero Limit means the store's
// default page size.
type AuditFilter struct {
	// TypePrefix keeps events whose type starts with it, e.g. "nginx.".
	TypePrefix string
	Limit      int
}

// AuditStore persists the audit trail of config and nginx operations.
type AuditStore interface {
	// Append stores one event. Appending an ID twice is a no-op.
	Append(ctx context.Context, entry models.AuditEntry) error
	// List returns the newest entries first.
	List(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error)
	// Prune deletes entries created before cutoff and reports how many went.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}
