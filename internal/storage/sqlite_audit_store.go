package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vm75/nginx-manager/internal/models"
)

const defaultAuditLimit = 50

// SQLiteAuditStore implements AuditStore backed by SQLite.
type SQLiteAuditStore struct {
	db *sql.DB
}

// NewSQLiteAuditStore returns a new SQLiteAuditStore.
func NewSQLiteAuditStore(db *sql.DB) *SQLiteAuditStore {
	return &SQLiteAuditStore{db: db}
}

// Append inserts an event. The payload is stored as a JSON object.
func (s *SQLiteAuditStore) Append(ctx context.Context, entry models.AuditEntry) error {
	payload := entry.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding audit payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, type, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		entry.ID, entry.Type, string(raw), entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}

// List returns the most recent events ordered by created_at descending.
func (s *SQLiteAuditStore) List(ctx context.Context, filter AuditFilter) (entries []models.AuditEntry, err error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	query := `SELECT id, type, payload, created_at FROM audit_events`
	args := []any{}
	if filter.TypePrefix != "" {
		query += ` WHERE type LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(filter.TypePrefix)+"%")
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	entries = []models.AuditEntry{}
	for rows.Next() {
		var (
			e   models.AuditEntry
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Type, &raw, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit event row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Payload); err != nil {
			return nil, fmt.Errorf("decoding audit payload of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit event rows: %w", err)
	}
	return entries, nil
}

// Prune deletes events older than cutoff.
func (s *SQLiteAuditStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning audit events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned audit events: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
