package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vm75/nginx-manager/internal/models"
)

// ListAudit returns recent audit entries, newest first. An empty typePrefix
// returns every type and a zero limit uses the server default.
func (c *Client) ListAudit(ctx context.Context, typePrefix string, limit int) ([]models.AuditEntry, error) {
	q := url.Values{}
	if typePrefix != "" {
		q.Set("type", typePrefix)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	resp, err := c.Fetch(ctx, "/api/audit", Options{Query: q})
	if err != nil {
		return nil, fmt.Errorf("audit request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entries []models.AuditEntry
	if err = json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode audit response: %w", err)
	}
	return entries, nil
}

// ListNotifications returns recent alert delivery attempts, newest first.
func (c *Client) ListNotifications(ctx context.Context, limit int) ([]models.NotificationLogEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	resp, err := c.Fetch(ctx, "/api/notifications/log", Options{Query: q})
	if err != nil {
		return nil, fmt.Errorf("notification log request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entries []models.NotificationLogEntry
	if err = json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode notification log response: %w", err)
	}
	return entries, nil
}
