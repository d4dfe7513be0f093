package models

import "time"

// AuditEntry is one persisted audit event: a config mutation or an nginx
// command outcome.
type AuditEntry struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}

// NotificationLogEntry records a single notification delivery attempt.
type NotificationLogEntry struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	Provider  string    `json:"provider"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	ErrorMsg  string    `json:"error_msg"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification delivery statuses.
const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)
