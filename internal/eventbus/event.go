package eventbus

import (
	"log/slog"
	"time"
)

// Config audit event types.
const (
	ConfigFileWritten    = "config.file.written"
	ConfigFileCreated    = "config.file.created"
	ConfigFileDeleted    = "config.file.deleted"
	ConfigFileRenamed    = "config.file.renamed"
	ConfigFileMoved      = "config.file.moved"
	ConfigSymlinkCreated = "config.symlink.created"
	NginxTested          = "nginx.tested"
	NginxReloaded        = "nginx.reloaded"
)

// Event represents an application event published to the bus.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload"`
}

// Listener is a function that handles an event.
type Listener func(Event)

// AuditLogger returns a Listener that writes every event to logger.
func AuditLogger(logger *slog.Logger) Listener {
	return func(e Event) {
		attrs := []any{
			slog.String("event_id", e.ID),
			slog.String("event", e.Type),
			slog.Time("at", e.Timestamp),
		}
		for k, v := range e.Payload {
			attrs = append(attrs, slog.String(k, v))
		}
		logger.Info("audit", attrs...)
	}
}
