package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vm75/nginx-manager/internal/eventbus"
	"github.com/vm75/nginx-manager/internal/models"
	"github.com/vm75/nginx-manager/internal/storage"
)

const sendTimeout = 30 * time.Second

// Handler turns failed nginx commands into alerts and records every
// delivery attempt in the notification log. It alerts once when a command
// starts failing; repeated failures stay quiet until a success is seen.
type Handler struct {
	provider Provider
	store    storage.NotificationStore
	logger   *slog.Logger

	mu      sync.Mutex
	failing map[string]bool // by event type
}

// NewHandler creates a Handler delivering through provider.
func NewHandler(provider Provider, store storage.NotificationStore, logger *slog.Logger) *Handler {
	return &Handler{
		provider: provider,
		store:    store,
		logger:   logger,
		failing:  make(map[string]bool),
	}
}

// Listener adapts the handler to the event bus.
func (h *Handler) Listener() eventbus.Listener {
	return h.Handle
}

// humanSubject returns a readable subject for an alerting event type.
func humanSubject(eventType string) string {
	switch eventType {
	case eventbus.NginxTested:
		return "nginx configuration test failed"
	case eventbus.NginxReloaded:
		return "nginx reload failed"
	}
	return eventType
}

// shouldNotify records the outcome of an nginx command and is true only
// when it turns a passing command into a failing one. Config edits never
// alert.
func (h *Handler) shouldNotify(e eventbus.Event) bool {
	if e.Type != eventbus.NginxTested && e.Type != eventbus.NginxReloaded {
		return false
	}
	failed := e.Payload["success"] == "false"

	h.mu.Lock()
	defer h.mu.Unlock()
	wasFailing := h.failing[e.Type]
	h.failing[e.Type] = failed
	return failed && !wasFailing
}

// rearm lets the next failure of eventType alert again.
func (h *Handler) rearm(eventType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.failing, eventType)
}

func buildBody(e eventbus.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command: %s\n", e.Payload["cmd"])
	fmt.Fprintf(&b, "Time:    %s\n", e.Timestamp.Format(time.RFC3339))
	if out := strings.TrimSpace(e.Payload["output"]); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
		b.WriteString("\n")
	}
	return b.String()
}

// Handle sends an alert for e when it describes a newly failing nginx
// command.
func (h *Handler) Handle(e eventbus.Event) {
	if !h.shouldNotify(e) {
		return
	}

	subject := buildSubject(humanSubject(e.Type))
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	sendErr := h.provider.Send(ctx, Message{Subject: subject, Body: buildBody(e)})

	entry := models.NotificationLogEntry{
		EventType: e.Type,
		Provider:  h.provider.Name(),
		Subject:   subject,
		Status:    models.NotificationSent,
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.ErrorMsg = sendErr.Error()
		h.rearm(e.Type)
		h.logger.Error("notification delivery failed", "event", e.Type, "event_id", e.ID, "error", sendErr)
	} else {
		h.logger.Info("notification sent", "event", e.Type, "event_id", e.ID, "provider", entry.Provider)
	}

	logCtx, logCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer logCancel()
	if logErr := h.store.LogNotification(logCtx, entry); logErr != nil {
		h.logger.Error("failed to log notification delivery", "event", e.Type, "error", logErr)
	}
}
