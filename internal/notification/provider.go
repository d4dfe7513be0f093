// Package notification alerts operators by email when nginx rejects a
// configuration or fails to reload.
package notification

import "context"

// Message is the content to be delivered by a Provider.
type Message struct {
	Subject string
	Body    string
	// To overrides the provider's configured recipients when set.
	To []string
}

// Provider is the interface for notification delivery backends.
type Provider interface {
	// Name returns the provider identifier (e.g. "smtp").
	Name() string
	// Send delivers the message using the provider's transport.
	Send(ctx context.Context, msg Message) error
}
