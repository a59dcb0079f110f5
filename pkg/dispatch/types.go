package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable ledger record of a single raised domain event.
// Events are append-only: they are never updated or deleted after creation.
type Event struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"user_id"`
	EventKey       string         `json:"event_key"`
	Payload        map[string]any `json:"payload,omitempty"`
	IdempotencyKey *string        `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Template is channel-specific title/body copy for one event key.
// Placeholders in the form {{ dotted.path }} are resolved against the
// event payload at render time.
type Template struct {
	ID            uuid.UUID `json:"id"`
	EventKey      string    `json:"event_key"`
	Channel       Channel   `json:"channel"`
	TitleTemplate string    `json:"title_template"`
	BodyTemplate  string    `json:"body_template"`
}

// Notification is the in-app representation of a dispatched event.
// The dispatch engine creates it with Read=false; the read state is
// mutated later by the notification feed, never by this engine.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	URL       string     `json:"url,omitempty"`
	EventKey  string     `json:"type"`
	Channel   Channel    `json:"channel"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Message returns the notification body. Kept as an accessor because older
// consumers address the body column as "message".
func (n *Notification) Message() string {
	return n.Body
}

// MarkAsRead marks the notification as read with the current timestamp.
func (n *Notification) MarkAsRead() {
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}

// DeliveryStatus represents the lifecycle state of one delivery attempt.
type DeliveryStatus string

const (
	// DeliveryStatusSent marks completed deliveries. In-app deliveries are
	// sent synchronously, so their rows are created in this state.
	DeliveryStatusSent DeliveryStatus = "sent"
	// DeliveryStatusQueued marks deliveries handed off to the external
	// transport worker (email, whatsapp, push).
	DeliveryStatusQueued DeliveryStatus = "queued"
	// DeliveryStatusFailed is set by the transport worker, never by the
	// dispatch engine itself.
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Delivery is the audit record of one attempted send to one channel for
// one event. The engine writes it once; for non-in-app channels the
// transport worker later updates status, attempt count and error.
type Delivery struct {
	ID             uuid.UUID      `json:"id"`
	EventID        uuid.UUID      `json:"event_id"`
	TemplateID     *uuid.UUID     `json:"template_id,omitempty"`
	Channel        Channel        `json:"channel"`
	Status         DeliveryStatus `json:"status"`
	AttemptCount   int            `json:"attempt_count"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	NotificationID *uuid.UUID     `json:"notification_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	Error          *string        `json:"error,omitempty"`
}

// Content is the rendered title/body pair for one channel.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
