package dispatch

import "context"

// EventStore persists the append-only event ledger.
type EventStore interface {
	// InsertEvent stores a new event. Implementations must enforce
	// uniqueness of non-nil idempotency keys and return
	// ErrDuplicateIdempotencyKey (possibly wrapped) on collision.
	InsertEvent(ctx context.Context, event Event) error

	// FindEventByIdempotencyKey returns the event recorded under the given
	// idempotency key, or ErrEventNotFound.
	FindEventByIdempotencyKey(ctx context.Context, key string) (*Event, error)
}

// TemplateStore reads content templates. Template management is out of
// scope for the engine; it only ever loads them.
type TemplateStore interface {
	// ListTemplates returns every template registered for the event key,
	// matching both the current event_key column and the legacy
	// template_key column. An empty result is not an error.
	ListTemplates(ctx context.Context, eventKey string) ([]Template, error)
}

// PreferenceStore reads raw per-user opt-in rows. The rows may arrive in
// any of the legacy shapes; normalization happens in the engine, not here.
type PreferenceStore interface {
	ListPreferences(ctx context.Context, userID string) ([]PreferenceRecord, error)
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	InsertNotification(ctx context.Context, notif Notification) error
}

// DeliveryStore persists per-channel delivery audit rows.
type DeliveryStore interface {
	InsertDelivery(ctx context.Context, delivery Delivery) error
}

// Storage is the full persistence surface the dispatch engine needs.
// Each insert/select is its own atomic unit; the engine never wraps a
// dispatch call in a multi-row transaction.
type Storage interface {
	EventStore
	TemplateStore
	PreferenceStore
	NotificationStore
	DeliveryStore
}
