package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Dispatcher is the public entry point of the notification dispatch engine.
// It sequences event recording, preference-aware channel resolution, content
// rendering and delivery recording for a single raised domain event.
type Dispatcher struct {
	storage   Storage
	catalog   *Catalog
	deliverer Deliverer
	logger    *slog.Logger
	clock     func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for the Dispatcher.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithDeliverer sets a best-effort real-time deliverer for in-app
// notifications. Delivery failures are logged and never fail a dispatch.
func WithDeliverer(del Deliverer) Option {
	return func(d *Dispatcher) {
		if del != nil {
			d.deliverer = del
		}
	}
}

// WithCatalog replaces the default event catalog.
func WithCatalog(catalog *Catalog) Option {
	return func(d *Dispatcher) {
		if catalog != nil {
			d.catalog = catalog
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// NewDispatcher creates a dispatcher over the given storage.
func NewDispatcher(storage Storage, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		storage:   storage,
		catalog:   DefaultCatalog(),
		deliverer: &NoOpDeliverer{},
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalog returns the event catalog the dispatcher was built with.
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

// DispatchRequest describes one raised domain event.
type DispatchRequest struct {
	UserID   string         `json:"user_id"`
	EventKey string         `json:"event_key"`
	Payload  map[string]any `json:"payload,omitempty"`

	// Channels is an explicit list of channels to attempt. Unknown names
	// are dropped after sms normalization.
	Channels []string `json:"channels,omitempty"`

	// ChannelOverride forces a single channel. Unlike Channels entries, an
	// override that parses to nothing is rejected as malformed input.
	ChannelOverride string `json:"channel_override,omitempty"`

	// IdempotencyKey guarantees at-most-one event row per key value.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// DispatchResult is the structured outcome of one dispatch call.
type DispatchResult struct {
	EventID uuid.UUID `json:"event_id"`

	// Notifications holds the in-app notifications created by this call.
	Notifications []Notification `json:"notifications"`

	// SkippedChannels lists channels dropped because the user's preference
	// disables them. It never reflects delivery failures.
	SkippedChannels []Channel `json:"skipped_channels"`
}

// Dispatch turns one raised domain event into persisted, channel-specific
// notification and delivery rows.
//
// The event row is durably written before any delivery or notification row
// referencing it; a colliding idempotency key surfaces as DuplicateEventError.
// Each insert is its own commit: a failure partway through the per-channel
// loop aborts the call but leaves earlier rows committed.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	if req.UserID == "" {
		return nil, ErrEmptyUserID
	}
	if req.EventKey == "" {
		return nil, ErrEmptyEventKey
	}
	if req.ChannelOverride != "" {
		if _, ok := ParseChannel(req.ChannelOverride); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, req.ChannelOverride)
		}
	}

	payload := req.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	eventID, err := d.appendEvent(ctx, req.UserID, req.EventKey, payload, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	templates, err := d.storage.ListTemplates(ctx, req.EventKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates for %q: %w", req.EventKey, err)
	}

	prefs, err := loadPreferences(ctx, d.storage, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	result := &DispatchResult{
		EventID:         eventID,
		Notifications:   []Notification{},
		SkippedChannels: []Channel{},
	}

	for _, ch := range resolveChannels(req.ChannelOverride, req.Channels, templates) {
		// Preference opt-out skips the channel entirely. The in-app feed is
		// never skippable.
		if !prefs[ch] && ch != ChannelInApp {
			result.SkippedChannels = append(result.SkippedChannels, ch)
			continue
		}

		tpl := templateFor(templates, ch)
		content := renderContent(tpl, req.EventKey, payload)

		notif, err := d.recordDelivery(ctx, ch, eventID, req.UserID, req.EventKey, tpl, content, payload)
		if err != nil {
			// Rows already written by earlier iterations stay committed;
			// the caller only sees the error.
			return nil, err
		}
		if notif != nil {
			result.Notifications = append(result.Notifications, *notif)
		}
	}

	d.deliverRealtime(ctx, result.Notifications)

	d.logger.LogAttrs(ctx, slog.LevelDebug, "Event dispatched",
		logger.EventKey(req.EventKey),
		logger.UserID(req.UserID),
		logger.EventID(eventID),
		slog.Int("notification_count", len(result.Notifications)),
		slog.Int("skipped_count", len(result.SkippedChannels)),
	)

	return result, nil
}

// recordDelivery persists the rows for one resolved channel: an in-app
// notification plus a "sent" delivery row, or a "queued" delivery row for
// channels handled by the external transport worker.
func (d *Dispatcher) recordDelivery(ctx context.Context, ch Channel, eventID uuid.UUID, userID, eventKey string, tpl *Template, content Content, payload map[string]any) (*Notification, error) {
	now := d.now()

	var templateID *uuid.UUID
	if tpl != nil {
		id := tpl.ID
		templateID = &id
	}

	if ch == ChannelInApp {
		notif := Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     content.Title,
			Body:      content.Body,
			URL:       stringField(payload, "url"),
			EventKey:  eventKey,
			Channel:   ChannelInApp,
			CreatedAt: now,
		}
		if err := d.storage.InsertNotification(ctx, notif); err != nil {
			return nil, fmt.Errorf("failed to create in-app notification: %w", err)
		}

		notifID := notif.ID
		sentAt := now
		delivery := Delivery{
			ID:             uuid.New(),
			EventID:        eventID,
			TemplateID:     templateID,
			Channel:        ChannelInApp,
			Status:         DeliveryStatusSent,
			AttemptCount:   1,
			NotificationID: &notifID,
			CreatedAt:      now,
			SentAt:         &sentAt,
		}
		if err := d.storage.InsertDelivery(ctx, delivery); err != nil {
			return nil, fmt.Errorf("failed to record in-app delivery: %w", err)
		}
		return &notif, nil
	}

	// Hand-off point: the transport worker picks up queued rows and owns
	// status, attempt count and error from here on.
	delivery := Delivery{
		ID:           uuid.New(),
		EventID:      eventID,
		TemplateID:   templateID,
		Channel:      ch,
		Status:       DeliveryStatusQueued,
		AttemptCount: 0,
		Metadata: map[string]any{
			"title": content.Title,
			"body":  content.Body,
		},
		CreatedAt: now,
	}
	if err := d.storage.InsertDelivery(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to queue %s delivery: %w", ch, err)
	}
	return nil, nil
}

// deliverRealtime pushes freshly created in-app notifications to live
// subscribers. Best effort: the rows are already persisted, so a delivery
// failure is logged and swallowed.
func (d *Dispatcher) deliverRealtime(ctx context.Context, notifs []Notification) {
	if d.deliverer == nil || len(notifs) == 0 {
		return
	}
	if err := d.deliverer.DeliverBatch(ctx, notifs); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to deliver notifications in real time, rows are persisted",
			slog.Int("notification_count", len(notifs)),
			logger.Error(err),
		)
	}
}

// stringField returns payload[key] when it is a non-empty string.
func stringField(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}
