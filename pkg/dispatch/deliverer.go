package dispatch

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Deliverer pushes persisted in-app notifications to live consumers
// (websocket feeds, SSE streams). Delivery here is best effort by contract:
// the rows are durable before Deliver is ever called.
type Deliverer interface {
	// Deliver pushes a single notification.
	Deliver(ctx context.Context, notif Notification) error

	// DeliverBatch pushes multiple notifications.
	DeliverBatch(ctx context.Context, notifs []Notification) error
}

// MultiDeliverer fans out to several deliverers, logging failures without
// interrupting the remaining ones.
type MultiDeliverer struct {
	deliverers []Deliverer
	logger     *slog.Logger
}

// MultiDelivererOption configures a MultiDeliverer.
type MultiDelivererOption func(*MultiDeliverer)

// WithMultiDelivererLogger sets the logger for the MultiDeliverer.
func WithMultiDelivererLogger(log *slog.Logger) MultiDelivererOption {
	return func(m *MultiDeliverer) {
		if log != nil {
			m.logger = log
		}
	}
}

// NewMultiDeliverer creates a deliverer that forwards to all given deliverers.
func NewMultiDeliverer(deliverers []Deliverer, opts ...MultiDelivererOption) *MultiDeliverer {
	m := &MultiDeliverer{
		deliverers: deliverers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MultiDeliverer) Deliver(ctx context.Context, notif Notification) error {
	for i, del := range m.deliverers {
		if err := del.Deliver(ctx, notif); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "Deliverer failed",
				slog.String("notification_id", notif.ID.String()),
				logger.UserID(notif.UserID),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
		}
	}
	return nil
}

func (m *MultiDeliverer) DeliverBatch(ctx context.Context, notifs []Notification) error {
	for i, del := range m.deliverers {
		if err := del.DeliverBatch(ctx, notifs); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "Deliverer failed on batch",
				slog.Int("notification_count", len(notifs)),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
		}
	}
	return nil
}

// NoOpDeliverer discards every delivery. Used when no real-time surface is
// configured and in tests.
type NoOpDeliverer struct{}

func (n *NoOpDeliverer) Deliver(ctx context.Context, notif Notification) error { return nil }

func (n *NoOpDeliverer) DeliverBatch(ctx context.Context, notifs []Notification) error { return nil }
