package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// BroadcastDeliverer pushes in-app notifications to live per-user feeds
// through the broadcast package. One broadcaster exists per user with an
// active subscription; idle users cost nothing.
type BroadcastDeliverer struct {
	bufferSize      int
	maxBroadcasters int
	logger          *slog.Logger

	mu           sync.RWMutex
	broadcasters map[string]broadcast.Broadcaster[Notification]
	closed       bool
}

// BroadcastDelivererOption configures a BroadcastDeliverer.
type BroadcastDelivererOption func(*BroadcastDeliverer)

// WithBroadcastLogger sets the logger for the BroadcastDeliverer.
func WithBroadcastLogger(log *slog.Logger) BroadcastDelivererOption {
	return func(b *BroadcastDeliverer) {
		if log != nil {
			b.logger = log
		}
	}
}

// WithMaxBroadcasters caps the number of concurrently tracked users.
// Broadcasts to users beyond the cap are dropped until capacity frees up.
// Default is 10,000.
func WithMaxBroadcasters(limit int) BroadcastDelivererOption {
	return func(b *BroadcastDeliverer) {
		if limit > 0 {
			b.maxBroadcasters = limit
		}
	}
}

// NewBroadcastDeliverer creates a broadcast-based deliverer. bufferSize is
// the per-subscriber channel buffer.
func NewBroadcastDeliverer(bufferSize int, opts ...BroadcastDelivererOption) *BroadcastDeliverer {
	b := &BroadcastDeliverer{
		bufferSize:      bufferSize,
		maxBroadcasters: 10000,
		logger:          slog.Default(),
		broadcasters:    make(map[string]broadcast.Broadcaster[Notification]),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBroadcastDelivererFromConfig creates a deliverer sized per the
// env-driven Config.
func NewBroadcastDelivererFromConfig(cfg Config, opts ...BroadcastDelivererOption) *BroadcastDeliverer {
	opts = append([]BroadcastDelivererOption{WithMaxBroadcasters(cfg.MaxBroadcasters)}, opts...)
	return NewBroadcastDeliverer(cfg.BroadcastBufferSize, opts...)
}

// Subscribe returns a live feed of in-app notifications for the user. The
// subscription ends when the context is cancelled.
func (b *BroadcastDeliverer) Subscribe(ctx context.Context, userID string) broadcast.Subscriber[Notification] {
	bc := b.broadcasterFor(userID, true)
	if bc == nil {
		// Closed deliverer or capacity exhausted: hand out a dead feed
		// instead of failing the caller.
		dead := broadcast.NewMemoryBroadcaster[Notification](1)
		_ = dead.Close()
		return dead.Subscribe(ctx)
	}
	return bc.Subscribe(ctx)
}

// Deliver pushes a notification to the user's live feed, if any.
func (b *BroadcastDeliverer) Deliver(ctx context.Context, notif Notification) error {
	bc := b.broadcasterFor(notif.UserID, false)
	if bc == nil {
		return nil
	}
	return bc.Broadcast(ctx, broadcast.Message[Notification]{Data: notif})
}

// DeliverBatch pushes each notification to its user's feed.
func (b *BroadcastDeliverer) DeliverBatch(ctx context.Context, notifs []Notification) error {
	for _, notif := range notifs {
		if err := b.Deliver(ctx, notif); err != nil {
			b.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to broadcast notification",
				slog.String("notification_id", notif.ID.String()),
				logger.UserID(notif.UserID),
				logger.Error(err),
			)
		}
	}
	return nil
}

// Close shuts down every user broadcaster.
func (b *BroadcastDeliverer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for userID, bc := range b.broadcasters {
		if err := bc.Close(); err != nil {
			b.logger.LogAttrs(context.Background(), slog.LevelError, "Failed to close user broadcaster",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	}
	clear(b.broadcasters)
	return nil
}

// broadcasterFor returns the user's broadcaster. With create=false a missing
// broadcaster means nobody is listening and nil is returned.
func (b *BroadcastDeliverer) broadcasterFor(userID string, create bool) broadcast.Broadcaster[Notification] {
	b.mu.RLock()
	bc, ok := b.broadcasters[userID]
	closed := b.closed
	size := len(b.broadcasters)
	b.mu.RUnlock()

	if ok {
		return bc
	}
	if !create || closed || size >= b.maxBroadcasters {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || len(b.broadcasters) >= b.maxBroadcasters {
		return nil
	}
	if bc, ok := b.broadcasters[userID]; ok {
		return bc
	}
	bc = broadcast.NewMemoryBroadcaster[Notification](b.bufferSize)
	b.broadcasters[userID] = bc
	return bc
}
