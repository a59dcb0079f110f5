package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster broadcasts messages across process boundaries via Redis
// pub/sub. Every instance publishing to the same topic reaches every
// subscriber on every instance, which the in-memory broadcaster cannot do.
//
// Delivery keeps the package contract: best effort, slow local consumers
// drop messages, and Redis pub/sub itself gives no persistence.
type RedisBroadcaster[T any] struct {
	client *redis.Client
	topic  string
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	local  *MemoryBroadcaster[T]
	wg     sync.WaitGroup
	closed bool
}

// RedisOption configures a RedisBroadcaster.
type RedisOption[T any] func(*RedisBroadcaster[T])

// WithRedisLogger sets the logger used for subscription loop errors.
func WithRedisLogger[T any](log *slog.Logger) RedisOption[T] {
	return func(b *RedisBroadcaster[T]) {
		if log != nil {
			b.logger = log
		}
	}
}

// NewRedisBroadcaster creates a broadcaster publishing to the given topic.
// The background subscription loop runs until Close or context cancellation.
func NewRedisBroadcaster[T any](ctx context.Context, client *redis.Client, topic string, bufferSize int, opts ...RedisOption[T]) (*RedisBroadcaster[T], error) {
	b := &RedisBroadcaster[T]{
		client: client,
		topic:  topic,
		logger: slog.Default(),
		local:  NewMemoryBroadcaster[T](bufferSize),
	}
	for _, opt := range opts {
		opt(b)
	}

	sub := client.Subscribe(ctx, topic)
	// Wait for the subscription to be confirmed so messages published right
	// after construction are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, ErrSubscribeFailed{Topic: topic, Err: err}
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	b.wg.Add(1)
	go b.receiveLoop(loopCtx, sub)

	return b, nil
}

func (b *RedisBroadcaster[T]) receiveLoop(ctx context.Context, sub *redis.PubSub) {
	defer b.wg.Done()
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}
			var data T
			if err := json.Unmarshal([]byte(raw.Payload), &data); err != nil {
				b.logger.LogAttrs(ctx, slog.LevelWarn, "Dropping undecodable broadcast message",
					slog.String("topic", b.topic),
					slog.Any("error", err),
				)
				continue
			}
			_ = b.local.Broadcast(ctx, Message[T]{Data: data})
		}
	}
}

// Subscribe registers a local subscriber for messages on the topic,
// including messages published by other instances.
func (b *RedisBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	return b.local.Subscribe(ctx)
}

// Broadcast publishes the message to Redis; the receive loop of every
// instance, including this one, fans it out to local subscribers.
func (b *RedisBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return ErrPublishFailed{Topic: b.topic, Err: err}
	}
	if err := b.client.Publish(ctx, b.topic, payload).Err(); err != nil {
		return ErrPublishFailed{Topic: b.topic, Err: err}
	}
	return nil
}

// Close stops the receive loop and closes all local subscribers.
func (b *RedisBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
	return b.local.Close()
}
