package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/broadcast"
)

func TestMemoryBroadcaster_SubscribeAndBroadcast(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := b.Subscribe(ctx)
	require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"}))

	select {
	case msg := <-sub.Receive(ctx):
		assert.Equal(t, "hello", msg.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestMemoryBroadcaster_AllSubscribersReceive(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const subscribers = 5
	subs := make([]broadcast.Subscriber[int], subscribers)
	for i := range subs {
		subs[i] = b.Subscribe(ctx)
	}

	require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 42}))

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case msg := <-sub.Receive(ctx):
				assert.Equal(t, 42, msg.Data)
			case <-time.After(time.Second):
				t.Error("subscriber timed out")
			}
		}()
	}
	wg.Wait()
}

func TestMemoryBroadcaster_SlowConsumerDropsMessages(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := b.Subscribe(ctx)

	// The buffer holds one message; further broadcasts must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 10 {
			_ = b.Broadcast(ctx, broadcast.Message[int]{Data: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on slow consumer")
	}

	msg := <-sub.Receive(ctx)
	assert.Equal(t, 0, msg.Data)
}

func TestMemoryBroadcaster_ContextCancelCleansUp(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	cancel()

	// The subscriber channel closes once cleanup runs.
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-sub.Receive(context.Background()):
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("subscriber was not cleaned up after context cancellation")
		}
	}
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](4)

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close()) // idempotent

	_, open := <-sub.Receive(ctx)
	assert.False(t, open)

	// Subscriptions after Close are handed out already closed.
	late := b.Subscribe(ctx)
	_, open = <-late.Receive(ctx)
	assert.False(t, open)

	// Broadcast after Close is a no-op, not a panic.
	assert.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "x"}))
}
