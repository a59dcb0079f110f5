package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliverer_DeliverToSubscriber(t *testing.T) {
	t.Parallel()

	b := NewBroadcastDeliverer(4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := b.Subscribe(ctx, "user-1")
	notif := Notification{ID: uuid.New(), UserID: "user-1", Title: "Hi"}

	require.NoError(t, b.Deliver(ctx, notif))

	select {
	case msg := <-sub.Receive(ctx):
		assert.Equal(t, notif.ID, msg.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestBroadcastDeliverer_NoListenerIsNoOp(t *testing.T) {
	t.Parallel()

	b := NewBroadcastDeliverer(4)
	defer b.Close()

	// Nobody subscribed for this user: delivery is silently dropped.
	err := b.Deliver(context.Background(), Notification{ID: uuid.New(), UserID: "user-2"})
	assert.NoError(t, err)
}

func TestBroadcastDeliverer_DeliverBatchRoutesPerUser(t *testing.T) {
	t.Parallel()

	b := NewBroadcastDeliverer(4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subA := b.Subscribe(ctx, "user-a")
	subB := b.Subscribe(ctx, "user-b")

	notifs := []Notification{
		{ID: uuid.New(), UserID: "user-a", Title: "for a"},
		{ID: uuid.New(), UserID: "user-b", Title: "for b"},
	}
	require.NoError(t, b.DeliverBatch(ctx, notifs))

	select {
	case msg := <-subA.Receive(ctx):
		assert.Equal(t, "for a", msg.Data.Title)
	case <-time.After(time.Second):
		t.Fatal("user-a got nothing")
	}
	select {
	case msg := <-subB.Receive(ctx):
		assert.Equal(t, "for b", msg.Data.Title)
	case <-time.After(time.Second):
		t.Fatal("user-b got nothing")
	}
}

func TestBroadcastDeliverer_ClosedHandsOutDeadFeed(t *testing.T) {
	t.Parallel()

	b := NewBroadcastDeliverer(4)
	require.NoError(t, b.Close())

	sub := b.Subscribe(context.Background(), "user-1")
	_, open := <-sub.Receive(context.Background())
	assert.False(t, open)
}

func TestBroadcastDeliverer_MaxBroadcasters(t *testing.T) {
	t.Parallel()

	b := NewBroadcastDeliverer(4, WithMaxBroadcasters(1))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := b.Subscribe(ctx, "user-1")
	second := b.Subscribe(ctx, "user-2") // over the cap: dead feed

	require.NoError(t, b.Deliver(ctx, Notification{ID: uuid.New(), UserID: "user-1", Title: "Hi"}))

	select {
	case msg := <-first.Receive(ctx):
		assert.Equal(t, "Hi", msg.Data.Title)
	case <-time.After(time.Second):
		t.Fatal("capped-in user got nothing")
	}

	_, open := <-second.Receive(ctx)
	assert.False(t, open)
}
