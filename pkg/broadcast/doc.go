// Package broadcast provides type-safe fan-out of messages to multiple
// subscribers.
//
// Two implementations are available: MemoryBroadcaster for single-process
// setups and RedisBroadcaster, which relays messages through Redis pub/sub
// so subscribers on every instance receive them. Both drop messages for
// slow consumers instead of blocking the publisher.
//
// # Usage
//
//	bc := broadcast.NewMemoryBroadcaster[dispatch.Notification](64)
//	defer bc.Close()
//
//	sub := bc.Subscribe(ctx)
//	go func() {
//		for msg := range sub.Receive(ctx) {
//			render(msg.Data)
//		}
//	}()
//
//	_ = bc.Broadcast(ctx, broadcast.Message[dispatch.Notification]{Data: notif})
package broadcast
