// Package dispatch implements the notification dispatch engine: it turns a
// single raised domain event into zero-or-more persisted, channel-specific
// notifications.
//
// One Dispatch call records the event in an append-only ledger, resolves the
// channels to attempt from caller hints, registered templates and the user's
// opt-in preferences, renders title/body content per channel and writes the
// resulting notification and delivery audit rows. The in-app channel is
// always attempted; external channels (email, whatsapp, push) are handed off
// to a transport worker as "queued" delivery rows.
//
// # Guarantees
//
// Exactly-once event recording: a caller-supplied idempotency key maps to at
// most one event row, enforced by the store's uniqueness constraint rather
// than in-process locking. The losing call of a concurrent race receives a
// DuplicateEventError carrying the winner's event id.
//
// Ordering: the event row is durably written before any notification or
// delivery row referencing it. Each insert is its own commit; there is no
// multi-row transaction around a dispatch call, so a failure partway through
// the channel loop leaves earlier rows committed.
//
// Delivery to the external channel providers is explicitly not exactly-once;
// only event recording and delivery-row creation are.
//
// # Usage
//
//	storage := dispatch.NewPostgresStorage(pool)
//	d := dispatch.NewDispatcher(storage,
//		dispatch.WithLogger(log),
//		dispatch.WithDeliverer(dispatch.NewBroadcastDeliverer(64)),
//	)
//
//	res, err := d.Dispatch(ctx, dispatch.DispatchRequest{
//		UserID:         userID,
//		EventKey:       dispatch.EventMockSubmitted,
//		Payload:        map[string]any{"result": map[string]any{"band": 6.5}},
//		IdempotencyKey: attemptID,
//	})
//	if existing, ok := dispatch.IsDuplicateEvent(err); ok {
//		// already processed, existing may carry the prior event id
//		_ = existing
//	}
package dispatch
