package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// appendEvent writes one immutable row to the event ledger.
//
// The insert is always attempted; idempotency is delegated entirely to the
// store's uniqueness constraint on the idempotency key, never to in-process
// locking. When two concurrent calls race on the same key, the loser gets
// the constraint violation, resolves the winner's event id and returns a
// DuplicateEventError instead of crashing or double-processing.
func (d *Dispatcher) appendEvent(ctx context.Context, userID, eventKey string, payload map[string]any, idemKey string) (uuid.UUID, error) {
	event := Event{
		ID:        uuid.New(),
		UserID:    userID,
		EventKey:  eventKey,
		Payload:   payload,
		CreatedAt: d.now(),
	}
	if idemKey != "" {
		event.IdempotencyKey = &idemKey
	}

	err := d.storage.InsertEvent(ctx, event)
	if err == nil {
		return event.ID, nil
	}

	if errors.Is(err, ErrDuplicateIdempotencyKey) && idemKey != "" {
		return uuid.Nil, &DuplicateEventError{ExistingEventID: d.lookupExisting(ctx, idemKey)}
	}

	return uuid.Nil, fmt.Errorf("failed to record event %q: %w", eventKey, err)
}

// lookupExisting resolves the event that won the idempotency race. A failed
// or empty lookup yields nil: the duplicate outcome is still reported, just
// without the prior event id.
func (d *Dispatcher) lookupExisting(ctx context.Context, idemKey string) *uuid.UUID {
	existing, err := d.storage.FindEventByIdempotencyKey(ctx, idemKey)
	if err != nil || existing == nil {
		return nil
	}
	id := existing.ID
	return &id
}

// now returns the current time through the injectable clock.
func (d *Dispatcher) now() time.Time {
	return d.clock()
}
