package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEmptyUserID is returned when a dispatch request carries no user id.
	ErrEmptyUserID = errors.New("user id is required")

	// ErrEmptyEventKey is returned when a dispatch request carries no event key.
	ErrEmptyEventKey = errors.New("event key is required")

	// ErrUnknownChannel is returned when an explicit channel override does not
	// parse to any supported channel. Unknown names inside a channel list are
	// dropped silently instead.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrUnknownEventType is returned by the legacy simple path for event
	// types outside its closed copy set.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrDuplicateIdempotencyKey is returned by storage implementations when
	// an event insert collides with an existing idempotency key. The store's
	// uniqueness constraint is the sole arbiter of this condition.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrEventNotFound is returned when an event lookup matches nothing.
	ErrEventNotFound = errors.New("event not found")
)

// DuplicateEventError reports that an event with the same idempotency key has
// already been recorded. It is an expected outcome, not a failure: callers
// should treat it as "already processed". ExistingEventID is nil when the
// prior event could not be looked up after the conflict was detected.
type DuplicateEventError struct {
	ExistingEventID *uuid.UUID
}

func (e *DuplicateEventError) Error() string {
	if e.ExistingEventID == nil {
		return "duplicate event"
	}
	return fmt.Sprintf("duplicate event: already recorded as %s", e.ExistingEventID)
}

// IsDuplicateEvent unwraps err into a DuplicateEventError, forcing callers to
// branch on the duplicate case explicitly. The returned id is nil when the
// original event could not be resolved.
func IsDuplicateEvent(err error) (*uuid.UUID, bool) {
	var dup *DuplicateEventError
	if errors.As(err, &dup) {
		return dup.ExistingEventID, true
	}
	return nil, false
}
