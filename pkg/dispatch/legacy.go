package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// SimpleRequest is the input of the legacy convenience path. It predates
// templates and idempotency keys and is kept for callers that only need a
// fixed in-app message per event type.
type SimpleRequest struct {
	Type    string         `json:"type"`
	UserID  string         `json:"user_id"`
	Payload map[string]any `json:"payload,omitempty"`
}

// simpleCopy is the closed set of event types the legacy path knows how to
// phrase. Anything else is rejected.
var simpleCopy = map[string]Content{
	EventMockSubmitted: {
		Title: "Mock Test Submitted",
		Body:  "Your mock test has been submitted. Results will be ready shortly.",
	},
	EventBandImproved: {
		Title: "Band Score Improved",
		Body:  "Great progress! Your band score has improved since your last mock.",
	},
	EventStreakWarning: {
		Title: "Streak Warning",
		Body:  "Your study streak is about to break. Complete a task today to keep it.",
	},
	EventStudyReminder: {
		Title: "Study Reminder",
		Body:  "Time for your daily practice session.",
	},
	EventPaymentReceived: {
		Title: "Payment Received",
		Body:  "We have received your payment. Thank you!",
	},
}

// DispatchSimple writes one in-app notification with fixed copy for a small
// closed set of event types. It is a lower-guarantee wrapper over the same
// notifications table: no idempotency, no templates, no preference fan-out.
// The corresponding event row is appended best effort and a failure there
// never fails the call.
func (d *Dispatcher) DispatchSimple(ctx context.Context, req SimpleRequest) (*Notification, error) {
	if req.UserID == "" {
		return nil, ErrEmptyUserID
	}
	content, ok := simpleCopy[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, req.Type)
	}

	now := d.now()
	notif := Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Title:     content.Title,
		Body:      content.Body,
		URL:       stringField(req.Payload, "url"),
		EventKey:  req.Type,
		Channel:   ChannelInApp,
		CreatedAt: now,
	}
	if err := d.storage.InsertNotification(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	// Fire-and-forget ledger append so the event still shows up in audits.
	event := Event{
		ID:        uuid.New(),
		UserID:    req.UserID,
		EventKey:  req.Type,
		Payload:   req.Payload,
		CreatedAt: now,
	}
	if err := d.storage.InsertEvent(ctx, event); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to append event for simple dispatch, notification is persisted",
			logger.EventKey(req.Type),
			logger.UserID(req.UserID),
			logger.Error(err),
		)
	}

	if err := d.deliverer.Deliver(ctx, notif); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to deliver notification in real time, row is persisted",
			slog.String("notification_id", notif.ID.String()),
			logger.UserID(req.UserID),
			logger.Error(err),
		)
	}

	return &notif, nil
}
