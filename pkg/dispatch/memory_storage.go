package dispatch

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing. It emulates the database's unique
// index on the idempotency key, so duplicate detection behaves like the
// Postgres implementation, including under concurrent appends.
type MemoryStorage struct {
	mu            sync.RWMutex
	events        []Event
	eventsByIdem  map[string]int // idempotency key -> index into events
	templates     []Template
	preferences   map[string][]PreferenceRecord // userID -> raw rows
	notifications []Notification
	deliveries    []Delivery
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		eventsByIdem: make(map[string]int),
		preferences:  make(map[string][]PreferenceRecord),
	}
}

func (s *MemoryStorage) InsertEvent(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.IdempotencyKey != nil {
		if _, exists := s.eventsByIdem[*event.IdempotencyKey]; exists {
			return ErrDuplicateIdempotencyKey
		}
		s.eventsByIdem[*event.IdempotencyKey] = len(s.events)
	}
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStorage) FindEventByIdempotencyKey(ctx context.Context, key string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.eventsByIdem[key]
	if !ok {
		return nil, ErrEventNotFound
	}
	// Copy to prevent external mutation of stored data.
	event := s.events[idx]
	return &event, nil
}

func (s *MemoryStorage) ListTemplates(ctx context.Context, eventKey string) ([]Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Template
	for _, tpl := range s.templates {
		if tpl.EventKey == eventKey {
			matched = append(matched, tpl)
		}
	}
	return matched, nil
}

func (s *MemoryStorage) ListPreferences(ctx context.Context, userID string) ([]PreferenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.preferences[userID]
	out := make([]PreferenceRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStorage) InsertNotification(ctx context.Context, notif Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notif.UserID == "" {
		return ErrEmptyUserID
	}
	s.notifications = append(s.notifications, notif)
	return nil
}

func (s *MemoryStorage) InsertDelivery(ctx context.Context, delivery Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deliveries = append(s.deliveries, delivery)
	return nil
}

// SeedTemplate registers a template. Intended for tests and local setups.
func (s *MemoryStorage) SeedTemplate(tpl Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = append(s.templates, tpl)
}

// SeedPreference registers a raw preference row for a user.
func (s *MemoryStorage) SeedPreference(rec PreferenceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[rec.UserID] = append(s.preferences[rec.UserID], rec)
}

// Events returns a copy of all recorded events.
func (s *MemoryStorage) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Notifications returns a copy of all stored notifications, optionally
// filtered by user id.
func (s *MemoryStorage) Notifications(userID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Notification
	for _, n := range s.notifications {
		if userID == "" || n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Deliveries returns a copy of all stored delivery rows, optionally filtered
// by channel.
func (s *MemoryStorage) Deliveries(ch Channel) []Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Delivery
	for _, d := range s.deliveries {
		if ch == "" || d.Channel == ch {
			out = append(out, d)
		}
	}
	return out
}
