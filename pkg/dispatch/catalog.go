package dispatch

// Well-known event keys produced by the product. The catalog below maps
// symbolic names to these stable identifiers; the strings themselves are
// part of the persisted data contract and must never change.
const (
	EventMockSubmitted          = "mock_submitted"
	EventMockCompletedListening = "mock_completed_listening"
	EventMockCompletedReading   = "mock_completed_reading"
	EventMockCompletedWriting   = "mock_completed_writing"
	EventMockCompletedSpeaking  = "mock_completed_speaking"
	EventBandImproved           = "band_improved"
	EventStreakWarning          = "streak_warning"
	EventStudyReminder          = "study_reminder"
	EventPaymentReceived        = "payment_received"
)

// Catalog is an immutable registry of symbolic event names to stable event
// key strings. It is injected into the Dispatcher instead of living as a
// package-level global so tests and multi-tenant setups can swap it out.
type Catalog struct {
	keys map[string]string
}

// NewCatalog creates a catalog from the given mapping. The map is copied,
// so later mutation of the argument does not affect the catalog.
func NewCatalog(keys map[string]string) *Catalog {
	cp := make(map[string]string, len(keys))
	for name, key := range keys {
		cp[name] = key
	}
	return &Catalog{keys: cp}
}

// DefaultCatalog returns the catalog of event keys the product ships with.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[string]string{
		"MockSubmitted":          EventMockSubmitted,
		"MockCompletedListening": EventMockCompletedListening,
		"MockCompletedReading":   EventMockCompletedReading,
		"MockCompletedWriting":   EventMockCompletedWriting,
		"MockCompletedSpeaking":  EventMockCompletedSpeaking,
		"BandImproved":           EventBandImproved,
		"StreakWarning":          EventStreakWarning,
		"StudyReminder":          EventStudyReminder,
		"PaymentReceived":        EventPaymentReceived,
	})
}

// Resolve returns the stable event key for a symbolic name.
func (c *Catalog) Resolve(name string) (string, bool) {
	key, ok := c.keys[name]
	return key, ok
}

// Contains reports whether the given event key is registered in the catalog.
func (c *Catalog) Contains(eventKey string) bool {
	for _, key := range c.keys {
		if key == eventKey {
			return true
		}
	}
	return false
}

// Keys returns all registered event keys. The result is a fresh slice on
// every call.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.keys))
	for _, key := range c.keys {
		keys = append(keys, key)
	}
	return keys
}
