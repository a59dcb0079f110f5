package dispatch

import "context"

// PreferenceRecord is one raw opt-in row as stored. Three generations of the
// schema coexist: the canonical (channel, enabled) pair, boolean opt-in flags
// per channel, and an array of enabled channel names. All of them normalize
// into the same map[Channel]bool before the resolver ever sees them.
type PreferenceRecord struct {
	UserID        string   `json:"user_id"`
	Channel       *string  `json:"channel,omitempty"`
	Enabled       *bool    `json:"enabled,omitempty"`
	EmailOptIn    *bool    `json:"email_opt_in,omitempty"`
	WhatsAppOptIn *bool    `json:"wa_opt_in,omitempty"`
	Channels      []string `json:"channels,omitempty"`
}

// DefaultPreferences returns the opt-in map used when a user has no
// preference rows at all.
func DefaultPreferences() map[Channel]bool {
	return map[Channel]bool{
		ChannelInApp:    true,
		ChannelEmail:    true,
		ChannelWhatsApp: false,
		ChannelPush:     false,
	}
}

// fold applies one raw record onto the preference map.
//
// Canonical rows overwrite their channel's flag. Legacy boolean flags map
// onto email and whatsapp. Entries from a channels array only ever enable a
// channel, never disable one, and never touch in_app. Unrecognized channel
// names are dropped silently.
func (r PreferenceRecord) fold(prefs map[Channel]bool) {
	if r.Channel != nil {
		if ch, ok := ParseChannel(*r.Channel); ok && r.Enabled != nil {
			prefs[ch] = *r.Enabled
		}
	}
	if r.EmailOptIn != nil {
		prefs[ChannelEmail] = *r.EmailOptIn
	}
	if r.WhatsAppOptIn != nil {
		prefs[ChannelWhatsApp] = *r.WhatsAppOptIn
	}
	for _, name := range r.Channels {
		ch, ok := ParseChannel(name)
		if !ok || ch == ChannelInApp {
			continue
		}
		prefs[ch] = true
	}
}

// loadPreferences reads the user's opt-in rows and normalizes every legacy
// shape into one canonical map keyed by channel. Zero rows yield the
// defaults unchanged.
func loadPreferences(ctx context.Context, store PreferenceStore, userID string) (map[Channel]bool, error) {
	prefs := DefaultPreferences()

	records, err := store.ListPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		rec.fold(prefs)
	}
	return prefs, nil
}
