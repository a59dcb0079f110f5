package dispatch

// resolveChannels combines the caller's explicit channel hints with the
// channels implied by the loaded templates into the final set to attempt.
//
// Priority: the single override channel first, then every valid name from
// the caller's channel list. Only when both produce nothing do the templates
// become the signal for what this event type normally sends to. The in-app
// channel is always included regardless of input, and anything outside the
// supported enum is dropped.
//
// The returned slice follows the canonical channel order so fan-out is
// deterministic.
func resolveChannels(override string, list []string, templates []Template) []Channel {
	selected := make(map[Channel]bool, len(AllChannels))

	if override != "" {
		if ch, ok := ParseChannel(override); ok {
			selected[ch] = true
		}
	}
	for _, name := range list {
		if ch, ok := ParseChannel(name); ok {
			selected[ch] = true
		}
	}

	// No explicit caller preference: fall back to template-implied channels.
	if len(selected) == 0 {
		for _, tpl := range templates {
			if tpl.Channel.Valid() {
				selected[tpl.Channel] = true
			}
		}
	}

	selected[ChannelInApp] = true

	resolved := make([]Channel, 0, len(selected))
	for _, ch := range AllChannels {
		if selected[ch] {
			resolved = append(resolved, ch)
		}
	}
	return resolved
}

// templateFor returns the first template registered for the channel, or nil.
func templateFor(templates []Template, ch Channel) *Template {
	for i := range templates {
		if templates[i].Channel == ch {
			return &templates[i]
		}
	}
	return nil
}
