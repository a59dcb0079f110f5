package dispatch

// Channel represents a delivery surface for a notification.
type Channel string

const (
	ChannelInApp    Channel = "in_app"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

// AllChannels lists every supported channel in the canonical iteration order.
// The order is stable so that fan-out and test output are deterministic.
var AllChannels = []Channel{ChannelInApp, ChannelEmail, ChannelWhatsApp, ChannelPush}

// Valid reports whether the channel is part of the supported set.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelWhatsApp, ChannelPush:
		return true
	}
	return false
}

// ParseChannel normalizes a raw channel name into a Channel.
// "sms" is accepted as a legacy synonym for the whatsapp channel.
// Unknown names return ok=false and are expected to be dropped by callers.
func ParseChannel(name string) (Channel, bool) {
	switch Channel(name) {
	case ChannelInApp, ChannelEmail, ChannelWhatsApp, ChannelPush:
		return Channel(name), true
	case "sms":
		return ChannelWhatsApp, true
	}
	return "", false
}
