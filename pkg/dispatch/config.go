package dispatch

// Config holds the tunables of the dispatch engine. Values are populated
// from environment variables via the config package.
type Config struct {
	// BroadcastBufferSize is the per-subscriber channel buffer of the
	// real-time deliverer.
	BroadcastBufferSize int `env:"DISPATCH_BROADCAST_BUFFER" envDefault:"64"`

	// MaxBroadcasters caps the number of users with live feeds per instance.
	MaxBroadcasters int `env:"DISPATCH_MAX_BROADCASTERS" envDefault:"10000"`
}
