package notify

// Channel identifies a delivery transport. The set is closed: adding a
// transport means adding a constant here and registering a backend for it,
// never touching dispatch logic.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Channels lists all supported channels in a stable order.
var Channels = []Channel{ChannelInApp, ChannelEmail, ChannelSMS}

// Valid reports whether c is one of the supported channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

func (c Channel) String() string {
	return string(c)
}
