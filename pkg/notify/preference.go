package notify

// ChannelPreference holds a user's global per-channel switches, applied when
// no event-specific override exists. At most one row per user; the row is
// created lazily with all channels enabled on first reference so readers
// never deal with absence.
type ChannelPreference struct {
	UserID string `json:"user_id"`
	InApp  bool   `json:"in_app"`
	Email  bool   `json:"email"`
	SMS    bool   `json:"sms"`
}

// DefaultChannelPreference returns the lazy default: all channels enabled.
func DefaultChannelPreference(userID string) ChannelPreference {
	return ChannelPreference{UserID: userID, InApp: true, Email: true, SMS: true}
}

// Enabled reports whether the global switch for ch is on.
func (p ChannelPreference) Enabled(ch Channel) bool {
	switch ch {
	case ChannelInApp:
		return p.InApp
	case ChannelEmail:
		return p.Email
	case ChannelSMS:
		return p.SMS
	}
	return false
}

// EventPreference is a per (user, event type) override. When present, its
// Enabled flag decides whether the event fires for the user at all,
// regardless of the global channel switches.
type EventPreference struct {
	UserID    string `json:"user_id"`
	EventType string `json:"event_type"`
	Enabled   bool   `json:"enabled"`
}
