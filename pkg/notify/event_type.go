package notify

import "time"

// EventType is a data-defined category of occurrence that can trigger
// notifications. The code is the stable identity: once any notification
// references it, the type may be deactivated but never hard-deleted.
type EventType struct {
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Channels       []Channel `json:"channels"`
	DefaultEnabled bool      `json:"default_enabled"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Supports reports whether the event type can be delivered over ch.
func (et EventType) Supports(ch Channel) bool {
	for _, c := range et.Channels {
		if c == ch {
			return true
		}
	}
	return false
}
