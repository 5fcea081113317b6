package notify

import (
	"time"

	"github.com/google/uuid"
)

// Notification is created exactly once per (target user, triggering event)
// and is immutable after creation except for the read-state fields. Delivery
// bookkeeping lives on the Delivery rows, never here.
type Notification struct {
	ID        uuid.UUID      `json:"id"`
	UserID    string         `json:"user_id"`
	EventType string         `json:"event_type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewNotification builds an unread notification with a fresh ID.
func NewNotification(userID, eventType, title, message string, context map[string]any) Notification {
	return Notification{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Title:     title,
		Message:   message,
		Context:   context,
		CreatedAt: time.Now(),
	}
}

// MarkAsRead flips the read state with the current timestamp.
func (n *Notification) MarkAsRead() {
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}
