package notify

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the closed state enum of a delivery row.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// Delivery is one attempt-tracked unit of work sending one notification over
// one channel. One row is created per channel enabled at dispatch time;
// rows are never deleted, and only the delivery tracker mutates them.
type Delivery struct {
	ID             uuid.UUID      `json:"id"`
	NotificationID uuid.UUID      `json:"notification_id"`
	Channel        Channel        `json:"channel"`
	Status         DeliveryStatus `json:"status"`
	RetryCount     int            `json:"retry_count"`
	AttemptedAt    *time.Time     `json:"attempted_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Terminal reports whether the delivery reached a final state. Terminal
// deliveries are never transitioned again; re-processing them is a no-op.
func (d *Delivery) Terminal() bool {
	return d.Status == DeliveryStatusSent || d.Status == DeliveryStatusFailed
}

// NewDelivery builds a pending delivery row for a notification and channel.
func NewDelivery(notificationID uuid.UUID, ch Channel) Delivery {
	return Delivery{
		ID:             uuid.New(),
		NotificationID: notificationID,
		Channel:        ch,
		Status:         DeliveryStatusPending,
		CreatedAt:      time.Now(),
	}
}
