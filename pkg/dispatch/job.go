package dispatch

import "github.com/google/uuid"

// DeliverJob is the queue payload for one delivery attempt. It carries
// only the delivery ID: the worker reloads the row on every run, so a
// replayed or duplicated job sees current state instead of a stale
// snapshot.
type DeliverJob struct {
	DeliveryID uuid.UUID `json:"delivery_id"`
}
