package notify

import "context"

// User carries the contact fields the channel backends need. Identity is
// owned by the host application's auth subsystem; this package only consumes
// it through UserDirectory.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// UserDirectory resolves user contact details at delivery time. Returns
// ErrUserNotFound for unknown identifiers.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
}
