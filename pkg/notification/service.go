package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

const defaultPageSize = 50

// Service is the read side of the notification feed: listing, unread
// counts, and read-state changes. Creation happens only through dispatch.
type Service struct {
	storage Storage
	now     func() time.Time
}

// NewService creates a feed service over the given storage.
func NewService(storage Storage) (*Service, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	return &Service{
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Get returns a notification by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (notify.Notification, error) {
	return s.storage.GetNotification(ctx, id)
}

// List returns a user's notifications, newest first. A zero or negative
// limit falls back to the default page size.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]notify.Notification, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.storage.ListNotifications(ctx, userID, opts)
}

// MarkRead flips a notification to read. Marking an already-read
// notification is a no-op that preserves the original read timestamp.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := s.storage.MarkRead(ctx, id, s.now()); err != nil {
		return fmt.Errorf("mark read %s: %w", id, err)
	}
	return nil
}

// MarkAllRead flips all of a user's unread notifications and returns how
// many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrEmptyUserID
	}
	n, err := s.storage.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark all read for %s: %w", userID, err)
	}
	return n, nil
}

// CountUnread returns the user's unread notification count, for badges.
func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrEmptyUserID
	}
	return s.storage.CountUnread(ctx, userID)
}
