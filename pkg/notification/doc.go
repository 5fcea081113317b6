// Package notification serves the user-facing notification feed.
//
// The Service covers everything a client UI needs: a paged feed, unread
// badge counts, and read-state changes. Notifications are created only
// through dispatch; this package never writes new rows.
//
//	svc, err := notification.NewService(notification.NewPGStorage(pool))
//	if err != nil {
//	    return err
//	}
//
//	feed, err := svc.List(ctx, userID, notification.ListOptions{UnreadOnly: true, Limit: 20})
//	unread, err := svc.CountUnread(ctx, userID)
//	err = svc.MarkRead(ctx, notificationID)
//
// Marking an already-read notification again is a no-op that keeps the
// original read timestamp.
package notification
