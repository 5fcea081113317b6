// Package delivery tracks per-channel delivery attempts for notifications.
//
// Each notification fans out into one delivery row per resolved channel.
// A delivery starts pending and ends either sent or failed; the Tracker
// enforces that terminal rows never change again, no matter how many
// times a worker replays an attempt.
//
//	tracker, err := delivery.NewTracker(delivery.NewPGStorage(pool))
//	if err != nil {
//	    return err
//	}
//
//	_ = tracker.MarkAttempt(ctx, deliveryID)
//	if sendErr := backend.Send(ctx, user, n); sendErr != nil {
//	    outcome, _ := tracker.MarkFailed(ctx, deliveryID, sendErr.Error(), retryable, maxAttempts)
//	    if !outcome.Terminal {
//	        // schedule a retry
//	    }
//	} else {
//	    _ = tracker.MarkSent(ctx, deliveryID)
//	}
//
// Permanent failures (no phone number, hard provider rejection) finalize
// the row without consuming a retry. Retryable failures increment the
// retry count and finalize only when the configured attempt budget is
// exhausted.
package delivery
