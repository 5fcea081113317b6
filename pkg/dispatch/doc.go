// Package dispatch fans application events out into notifications and
// queued channel deliveries.
//
// The Dispatcher is the write path: it resolves the event type, renders
// content once, and per target user writes a notification plus one
// pending delivery per channel their preferences allow, then enqueues a
// DeliverJob for each delivery.
//
//	dispatcher, err := dispatch.NewDispatcher(events, resolver, templates, storage, enqueuer, cfg)
//	ids, err := dispatcher.Dispatch(ctx, "new_comment", map[string]any{
//	    "post_title":   "Go Generics",
//	    "commenter":    "alice",
//	    "comment_text": "great post",
//	}, []string{"user-1", "user-2"})
//
// The Deliverer consumes those jobs. A send either marks the delivery
// sent, fails it permanently, or schedules another attempt with
// exponential backoff; the delivery row carries the retry state, so
// replayed jobs are harmless no-ops once the row is terminal.
//
// The Sweeper closes the gap between commit and enqueue: pending
// deliveries with no recent activity get a fresh job on each sweep.
package dispatch
