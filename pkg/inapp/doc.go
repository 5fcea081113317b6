// Package inapp pushes notifications to connected clients in real time.
//
// The in_app channel persists a notification row first and then
// publishes through a Hub so open clients see it immediately. Push is
// best effort: a user with no active subscriptions still finds the
// notification in their feed, so dropped messages never lose data.
//
// Two implementations are provided. MemoryHub serves tests and
// single-process deployments:
//
//	hub := inapp.NewMemoryHub()
//	sub, err := hub.Subscribe(ctx, userID)
//	for n := range sub.Receive() {
//	    // forward to the client over SSE or a websocket
//	}
//
// RedisHub bridges processes with Redis pub/sub, one channel per user,
// so delivery workers and the API tier can run separately.
package inapp
