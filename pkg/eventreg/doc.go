// Package eventreg manages the catalog of notification event types.
//
// Every dispatch starts with an event type lookup, so the Registry keeps
// a read-through cache over its Storage. Definitions change rarely and
// only through admin operations, which invalidate the cache as they go.
//
//	storage := eventreg.NewPGStorage(pool)
//	registry, err := eventreg.NewRegistry(storage)
//	if err != nil {
//	    return err
//	}
//	if err := registry.Seed(ctx); err != nil {
//	    return err
//	}
//
//	et, err := registry.Lookup(ctx, "new_comment")
//
// Deactivating an event type rejects new dispatches for its code while
// leaving already-created notifications untouched.
package eventreg
