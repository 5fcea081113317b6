// Package preferences resolves which channels a user receives an event on.
//
// Users carry two layers of preference: global channel toggles (in-app,
// email, SMS) and optional per-event overrides. The channel toggle row is
// created lazily with everything enabled the first time a user is
// resolved, so new users receive notifications without any setup.
//
//	resolver, err := preferences.NewResolver(preferences.NewPGStorage(pool))
//	if err != nil {
//	    return err
//	}
//
//	channels, err := resolver.Resolve(ctx, userID, eventType)
//	if len(channels) == 0 {
//	    // user opted out of this event entirely
//	}
//
// A per-event override wins over the event type's default: disabled
// suppresses the event on every channel, enabled opts in even when the
// event type defaults to off. Without an override, the event type's
// default_enabled flag decides.
package preferences
