// Package notify holds the shared domain model of the dispatch pipeline:
// channels, event types, notifications, deliveries, preference rows, and the
// error taxonomy callers branch on.
//
// The types here are plain data. Behavior lives in the packages that own it:
// eventreg validates event types, preferences resolves enabled channels,
// dispatch creates notification and delivery rows, delivery tracks status
// transitions, and channel sends over the wire.
package notify
