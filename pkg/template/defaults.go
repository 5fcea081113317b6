package template

// Defaults returns a registry preloaded with renderers for the built-in
// event types. Applications extend or override these with Register.
func Defaults(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)

	r.MustRegister("new_comment", Placeholder(
		"New Comment on {post_title}",
		`{commenter} commented: "{comment_text}"`,
	))
	r.MustRegister("unrecognized_login", Placeholder(
		"Unrecognized Login Detected",
		"A login from {location} on {device} was detected at {time}. If this wasn't you, secure your account.",
	))
	r.MustRegister("weekly_summary", Placeholder(
		"Your Weekly Summary",
		"You had {view_count} profile views and {comment_count} new comments this week.",
	))
	r.MustRegister("welcome", Placeholder(
		"Welcome, {name}!",
		"Thanks for joining, {name}. Head over to your profile to get started.",
	))

	return r
}
