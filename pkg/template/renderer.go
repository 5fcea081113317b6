package template

import (
	"fmt"
	"strings"
)

// RenderFunc produces the title and message of a notification from the
// event context. Render functions must be pure: same context in, same
// strings out, no side effects.
type RenderFunc func(context map[string]any) (title, message string, err error)

// Placeholder builds a RenderFunc that expands {key} placeholders in the
// title and message templates from the context map. Every placeholder is
// required: a missing key fails the render, which callers treat as a
// validation error before anything is persisted.
//
//	render := template.Placeholder(
//	    "New Comment on {post_title}",
//	    `{commenter} commented: "{comment_text}"`,
//	)
func Placeholder(titleTemplate, messageTemplate string) RenderFunc {
	return func(context map[string]any) (string, string, error) {
		title, err := expand(titleTemplate, context)
		if err != nil {
			return "", "", err
		}
		message, err := expand(messageTemplate, context)
		if err != nil {
			return "", "", err
		}
		return title, message, nil
	}
}

// Static builds a RenderFunc that ignores the context entirely.
func Static(title, message string) RenderFunc {
	return func(map[string]any) (string, string, error) {
		return title, message, nil
	}
}

// expand replaces {key} occurrences with the stringified context value.
// Braces without a closing counterpart are passed through verbatim.
func expand(tmpl string, context map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String(), nil
		}

		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			b.WriteString(tmpl)
			return b.String(), nil
		}

		key := tmpl[open+1 : open+closing]
		value, ok := context[key]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingContextKey, key)
		}

		b.WriteString(tmpl[:open])
		fmt.Fprintf(&b, "%v", value)
		tmpl = tmpl[open+closing+1:]
	}
}
