// Package htmlsanitize strips dangerous markup from user-supplied rich text
// (gig details, employer descriptions) before it is rendered.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize removes scripts, event handlers, and javascript: URLs while
// keeping common formatting tags.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// SanitizeHTML sanitizes and returns the result as template.HTML so views
// can render the surviving markup.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(policy.Sanitize(s))
}
