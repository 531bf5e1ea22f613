// Package normalize canonicalizes user-entered identifiers before they are
// sent to the backend or compared locally.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role name so comparisons against the session's
// cached roles are stable.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Skill trims a skill name and collapses inner runs of whitespace to a
// single space. Case is preserved; the backend treats skill names as
// case-sensitive labels.
func Skill(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
