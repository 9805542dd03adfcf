// internal/app/system/normalize/normalize.go

// Package normalize trims and folds user-supplied identifiers before they
// are compared or persisted. Emails and codes are compared case-insensitively
// throughout the app, so they are folded once at the boundary.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Code uppercases and trims a group join code.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a free-form query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
