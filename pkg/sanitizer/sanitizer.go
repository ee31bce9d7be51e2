// Package sanitizer normalizes untrusted user input before it reaches
// validation or storage.
package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique constraint on the users table agree on a single canonical form.
// Invalid shapes are returned as-is; validation rejects them later.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := strings.Trim(dotRegex.ReplaceAllString(parts[0], "."), ".")
	domain := strings.Trim(parts[1], ".")

	return local + "@" + domain
}

// TrimSpace collapses surrounding whitespace on free-form fields like usernames.
func TrimSpace(s string) string {
	return strings.TrimSpace(s)
}
