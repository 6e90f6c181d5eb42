package service

import "strings"

// normalizeText canonicalizes free text for comparison: lower-case, trim,
// collapse every whitespace run to a single space. Idempotent, so
// normalizing twice is the same as normalizing once.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
