// Package textnorm canonicalizes free-text strings for matching.
//
// Titles, entity names, and query terms all pass through the same
// Normalize function; fuzzy matching is symmetric only because both
// sides share this exact canonical form.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlnumRegex matches every maximal run of characters outside [a-z0-9].
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes text (NFKD) and drops combining marks, so
// "Amélie" and "Amelie" normalize identically.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the canonical form of s: diacritics stripped,
// lowercased, every run of non-alphanumerics collapsed to one space,
// trimmed. It is deterministic, total and idempotent; garbage input
// yields an empty string rather than an error.
func Normalize(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform failures are not actionable here; match on the raw
		// input instead of failing the lookup.
		stripped = s
	}
	lowered := strings.ToLower(stripped)
	spaced := nonAlnumRegex.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(spaced)
}
