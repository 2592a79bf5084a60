// Package quiz implements the answer-matching and session state engine:
// text normalization, fuzzy matching, candidate pool building, the per-mode
// round state machine, daily target selection, and scoring.
package quiz

import "strings"

// Normalize canonicalizes text for comparison: lower-case, keep only
// [a-z0-9]. Applied identically to stored names and player input so
// comparisons are symmetric.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
