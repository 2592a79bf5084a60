package quiz

// closeDistance is the edit-distance threshold for a near-miss guess.
const closeDistance = 2

// minFuzzyGuessLen: guesses of this raw length or shorter never fuzzy-match.
const minFuzzyGuessLen = 4

// minFuzzyCapitalLen: capitals with a normalized length at or below this are
// excluded from fuzzy matching, so short names like "Apia" can't be reached
// by two arbitrary edits.
const minFuzzyCapitalLen = 5

// EditDistance returns the Levenshtein distance between a and b, with unit
// cost per insertion, deletion, and substitution. Inputs are expected to be
// normalized already; names are short enough that the full DP table is fine.
func EditDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, min(curr[j-1]+1, prev[j]+1))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
