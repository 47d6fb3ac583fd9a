// Package cli provides a lightweight CLI framework with colored help,
// subcommand dispatch, and "did you mean?" suggestions.
package cli

import "github.com/lithammer/fuzzysearch/fuzzy"

// levenshtein is the edit distance used to rank candidates.
var levenshtein = fuzzy.LevenshteinDistance

// Suggest returns the best matching candidate for input, or "" if nothing
// ranks as a plausible typo. Candidates are ranked by fuzzy.LevenshteinDistance
// rather than a hand-rolled distance function; on a tie the earlier candidate
// wins.
func Suggest(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		if d := levenshtein(input, c); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	threshold := max(2, len(input)/3)
	if bestDist > threshold {
		return ""
	}
	return best
}
