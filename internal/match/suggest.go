package match

import "strings"

// MinSimilarity is the lowest similarity Suggest accepts.
const MinSimilarity = 0.5

// Suggest returns the candidate closest to word, compared case-insensitively.
// Ties go to the earlier candidate. It reports false when no candidate
// reaches MinSimilarity or word is itself a candidate.
func Suggest(word string, candidates []string) (string, bool) {
	lw := strings.ToLower(word)

	best, bestScore := "", 0.0

	for _, c := range candidates {
		if c == word {
			return "", false
		}

		score := Similarity(lw, strings.ToLower(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < MinSimilarity {
		return "", false
	}

	return best, true
}
