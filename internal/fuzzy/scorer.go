// Package fuzzy resolves ambiguous or misspelled user input against
// the known title and entity names. Correction never fails: anything
// scoring below threshold falls back to the uncorrected input, trading
// precision for graceful degradation.
package fuzzy

import (
	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Scorer scores two strings 0-100. Implementations must be symmetric
// and tolerant of word reordering so that matching stays insensitive to
// token order. Injected so tests can pin exact scores.
type Scorer interface {
	Score(a, b string) int
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(a, b string) int

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) int {
	return f(a, b)
}

// TokenSortScorer returns the production scorer: token-sort ratio,
// which sorts each string's tokens before comparing so "wick john"
// still matches "john wick".
func TokenSortScorer() Scorer {
	return ScorerFunc(func(a, b string) int {
		return fuzzywuzzy.TokenSortRatio(a, b)
	})
}

// extractOne returns the best-scoring candidate and its score.
// Candidates must be in deterministic order; ties keep the first seen.
func extractOne(query string, candidates []string, scorer Scorer) (string, int) {
	best := ""
	bestScore := -1
	for _, c := range candidates {
		if s := scorer.Score(query, c); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best, bestScore
}
