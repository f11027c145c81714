package consolidation

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity scores how alike two account names are, as a ratio in [0,1].
// It sits behind an interface so the algorithm can be swapped without
// touching the merge-decision logic.
type Similarity interface {
	Ratio(a, b string) float64
}

// LevenshteinSimilarity is the default Similarity: a blend of containment
// checks, normalized Levenshtein distance, and subsequence ranking. It
// catches caption variations like "Net revenue" vs "Net revenues".
type LevenshteinSimilarity struct{}

// Ratio computes the similarity of two names, case-insensitively.
func (LevenshteinSimilarity) Ratio(a, b string) float64 {
	s1 := strings.ToUpper(strings.TrimSpace(a))
	s2 := strings.ToUpper(strings.TrimSpace(b))

	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	// One name containing the other is common for caption variations
	// ("Operating expenses" vs "Total operating expenses").
	if strings.Contains(s1, s2) {
		return 0.75 + 0.25*float64(len(s2))/float64(len(s1))
	}
	if strings.Contains(s2, s1) {
		return 0.75 + 0.25*float64(len(s1))/float64(len(s2))
	}

	maxLen := max(len(s1), len(s2))
	distance := levenshteinDistance(s1, s2)
	levRatio := float64(maxLen-distance) / float64(maxLen)

	// Subsequence rank: rewards names that match early in the candidate.
	seqRatio := 0.0
	if rank := fuzzy.RankMatch(s2, s1); rank >= 0 && rank < len(s1) {
		seqRatio = 0.6 - 0.4*float64(rank)/float64(len(s1))
	}

	return max(levRatio, seqRatio)
}

// levenshteinDistance computes the edit distance between two strings using
// two rolling rows.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
