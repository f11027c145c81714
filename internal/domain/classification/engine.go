package classification

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
)

// CandidateEngine runs the broad candidate-discovery pass using the
// Aho-Corasick algorithm: all discovery keywords for all statement types are
// matched in a single scan of the page text, independent of pattern count.
// The pass is intentionally over-inclusive; validation prunes the false
// positives (table-of-contents entries, footnote cross-references).
//
// The engine is immutable after construction and safe for concurrent use.
type CandidateEngine struct {
	matcher *ahocorasick.Matcher
	types   []statement.Type // statement type for each pattern index
}

// NewCandidateEngine builds the matcher from the discovery keywords of every
// type in the rule table.
func NewCandidateEngine(rules RuleTable) *CandidateEngine {
	e := &CandidateEngine{}

	var patterns [][]byte
	// Iterate in the fixed type order so pattern indices are deterministic.
	for _, t := range statement.AllTypes() {
		rs, ok := rules[t]
		if !ok {
			continue
		}
		for _, kw := range rs.Keywords {
			kw = strings.ToUpper(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			patterns = append(patterns, []byte(kw))
			e.types = append(e.types, t)
		}
	}

	if len(patterns) > 0 {
		e.matcher = ahocorasick.NewMatcher(patterns)
	}
	return e
}

// Candidates returns the statement types the page is a candidate for, in the
// fixed AllTypes order. A page with no keyword hit returns nil.
func (e *CandidateEngine) Candidates(pageText string) []statement.Type {
	if e.matcher == nil {
		return nil
	}

	hits := e.matcher.Match([]byte(strings.ToUpper(pageText)))
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[statement.Type]bool, len(hits))
	for _, idx := range hits {
		if idx >= 0 && idx < len(e.types) {
			seen[e.types[idx]] = true
		}
	}

	out := make([]statement.Type, 0, len(seen))
	for _, t := range statement.AllTypes() {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}

// PatternCount returns the number of discovery keywords loaded.
func (e *CandidateEngine) PatternCount() int {
	return len(e.types)
}
