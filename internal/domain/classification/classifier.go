// Package classification locates financial statements inside extracted
// document text. A three-phase pass (broad candidate discovery, pattern
// validation and scoring, ambiguity resolution) maps each statement type to
// the page numbers that carry it.
package classification

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/pkg/config"
)

// headerFallbackLines is how many leading lines stand in for the rendered
// header band when no HeaderProvider is attached.
const headerFallbackLines = 5

// HeaderProvider supplies the text of a page's top header band (the title
// region, roughly the top 120 units of the page). Implemented by the
// page-rendering collaborator; optional.
type HeaderProvider interface {
	HeaderText(pageIndex int) (string, error)
}

// Classifier scores candidate pages against the rule table and resolves
// ambiguity across the whole document. It holds only read-only state and is
// safe to share across concurrent classifications.
type Classifier struct {
	rules   RuleTable
	engine  *CandidateEngine
	cal     config.Calibration
	headers HeaderProvider
}

// NewClassifier builds a classifier over the given rule table. headers may
// be nil, in which case the leading lines of each page stand in for the
// header band.
func NewClassifier(rules RuleTable, cal config.Calibration, headers HeaderProvider) *Classifier {
	return &Classifier{
		rules:   rules,
		engine:  NewCandidateEngine(rules),
		cal:     cal,
		headers: headers,
	}
}

// candidate is a validated page with its confidence, transient within one
// Classify call.
type candidate struct {
	pageIndex  int
	confidence float64
}

// Classify maps each statement type to the page indices carrying it. A type
// with no validated page is simply absent from the result; that is a miss,
// not an error.
func (c *Classifier) Classify(pages []string) map[statement.Type][]int {
	validated := c.validate(pages)

	result := make(map[statement.Type][]int)
	for _, t := range statement.AllTypes() {
		cands := validated[t]
		switch {
		case len(cands) == 0:
			continue
		case len(cands) == 1:
			result[t] = []int{cands[0].pageIndex}
		default:
			result[t] = c.resolve(t, cands)
		}
	}
	return result
}

// ClassifyPages returns one classification per page, for callers that need
// the raw confidence (the pipeline's quality gate reads it). A page that
// validates for several types reports the highest-confidence one; a page
// under the unknown floor degrades to Unknown.
func (c *Classifier) ClassifyPages(pages []string) []statement.ClassifiedPage {
	validated := c.validate(pages)

	best := make([]statement.ClassifiedPage, len(pages))
	for i := range pages {
		best[i] = statement.ClassifiedPage{PageIndex: i, Type: statement.Unknown}
	}
	for _, t := range statement.AllTypes() {
		for _, cand := range validated[t] {
			if cand.confidence > best[cand.pageIndex].Confidence {
				best[cand.pageIndex] = statement.ClassifiedPage{
					PageIndex:  cand.pageIndex,
					Type:       t,
					Confidence: cand.confidence,
				}
			}
		}
	}
	for i := range best {
		if best[i].Confidence < c.cal.UnknownFloor {
			best[i].Type = statement.Unknown
		}
	}
	return best
}

// validate runs candidate discovery and per-page scoring for every page.
func (c *Classifier) validate(pages []string) map[statement.Type][]candidate {
	validated := make(map[statement.Type][]candidate)
	for i, text := range pages {
		types := c.engine.Candidates(text)
		if len(types) == 0 {
			continue
		}
		if isTableOfContents(text) || isFootnoteReferencePage(text) {
			continue
		}
		for _, t := range types {
			conf := c.score(t, i, text)
			if conf <= 0 {
				continue
			}
			validated[t] = append(validated[t], candidate{pageIndex: i, confidence: conf})
		}
	}
	return validated
}

// score computes the confidence of one candidate page for one type, or 0
// when any rejection rule fires.
func (c *Classifier) score(t statement.Type, pageIndex int, text string) float64 {
	rs, ok := c.rules[t]
	if !ok {
		return 0
	}

	if countMatching(rs.Primary, text) == 0 {
		return 0
	}
	if countMatching(negativePatterns, text) > c.cal.MaxNegativeMatches {
		return 0
	}
	if countMatching(rs.Required, text) < 1 {
		return 0
	}

	content := countMatching(rs.Content, text)
	if content < rs.MinContentMatches {
		return 0
	}
	structure := countMatching(rs.Structure, text)

	conf := c.cal.BaseScore +
		float64(content)*c.cal.ContentWeight +
		float64(structure)*c.cal.StructureWeight
	if conf > 1 {
		conf = 1
	}

	// The header boost is what lets a true statement page outrank an MD&A
	// summary page that merely mentions the same captions.
	if c.headerContains(pageIndex, text, rs.HeaderPhrases) {
		conf += c.cal.HeaderBoost
		if conf > 1 {
			conf = 1
		}
	}
	return conf
}

// resolve picks the winning page(s) for a type with several validated
// candidates.
func (c *Classifier) resolve(t statement.Type, cands []candidate) []int {
	// A cash-flow statement often continues onto a supplemental-disclosure
	// page; adjacent candidates are kept together.
	if t == statement.CashFlow {
		for i := 0; i < len(cands); i++ {
			for j := i + 1; j < len(cands); j++ {
				if cands[j].pageIndex == cands[i].pageIndex+1 {
					return []int{cands[i].pageIndex, cands[j].pageIndex}
				}
			}
		}
	}

	best := cands[0]
	bestScore := c.positionAdjusted(best)
	for _, cand := range cands[1:] {
		if score := c.positionAdjusted(cand); score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return []int{best.pageIndex}
}

// positionAdjusted applies the tie-break bonus for pages inside the typical
// statement-section range of a filing.
func (c *Classifier) positionAdjusted(cand candidate) float64 {
	pageNumber := cand.pageIndex + 1
	if pageNumber >= c.cal.PositionalRangeLow && pageNumber <= c.cal.PositionalRangeHi {
		return cand.confidence + c.cal.PositionalBonus
	}
	return cand.confidence
}

// headerContains checks the page's header band for one of the canonical
// statement titles. The rendered band is preferred; the page's leading lines
// are the fallback.
func (c *Classifier) headerContains(pageIndex int, text string, phrases []string) bool {
	var band string
	useFallback := c.headers == nil
	if !useFallback {
		h, err := c.headers.HeaderText(pageIndex)
		if err != nil {
			useFallback = true
		} else {
			band = h
		}
	}
	if useFallback {
		lines := strings.SplitN(text, "\n", headerFallbackLines+1)
		if len(lines) > headerFallbackLines {
			lines = lines[:headerFallbackLines]
		}
		band = strings.Join(lines, "\n")
	}

	band = normalizeHeader(band)
	for _, phrase := range phrases {
		if strings.Contains(band, phrase) {
			return true
		}
	}
	return false
}

// normalizeHeader uppercases the band and strips apostrophes so that
// "SHAREHOLDERS' EQUITY" and "SHAREHOLDERS EQUITY" compare equal.
func normalizeHeader(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	return s
}

// countMatching counts how many of the patterns hit the text at least once.
func countMatching(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}
