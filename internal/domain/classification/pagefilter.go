package classification

import (
	"regexp"
	"strings"
)

// Pre-validation page filters. The discovery pass also catches
// table-of-contents entries, index pages, and footnote cross-reference
// pages; these are rejected before scoring.

var (
	tocHeadingRe    = regexp.MustCompile(`(?i)table of contents`)
	dotLeaderRe     = regexp.MustCompile(`(?m)\.{3,}\s*\d{1,4}\s*$`)
	itemMarkerRe    = regexp.MustCompile(`(?im)^\s*item\s+\d+[a-z]?\.`)
	partMarkerRe    = regexp.MustCompile(`(?im)^\s*part\s+[ivx]+\b`)
	consolidatedRe  = regexp.MustCompile(`(?i)consolidated (balance sheets?|statements?)`)
	seeNoteRe       = regexp.MustCompile(`(?i)see note \d+`)
	referToNotesRe  = regexp.MustCompile(`(?i)refer to the notes`)
	trailingDigitRe = regexp.MustCompile(`[a-zA-Z].*\s\d{1,3}$`)
)

// isTableOfContents reports whether the page is a table-of-contents or pure
// index page. A page carrying a "consolidated balance/statements" phrase is
// never treated as a TOC, whatever else it looks like.
func isTableOfContents(text string) bool {
	if consolidatedRe.MatchString(text) {
		return false
	}

	dotLeaders := len(dotLeaderRe.FindAllString(text, -1))
	if dotLeaders >= 3 {
		// Dense dot-leader-to-page-number runs mark a pure index page even
		// without an explicit heading.
		return true
	}

	if !tocHeadingRe.MatchString(text) {
		return false
	}

	signals := 0
	if dotLeaders > 0 {
		signals++
	}
	if countTrailingPageNumberLines(text) >= 5 {
		signals++
	}
	if len(itemMarkerRe.FindAllString(text, -1)) >= 2 {
		signals++
	}
	if partMarkerRe.MatchString(text) {
		signals++
	}
	return signals >= 2
}

// isFootnoteReferencePage reports whether the page is dominated by note
// cross-references rather than statement content.
func isFootnoteReferencePage(text string) bool {
	if len(seeNoteRe.FindAllString(text, -1)) > 3 {
		return true
	}
	return len(referToNotesRe.FindAllString(text, -1)) > 1
}

// countTrailingPageNumberLines counts lines of prose ending in a bare page
// number, the typical shape of a contents listing.
func countTrailingPageNumberLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if trailingDigitRe.MatchString(line) {
			count++
		}
	}
	return count
}
