// Package consolidation merges several parsed statements of one type,
// produced from different source documents over different periods, into a
// single coherent multi-period statement with full merge provenance.
package consolidation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
)

// yearRe extracts the canonical 4-digit year from a period label
// ("Year Ended 2022", "FY2022" and "2022" all normalize to "2022").
var yearRe = regexp.MustCompile(`\d{4}`)

// Source is one consolidation input: a parsed statement plus the document
// it came from, for provenance.
type Source struct {
	Document  statement.SourceDocument
	Statement statement.ParsedStatement
}

// Consolidator merges statements of a single type. Matching is first-match
// wins and order-sensitive: a given set of sources must be processed in one
// fixed order to get reproducible output.
type Consolidator struct {
	statementType statement.Type
	sim           Similarity
	threshold     float64
}

// NewConsolidator builds a consolidator for one statement type. sim may be
// nil to use the default Levenshtein-based similarity; threshold is the
// minimum ratio for a fuzzy merge (0.85 as calibrated).
func NewConsolidator(t statement.Type, sim Similarity, threshold float64) *Consolidator {
	if sim == nil {
		sim = LevenshteinSimilarity{}
	}
	return &Consolidator{statementType: t, sim: sim, threshold: threshold}
}

// account is the mutable accumulator entry behind one ConsolidatedAccount.
type account struct {
	canonicalName string
	valuesByYear  map[string]string
	indentLevel   int
	parentSection string
	section       string
	mergedFrom    []statement.MergeSource
}

// Consolidate merges the sources in order and returns the terminal
// multi-period statement. Running it twice on identical input yields
// identical output, provenance included.
func (c *Consolidator) Consolidate(sources []Source) statement.ConsolidatedStatement {
	var accounts []*account

	for _, src := range sources {
		parents := sectionParents(src.Statement)
		for _, item := range src.Statement.LineItems {
			if item.IsSectionHeader {
				continue
			}
			accounts = c.merge(accounts, src, item, parents[item.Section])
		}
	}

	return build(accounts)
}

// merge folds one incoming line item into the accumulator, trying exact,
// canonical-pattern, then fuzzy matching before creating a new account.
func (c *Consolidator) merge(accounts []*account, src Source, item statement.LineItem, parentSection string) []*account {
	name := strings.TrimSpace(item.Name)

	// Exact: same name, same parent section, compatible section.
	for _, acc := range accounts {
		if acc.canonicalName == name && acc.parentSection == parentSection &&
			sectionsCompatible(acc.section, item.Section) {
			c.fold(acc, src, item, name)
			return accounts
		}
	}

	// Canonical pattern: near-synonymous captions collapse to one name.
	if canon := canonicalName(c.statementType, name); canon != "" {
		for _, acc := range accounts {
			if acc.canonicalName == canon && acc.parentSection == parentSection &&
				sectionsCompatible(acc.section, item.Section) {
				c.fold(acc, src, item, name)
				return accounts
			}
		}
		return append(accounts, c.newAccount(canon, src, item, parentSection, name))
	}

	// Fuzzy: only within a compatible section, best ratio above threshold.
	var best *account
	bestRatio := c.threshold
	for _, acc := range accounts {
		if acc.parentSection != parentSection || !sectionsCompatible(acc.section, item.Section) {
			continue
		}
		if ratio := c.sim.Ratio(name, acc.canonicalName); ratio > bestRatio {
			best = acc
			bestRatio = ratio
		}
	}
	if best != nil {
		c.fold(best, src, item, name)
		return accounts
	}

	return append(accounts, c.newAccount(name, src, item, parentSection, name))
}

// fold adds the item's year/value pairs and provenance to an existing
// account. First-seen values win on overlapping years.
func (c *Consolidator) fold(acc *account, src Source, item statement.LineItem, originalName string) {
	for _, period := range periodsOf(src, item) {
		year := NormalizeYear(period)
		if year == "" {
			continue
		}
		value := item.Values[period]
		if value == "" {
			continue
		}
		if existing, ok := acc.valuesByYear[year]; !ok || existing == "" {
			acc.valuesByYear[year] = value
		}
	}
	acc.mergedFrom = append(acc.mergedFrom, statement.MergeSource{
		OriginalName: originalName,
		SourceLabel:  src.Document.Label,
	})
}

// newAccount opens a fresh accumulator bucket for an unmatched item.
func (c *Consolidator) newAccount(canonical string, src Source, item statement.LineItem, parentSection, originalName string) *account {
	acc := &account{
		canonicalName: canonical,
		valuesByYear:  make(map[string]string),
		indentLevel:   item.IndentLevel,
		parentSection: parentSection,
		section:       item.Section,
	}
	c.fold(acc, src, item, originalName)
	return acc
}

// NormalizeYear extracts the canonical 4-digit year from a period label.
// Returns "" when the label carries no extractable year; such periods are
// excluded from the merged timeline.
func NormalizeYear(period string) string {
	return yearRe.FindString(period)
}

// sectionsCompatible applies the backward-compatible section rule: equal
// sections match, and an unset section on either side matches anything.
func sectionsCompatible(a, b string) bool {
	return a == b || a == "" || b == ""
}

// periodsOf returns the period labels the item carries values under, in the
// statement's header order.
func periodsOf(src Source, item statement.LineItem) []string {
	if len(src.Statement.Periods) > 0 {
		return src.Statement.Periods
	}
	// Year-tagged items without a header: iterate the value keys sorted for
	// determinism.
	labels := make([]string, 0, len(item.Values))
	for label := range item.Values {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// sectionParents maps each section name in the statement to its enclosing
// section, derived from the section-header rows.
func sectionParents(st statement.ParsedStatement) map[string]string {
	parents := make(map[string]string)
	for _, item := range st.LineItems {
		if item.IsSectionHeader {
			parents[strings.TrimSpace(item.Name)] = item.Section
		}
	}
	return parents
}

// build freezes the accumulator into the immutable output form: years
// descending, accounts in first-seen order, provenance grouped by final
// consolidated name.
func build(accounts []*account) statement.ConsolidatedStatement {
	yearSet := make(map[string]bool)
	out := statement.ConsolidatedStatement{
		Accounts:     make([]statement.ConsolidatedAccount, 0, len(accounts)),
		MergeSummary: make([]statement.MergeRecord, 0, len(accounts)),
	}

	for _, acc := range accounts {
		for year := range acc.valuesByYear {
			yearSet[year] = true
		}
		out.Accounts = append(out.Accounts, statement.ConsolidatedAccount{
			CanonicalName: acc.canonicalName,
			ValuesByYear:  acc.valuesByYear,
			IndentLevel:   acc.indentLevel,
			ParentSection: acc.parentSection,
			Section:       acc.section,
			MergedFrom:    acc.mergedFrom,
		})
		out.MergeSummary = append(out.MergeSummary, statement.MergeRecord{
			ConsolidatedName: acc.canonicalName,
			MergedFrom:       acc.mergedFrom,
		})
	}

	out.Years = make([]string, 0, len(yearSet))
	for year := range yearSet {
		out.Years = append(out.Years, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out.Years)))

	return out
}
