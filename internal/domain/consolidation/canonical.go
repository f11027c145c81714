package consolidation

import (
	"strings"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
)

// canonicalPattern maps near-synonymous caption wording to one canonical
// account name by substring match.
type canonicalPattern struct {
	substr    string
	canonical string
}

// incomeCanonicalPatterns is the canonical-name table for income
// statements. Substring matching is ordered and first-match-wins, so more
// specific patterns come first.
var incomeCanonicalPatterns = []canonicalPattern{
	{substr: "provision for income taxes", canonical: "Income tax expense"},
	{substr: "income tax expense", canonical: "Income tax expense"},
	{substr: "operating expenses", canonical: "Operating expenses"},
	{substr: "cost of revenue", canonical: "Cost of revenue"},
	{substr: "cost of sales", canonical: "Cost of revenue"},
	{substr: "research and development", canonical: "Research and development"},
}

// canonicalName resolves a line-item name to its canonical form for the
// statement type. Returns "" when no pattern applies; canonical naming is
// currently defined for income statements only.
func canonicalName(t statement.Type, name string) string {
	if t != statement.IncomeStatement {
		return ""
	}
	lower := strings.ToLower(name)
	for _, p := range incomeCanonicalPatterns {
		if strings.Contains(lower, p.substr) {
			return p.canonical
		}
	}
	return ""
}
