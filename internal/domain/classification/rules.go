package classification

import (
	"regexp"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
)

// RuleSet holds the pattern groups and thresholds for one statement type.
// Keywords feed the broad candidate-discovery pass; the regex groups drive
// validation scoring. All fields are immutable after DefaultRules returns
// and safe to share across concurrent classifications.
type RuleSet struct {
	// Keywords are broad, low-precision discovery terms, uppercased for the
	// Aho-Corasick matcher. Any single hit makes a page a candidate.
	Keywords []string

	// Primary indicators: at least one must match or the page is rejected.
	Primary []*regexp.Regexp

	// Content indicators: type-specific account and caption language.
	Content []*regexp.Regexp

	// Structure indicators: tabular and period-heading texture.
	Structure []*regexp.Regexp

	// Required indicators: at least one must match or the page is rejected.
	Required []*regexp.Regexp

	// MinContentMatches is the per-type floor on distinct content hits.
	MinContentMatches int

	// HeaderPhrases are the canonical statement titles checked against the
	// page's header band (uppercased, apostrophes stripped).
	HeaderPhrases []string
}

// RuleTable maps each statement type to its rule set. Pure data; treated as
// read-only configuration.
type RuleTable map[statement.Type]*RuleSet

// negativePatterns flag narrative/MD&A phrasing shared by every type. More
// than the calibrated ceiling of hits rejects the page.
var negativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(increased|decreased|grew|declined)( by)? (approximately )?\d+(\.\d+)?%`),
	regexp.MustCompile(`(?i)\d+(\.\d+)?% (increase|decrease)`),
	regexp.MustCompile(`(?i)driven by`),
	regexp.MustCompile(`(?i)primarily due to`),
	regexp.MustCompile(`(?i)primarily attributable to`),
	regexp.MustCompile(`(?i)compared (to|with) (the )?(prior|same|previous)`),
	regexp.MustCompile(`(?i)we (believe|expect|anticipate|intend)`),
	regexp.MustCompile(`(?i)see (note|item) \d+`),
	regexp.MustCompile(`(?i)refer to (note|item|part)`),
	regexp.MustCompile(`(?i)management.?s discussion`),
}

// structurePatterns capture the tabular texture shared by every statement
// type: numeric-only lines, period headings, and scale captions.
var structurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*\$?\s*\(?\d[\d,]*(\.\d+)?\)?\s*$`),
	regexp.MustCompile(`(?i)(years?|(three|six|nine|twelve) months) ended`),
	regexp.MustCompile(`(?i)\(in (thousands|millions|billions)`),
	regexp.MustCompile(`(?i)(january|march|june|september|october|december) \d{1,2},? \d{4}`),
	regexp.MustCompile(`\(\d[\d,]*(\.\d+)?\)`),
}

// DefaultRules builds the rule table for all five concrete statement types.
func DefaultRules() RuleTable {
	return RuleTable{
		statement.IncomeStatement: {
			Keywords: []string{
				"INCOME STATEMENT", "STATEMENTS OF INCOME", "STATEMENT OF INCOME",
				"STATEMENTS OF OPERATIONS", "STATEMENT OF OPERATIONS",
				"REVENUE", "NET INCOME",
			},
			Primary: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consolidated statements? of (income|operations)`),
				regexp.MustCompile(`(?i)income statements?`),
				regexp.MustCompile(`(?i)statements? of operations`),
			},
			Content: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(total )?(revenues?|net sales)`),
				regexp.MustCompile(`(?i)cost of (revenues?|sales|goods sold)`),
				regexp.MustCompile(`(?i)gross (profit|margin)`),
				regexp.MustCompile(`(?i)operating expenses`),
				regexp.MustCompile(`(?i)research and development`),
				regexp.MustCompile(`(?i)selling, general and administrative`),
				regexp.MustCompile(`(?i)(operating income|income from operations)`),
				regexp.MustCompile(`(?i)interest (income|expense)`),
				regexp.MustCompile(`(?i)(provision for income taxes|income tax (expense|benefit))`),
				regexp.MustCompile(`(?i)net (income|loss)`),
				regexp.MustCompile(`(?i)(basic|diluted).{0,40}per share`),
				regexp.MustCompile(`(?i)weighted.average.{0,20}shares`),
			},
			Structure: structurePatterns,
			Required: []*regexp.Regexp{
				regexp.MustCompile(`(?i)net (income|loss)`),
				regexp.MustCompile(`(?i)(revenues?|net sales)`),
			},
			MinContentMatches: 4,
			HeaderPhrases: []string{
				"CONSOLIDATED STATEMENT OF INCOME",
				"CONSOLIDATED STATEMENTS OF INCOME",
				"CONSOLIDATED STATEMENT OF OPERATIONS",
				"CONSOLIDATED STATEMENTS OF OPERATIONS",
			},
		},
		statement.BalanceSheet: {
			Keywords: []string{
				"BALANCE SHEET", "BALANCE SHEETS", "FINANCIAL POSITION",
			},
			Primary: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consolidated balance sheets?`),
				regexp.MustCompile(`(?i)balance sheets?`),
				regexp.MustCompile(`(?i)statements? of financial position`),
			},
			Content: []*regexp.Regexp{
				regexp.MustCompile(`(?i)cash and cash equivalents`),
				regexp.MustCompile(`(?i)short.term investments`),
				regexp.MustCompile(`(?i)accounts receivable`),
				regexp.MustCompile(`(?i)inventor(y|ies)`),
				regexp.MustCompile(`(?i)prepaid expenses`),
				regexp.MustCompile(`(?i)property,? plant and equipment`),
				regexp.MustCompile(`(?i)goodwill`),
				regexp.MustCompile(`(?i)intangible assets`),
				regexp.MustCompile(`(?i)accounts payable`),
				regexp.MustCompile(`(?i)accrued (liabilities|expenses)`),
				regexp.MustCompile(`(?i)deferred (revenue|income taxes)`),
				regexp.MustCompile(`(?i)long.term debt`),
				regexp.MustCompile(`(?i)(retained earnings|accumulated deficit)`),
				regexp.MustCompile(`(?i)additional paid.in capital`),
				regexp.MustCompile(`(?i)total assets`),
				regexp.MustCompile(`(?i)total liabilities`),
			},
			Structure: structurePatterns,
			Required: []*regexp.Regexp{
				regexp.MustCompile(`(?i)total assets`),
				regexp.MustCompile(`(?i)total liabilities`),
			},
			MinContentMatches: 3,
			HeaderPhrases: []string{
				"CONSOLIDATED BALANCE SHEET",
				"CONSOLIDATED BALANCE SHEETS",
				"CONSOLIDATED STATEMENT OF FINANCIAL POSITION",
				"CONSOLIDATED STATEMENTS OF FINANCIAL POSITION",
			},
		},
		statement.CashFlow: {
			Keywords: []string{
				"CASH FLOW", "CASH FLOWS",
			},
			Primary: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consolidated statements? of cash flows?`),
				regexp.MustCompile(`(?i)statements? of cash flows?`),
				regexp.MustCompile(`(?i)cash flows? (from|provided by|used in)`),
			},
			Content: []*regexp.Regexp{
				regexp.MustCompile(`(?i)depreciation and amortization`),
				regexp.MustCompile(`(?i)stock.based compensation`),
				regexp.MustCompile(`(?i)changes in operating assets and liabilities`),
				regexp.MustCompile(`(?i)net cash (provided by|used in) operating activities`),
				regexp.MustCompile(`(?i)investing activities`),
				regexp.MustCompile(`(?i)financing activities`),
				regexp.MustCompile(`(?i)purchases? of property`),
				regexp.MustCompile(`(?i)proceeds from`),
				regexp.MustCompile(`(?i)repayments? of`),
				regexp.MustCompile(`(?i)cash and cash equivalents at (beginning|end) of (period|year)`),
				regexp.MustCompile(`(?i)supplemental (disclosures?|cash flow information)`),
			},
			Structure: structurePatterns,
			Required: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(operating|investing|financing) activities`),
			},
			// The strongest cash-flow signal is the header boost plus the
			// activity-section markers; no content floor.
			MinContentMatches: 0,
			HeaderPhrases: []string{
				"CONSOLIDATED STATEMENT OF CASH FLOWS",
				"CONSOLIDATED STATEMENTS OF CASH FLOWS",
			},
		},
		statement.ComprehensiveIncome: {
			Keywords: []string{
				"COMPREHENSIVE INCOME", "COMPREHENSIVE LOSS",
			},
			Primary: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consolidated statements? of comprehensive (income|loss)`),
				regexp.MustCompile(`(?i)statements? of comprehensive (income|loss)`),
			},
			Content: []*regexp.Regexp{
				regexp.MustCompile(`(?i)net (income|loss)`),
				regexp.MustCompile(`(?i)other comprehensive (income|loss)`),
				regexp.MustCompile(`(?i)foreign currency translation`),
				regexp.MustCompile(`(?i)unrealized (gains?|losses?)`),
				regexp.MustCompile(`(?i)cash flow hedges`),
				regexp.MustCompile(`(?i)reclassification adjustments?`),
				regexp.MustCompile(`(?i)total comprehensive (income|loss)`),
			},
			Structure: structurePatterns,
			Required: []*regexp.Regexp{
				regexp.MustCompile(`(?i)comprehensive (income|loss)`),
			},
			MinContentMatches: 2,
			HeaderPhrases: []string{
				"CONSOLIDATED STATEMENT OF COMPREHENSIVE INCOME",
				"CONSOLIDATED STATEMENTS OF COMPREHENSIVE INCOME",
				"CONSOLIDATED STATEMENT OF COMPREHENSIVE LOSS",
				"CONSOLIDATED STATEMENTS OF COMPREHENSIVE LOSS",
			},
		},
		statement.ShareholdersEquity: {
			Keywords: []string{
				"SHAREHOLDERS EQUITY", "SHAREHOLDERS' EQUITY",
				"STOCKHOLDERS EQUITY", "STOCKHOLDERS' EQUITY",
				"CHANGES IN EQUITY",
			},
			Primary: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consolidated statements? of (share|stock)holders.? equity`),
				regexp.MustCompile(`(?i)statements? of changes in equity`),
				regexp.MustCompile(`(?i)(share|stock)holders.? equity`),
			},
			Content: []*regexp.Regexp{
				regexp.MustCompile(`(?i)balance (at|as of)`),
				regexp.MustCompile(`(?i)common stock`),
				regexp.MustCompile(`(?i)additional paid.in capital`),
				regexp.MustCompile(`(?i)retained earnings`),
				regexp.MustCompile(`(?i)accumulated other comprehensive`),
				regexp.MustCompile(`(?i)treasury stock`),
				regexp.MustCompile(`(?i)issuance of common stock`),
				regexp.MustCompile(`(?i)repurchases? of common stock`),
				regexp.MustCompile(`(?i)dividends (declared|paid)`),
				regexp.MustCompile(`(?i)net (income|loss)`),
			},
			Structure: structurePatterns,
			Required: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(share|stock)holders.? equity`),
				regexp.MustCompile(`(?i)retained earnings`),
			},
			MinContentMatches: 2,
			HeaderPhrases: []string{
				"CONSOLIDATED STATEMENT OF SHAREHOLDERS EQUITY",
				"CONSOLIDATED STATEMENTS OF SHAREHOLDERS EQUITY",
				"CONSOLIDATED STATEMENT OF STOCKHOLDERS EQUITY",
				"CONSOLIDATED STATEMENTS OF STOCKHOLDERS EQUITY",
				"CONSOLIDATED STATEMENT OF CHANGES IN EQUITY",
				"CONSOLIDATED STATEMENTS OF CHANGES IN EQUITY",
			},
		},
	}
}
