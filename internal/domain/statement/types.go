// Package statement defines the shared data model for financial statement
// extraction: statement types, classified pages, parsed line items, and the
// consolidated multi-period output produced from several source documents.
package statement

import (
	"github.com/google/uuid"
)

// Type identifies a financial statement category. The set is closed.
type Type string

const (
	IncomeStatement     Type = "income_statement"
	BalanceSheet        Type = "balance_sheet"
	CashFlow            Type = "cash_flow"
	ComprehensiveIncome Type = "comprehensive_income"
	ShareholdersEquity  Type = "shareholders_equity"
	Unknown             Type = "unknown"
)

// AllTypes lists every concrete statement type (Unknown excluded).
func AllTypes() []Type {
	return []Type{
		IncomeStatement,
		BalanceSheet,
		CashFlow,
		ComprehensiveIncome,
		ShareholdersEquity,
	}
}

// DisplayName returns a human-readable name for the statement type.
func (t Type) DisplayName() string {
	switch t {
	case IncomeStatement:
		return "Income Statement"
	case BalanceSheet:
		return "Balance Sheet"
	case CashFlow:
		return "Statement of Cash Flows"
	case ComprehensiveIncome:
		return "Statement of Comprehensive Income"
	case ShareholdersEquity:
		return "Statement of Shareholders' Equity"
	default:
		return "Unknown"
	}
}

// ClassifiedPage is the result of classifying one page of a document.
// Confidence is in [0,1]; a confidence below the unknown floor forces
// Type = Unknown.
type ClassifiedPage struct {
	PageIndex  int     `json:"page_index"`
	Type       Type    `json:"type"`
	Confidence float64 `json:"confidence"`
}

// LineItem is one row of a parsed financial statement. Name preserves the
// original cell verbatim, including leading whitespace (the whitespace feeds
// indent computation). A section header carries no values.
type LineItem struct {
	Name            string            `json:"name"`
	Values          map[string]string `json:"values"` // period label -> raw value text
	IndentLevel     int               `json:"indent_level"`
	IsSectionHeader bool              `json:"is_section_header"`
	IsTotal         bool              `json:"is_total"`
	Section         string            `json:"section,omitempty"`
	Order           int               `json:"order"`
}

// ParsedStatement is the output of parsing one classified table region.
// Periods are in the header's left-to-right order; LineItems are in row
// order with strictly increasing Order. Never mutated after return.
type ParsedStatement struct {
	Periods   []string   `json:"periods"`
	LineItems []LineItem `json:"line_items"`
}

// SourceDocument identifies one source of line items during consolidation,
// for provenance tracking.
type SourceDocument struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// MergeSource records one original line item that was folded into a
// consolidated account.
type MergeSource struct {
	OriginalName string `json:"original_name"`
	SourceLabel  string `json:"source_label"`
}

// MergeRecord groups every merge decision that produced one consolidated
// account, keyed by its final name.
type MergeRecord struct {
	ConsolidatedName string        `json:"consolidated_name"`
	MergedFrom       []MergeSource `json:"merged_from"`
}

// ConsolidatedAccount is the merged identity of one or more near-duplicate
// line items across source statements. Identity requires canonical name AND
// section AND parent section agreement; a name match alone never merges.
type ConsolidatedAccount struct {
	CanonicalName string            `json:"canonical_name"`
	ValuesByYear  map[string]string `json:"values_by_year"` // normalized 4-digit year -> raw value text
	IndentLevel   int               `json:"indent_level"`
	ParentSection string            `json:"parent_section,omitempty"`
	Section       string            `json:"section,omitempty"`
	MergedFrom    []MergeSource     `json:"merged_from"`
}

// ConsolidatedStatement is the terminal artifact of a consolidation run:
// one coherent multi-period statement with a full audit trail of merge
// decisions. Years are sorted descending.
type ConsolidatedStatement struct {
	Years        []string              `json:"years"`
	Accounts     []ConsolidatedAccount `json:"accounts"`
	MergeSummary []MergeRecord         `json:"merge_summary"`
}
