package classification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/pkg/config"
)

// blankHeaders suppresses the header boost: the rendered band is empty for
// every page.
type blankHeaders struct{}

func (blankHeaders) HeaderText(int) (string, error) { return "", nil }

// incomePage carries the canonical title in its header band, five content
// indicators, and no structure texture.
const incomePage = `CONSOLIDATED STATEMENTS OF INCOME

Net sales
Cost of goods sold
Gross profit
Operating expenses
Net income
`

const balanceSheetPage = `CONSOLIDATED BALANCE SHEETS
(In thousands)

December 31, 2024

Assets
Cash and cash equivalents
  12,500
Accounts receivable
  8,210
Goodwill
  4,400
Total assets
  25,110
Liabilities
Accounts payable
  3,950
Long-term debt
  9,000
Total liabilities
  12,950
`

const cashFlowPage = `CONSOLIDATED STATEMENTS OF CASH FLOWS

Cash flows from operating activities
Depreciation and amortization
Net cash provided by operating activities
Cash flows from investing activities
Cash flows from financing activities
`

const cashFlowSupplementalPage = `SUPPLEMENTAL DISCLOSURES

Cash flows from operating activities, continued
Supplemental cash flow information
Proceeds from issuance of long-term debt
`

const mdnaPage = `Management's Discussion and Analysis

Income statement highlights:

Net sales increased 12% compared to the prior year, driven by higher
product volume. Gross profit improved, primarily due to lower input costs.
We believe operating expenses will remain flat. Net income grew as a
result, and income tax expense declined.
`

func defaultClassifier() *Classifier {
	return NewClassifier(DefaultRules(), config.DefaultCalibration(), nil)
}

func TestClassify_IncomeHeaderBoostScenario(t *testing.T) {
	c := defaultClassifier()

	pages := []string{incomePage}
	classified := c.ClassifyPages(pages)

	require.Len(t, classified, 1)
	assert.Equal(t, statement.IncomeStatement, classified[0].Type)
	// 0.3 base + 5 content * 0.05 + 0.5 header boost, capped at 1.0.
	assert.GreaterOrEqual(t, classified[0].Confidence, 0.85)

	result := c.Classify(pages)
	assert.Equal(t, []int{0}, result[statement.IncomeStatement])
}

func TestClassify_BalanceSheet(t *testing.T) {
	c := defaultClassifier()

	result := c.Classify([]string{"narrative filler", balanceSheetPage})
	assert.Equal(t, []int{1}, result[statement.BalanceSheet])
}

func TestClassify_MissIsAbsence(t *testing.T) {
	c := defaultClassifier()

	result := c.Classify([]string{"This page discusses employee benefit plans.", ""})
	assert.Empty(t, result)
}

func TestClassify_MDnARejectedByNegatives(t *testing.T) {
	c := defaultClassifier()

	result := c.Classify([]string{mdnaPage})
	assert.NotContains(t, result, statement.IncomeStatement)
}

func TestClassify_CashFlowKeepsConsecutivePages(t *testing.T) {
	c := defaultClassifier()

	pages := []string{"filler", cashFlowPage, cashFlowSupplementalPage}
	result := c.Classify(pages)
	assert.Equal(t, []int{1, 2}, result[statement.CashFlow])
}

func TestClassify_PositionalBonusBreaksTies(t *testing.T) {
	c := NewClassifier(DefaultRules(), config.DefaultCalibration(), blankHeaders{})

	// Five content indicators, no structure: confidence 0.55.
	strongPage := "Consolidated Statements of Income\nNet sales\nCost of goods sold\nGross profit\nOperating expenses\nNet income\n"
	// Four content indicators: confidence 0.5, but inside pages 35-50 the
	// +0.1 positional bonus lifts it past the early page.
	positionedPage := "Consolidated Statements of Income\nNet sales\nCost of goods sold\nGross profit\nNet income\n"

	pages := make([]string, 40)
	pages[0] = strongPage
	pages[39] = positionedPage

	result := c.Classify(pages)
	assert.Equal(t, []int{39}, result[statement.IncomeStatement])
}

func TestScore_ContentFloor(t *testing.T) {
	c := NewClassifier(DefaultRules(), config.DefaultCalibration(), blankHeaders{})

	// Only three income content indicators: under the >=4 floor.
	thin := "Consolidated Statements of Income\nNet sales\nGross profit\nNet income\n"
	assert.Zero(t, c.score(statement.IncomeStatement, 0, thin))

	// Cash flow has no content floor; the section markers alone validate.
	minimal := "Consolidated Statements of Cash Flows\nOperating activities\n"
	assert.Greater(t, c.score(statement.CashFlow, 0, minimal), 0.0)
}

func TestScore_MonotoneInContentMatches(t *testing.T) {
	c := NewClassifier(DefaultRules(), config.DefaultCalibration(), blankHeaders{})

	indicators := []string{
		"Net sales",
		"Cost of goods sold",
		"Gross profit",
		"Operating expenses",
		"Research and development",
		"Interest expense",
		"Net income",
	}

	prev := 0.0
	for n := 4; n <= len(indicators); n++ {
		text := "Consolidated Statements of Income\n" + strings.Join(indicators[:n], "\n") + "\n"
		conf := c.score(statement.IncomeStatement, 0, text)
		assert.GreaterOrEqual(t, conf, prev, "confidence must not drop as content matches grow (n=%d)", n)
		prev = conf
	}
}

func TestClassifyPages_UnknownBelowFloor(t *testing.T) {
	c := defaultClassifier()

	classified := c.ClassifyPages([]string{"no statement here"})
	require.Len(t, classified, 1)
	assert.Equal(t, statement.Unknown, classified[0].Type)
	assert.Zero(t, classified[0].Confidence)
}

func TestClassify_Deterministic(t *testing.T) {
	c := defaultClassifier()
	pages := []string{incomePage, balanceSheetPage, cashFlowPage, cashFlowSupplementalPage}

	first := c.Classify(pages)
	second := c.Classify(pages)
	assert.Equal(t, first, second)
}
