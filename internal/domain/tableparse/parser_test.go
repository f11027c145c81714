package tableparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RevenueSection(t *testing.T) {
	text := "Account | 2024 | 2023\n" +
		"Revenue | | \n" +
		"  Product Revenue | 750000 | 700000\n" +
		"Total Revenue | 750000 | 700000"

	parsed, err := NewParser().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024", "2023"}, parsed.Periods)
	require.Len(t, parsed.LineItems, 3)

	revenue := parsed.LineItems[0]
	assert.Equal(t, "Revenue", revenue.Name)
	assert.True(t, revenue.IsSectionHeader)
	assert.Equal(t, 0, revenue.IndentLevel)
	assert.Empty(t, revenue.Values)

	product := parsed.LineItems[1]
	assert.Equal(t, "  Product Revenue", product.Name)
	assert.False(t, product.IsSectionHeader)
	assert.Equal(t, 1, product.IndentLevel)
	assert.Equal(t, "Revenue", product.Section)
	assert.Equal(t, "750000", product.Values["2024"])
	assert.Equal(t, "700000", product.Values["2023"])

	total := parsed.LineItems[2]
	assert.True(t, total.IsTotal)
	assert.Equal(t, "Revenue", total.Section)
}

func TestParse_NoRows(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := NewParser().Parse("")
		require.Error(t, err)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("narrative text without delimiters", func(t *testing.T) {
		_, err := NewParser().Parse("Revenue increased 12% driven by product sales.\nSee note 4.")
		require.Error(t, err)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("single delimiter per line is not a row", func(t *testing.T) {
		_, err := NewParser().Parse("Revenue | 750000\nCost | 80000")
		require.Error(t, err)
	})
}

func TestParse_HeaderRow(t *testing.T) {
	t.Run("stoplist cells are skipped", func(t *testing.T) {
		parsed, err := NewParser().Parse("Description | Item | FY2022 | FY2021\nRevenue | 10 | 20 | 30")
		require.NoError(t, err)
		assert.Equal(t, []string{"FY2022", "FY2021"}, parsed.Periods)
	})

	t.Run("empty header cells are skipped", func(t *testing.T) {
		parsed, err := NewParser().Parse("Account | | 2022 | 2021\nRevenue | 10 | 20 | 30")
		require.NoError(t, err)
		assert.Equal(t, []string{"2022", "2021"}, parsed.Periods)
	})
}

func TestParse_RowHandling(t *testing.T) {
	t.Run("empty name rows are discarded", func(t *testing.T) {
		parsed, err := NewParser().Parse("Account | 2022 | 2021\n | 10 | 20\nRevenue | 30 | 40")
		require.NoError(t, err)
		require.Len(t, parsed.LineItems, 1)
		assert.Equal(t, "Revenue", parsed.LineItems[0].Name)
	})

	t.Run("order is strictly increasing", func(t *testing.T) {
		parsed, err := NewParser().Parse(
			"Account | 2022 | 2021\nAssets | | \nCash | 10 | 20\nReceivables | 30 | 40\nTotal assets | 40 | 60")
		require.NoError(t, err)
		for i, item := range parsed.LineItems {
			assert.Equal(t, i, item.Order)
		}
	})

	t.Run("unparseable values stay as raw text", func(t *testing.T) {
		parsed, err := NewParser().Parse("Account | 2022 | 2021\nNet revenue | n/a | 500")
		require.NoError(t, err)
		require.Len(t, parsed.LineItems, 1)
		item := parsed.LineItems[0]
		assert.False(t, item.IsSectionHeader) // 500 still parses
		assert.Equal(t, "n/a", item.Values["2022"])
	})

	t.Run("extra cells beyond the period count are dropped", func(t *testing.T) {
		parsed, err := NewParser().Parse("Account | 2022 | 2021\nRevenue | 10 | 20 | 30 | 40")
		require.NoError(t, err)
		require.Len(t, parsed.LineItems, 1)
		assert.Len(t, parsed.LineItems[0].Values, 2)
	})

	t.Run("missing trailing cells become empty values", func(t *testing.T) {
		parsed, err := NewParser().Parse("Account | 2022 | 2021\nRevenue | 10 |")
		require.NoError(t, err)
		item := parsed.LineItems[0]
		assert.Equal(t, "10", item.Values["2022"])
		assert.Equal(t, "", item.Values["2021"])
	})
}

func TestParse_SectionStack(t *testing.T) {
	text := "Account | 2022 | 2021\n" +
		"Assets | | \n" +
		"Current assets | | \n" +
		"Cash and cash equivalents | 100 | 90\n" +
		"Total current assets | 100 | 90\n" +
		"Goodwill | 50 | 50\n" +
		"Total assets | 150 | 140"

	parsed, err := NewParser().Parse(text)
	require.NoError(t, err)
	require.Len(t, parsed.LineItems, 6)

	assets := parsed.LineItems[0]
	assert.True(t, assets.IsSectionHeader)
	assert.Equal(t, 0, assets.IndentLevel)
	assert.Empty(t, assets.Section)

	current := parsed.LineItems[1]
	assert.True(t, current.IsSectionHeader)
	assert.Equal(t, 1, current.IndentLevel)
	assert.Equal(t, "Assets", current.Section)

	cash := parsed.LineItems[2]
	assert.Equal(t, "Current assets", cash.Section)
	assert.Equal(t, 2, cash.IndentLevel)

	totalCurrent := parsed.LineItems[3]
	assert.True(t, totalCurrent.IsTotal)
	assert.Equal(t, "Current assets", totalCurrent.Section)

	// The total popped "Current assets"; Goodwill sits under "Assets".
	goodwill := parsed.LineItems[4]
	assert.Equal(t, "Assets", goodwill.Section)

	totalAssets := parsed.LineItems[5]
	assert.True(t, totalAssets.IsTotal)
	assert.Equal(t, "Assets", totalAssets.Section)
}

func TestParse_TotalKeywords(t *testing.T) {
	tests := []struct {
		name    string
		isTotal bool
	}{
		{"Total liabilities", true},
		{"Subtotal", true},
		{"Net income", true},
		{"Gross profit", true},
		{"Operating income", true},
		{"Accounts receivable", false},
		{"Prepaid expenses", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := NewParser().Parse("Account | 2022 | 2021\n" + tc.name + " | 10 | 20")
			require.NoError(t, err)
			require.Len(t, parsed.LineItems, 1)
			assert.Equal(t, tc.isTotal, parsed.LineItems[0].IsTotal)
		})
	}
}

func TestParse_IndentCap(t *testing.T) {
	deepName := "                                                Deep item" // 48 leading spaces
	parsed, err := NewParser().Parse("Account | 2022 | 2021\n" + deepName + " | 10 | 20")
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.LineItems[0].IndentLevel)
}

func TestParse_CustomDelimiter(t *testing.T) {
	parsed, err := NewParserWithDelimiter(";").Parse("Account ; 2022 ; 2021\nRevenue ; 10 ; 20")
	require.NoError(t, err)
	assert.Equal(t, []string{"2022", "2021"}, parsed.Periods)
	require.Len(t, parsed.LineItems, 1)
}

func TestParse_IndependentCalls(t *testing.T) {
	p := NewParser()

	first, err := p.Parse("Account | 2022 | 2021\nAssets | | \nCash | 10 | 20")
	require.NoError(t, err)
	assert.Equal(t, "Assets", first.LineItems[1].Section)

	// The open "Assets" section from the first parse must not leak.
	second, err := p.Parse("Account | 2022 | 2021\nRevenue | 10 | 20")
	require.NoError(t, err)
	assert.Empty(t, second.LineItems[0].Section)
}
