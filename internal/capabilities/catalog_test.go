package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversAllCapabilities(t *testing.T) {
	expected := []string{
		CapIncomeStatements,
		CapIncomeStatementsQuarterly,
		CapBalanceSheetHistory,
		CapBalanceSheetQuarterly,
		CapQuote,
		CapQuoteList,
		CapPriceIndicators,
		CapFinancialData,
		CapKeyStatistics,
		CapFinancialRatios,
		CapInflation,
		CapPrimeRate,
		CapSearchNews,
	}

	defs := Definitions()
	require.Len(t, defs, len(expected))

	validCategories := map[Category]bool{
		CategoryFinancialStatements: true,
		CategoryMarketData:          true,
		CategoryAnalysisRatios:      true,
		CategoryEconomicIndicators:  true,
		CategoryNewsSearch:          true,
	}

	seen := map[string]bool{}
	for _, def := range defs {
		assert.False(t, seen[def.Name], "duplicate catalog entry: %s", def.Name)
		seen[def.Name] = true

		assert.NotEmpty(t, def.Description, "%s has no description", def.Name)
		assert.True(t, validCategories[def.Category], "%s has unknown category %q", def.Name, def.Category)

		require.NotNil(t, def.Parameters, "%s has no parameter schema", def.Name)
		assert.Equal(t, "object", def.Parameters["type"], "%s schema is not an object", def.Name)
	}

	for _, name := range expected {
		assert.True(t, seen[name], "catalog is missing %s", name)
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(CapQuote)
	require.True(t, ok)
	assert.Equal(t, CapQuote, def.Name)
	assert.Equal(t, CategoryMarketData, def.Category)

	_, ok = Lookup("get_quote_v2")
	assert.False(t, ok)
}

func TestCategoryMembersPreservesCatalogOrder(t *testing.T) {
	statements := CategoryMembers(CategoryFinancialStatements)
	assert.Equal(t, []string{
		CapIncomeStatements,
		CapIncomeStatementsQuarterly,
		CapBalanceSheetHistory,
		CapBalanceSheetQuarterly,
	}, statements)

	market := CategoryMembers(CategoryMarketData)
	assert.Equal(t, []string{CapQuote, CapQuoteList, CapPriceIndicators}, market)

	assert.Empty(t, CategoryMembers(Category("nonexistent")))
}

func TestToolDefinitions(t *testing.T) {
	defs := ToolDefinitions([]string{CapQuote, "not_in_catalog", CapSearchNews})
	require.Len(t, defs, 2)

	quote := defs[0]
	assert.Equal(t, "function", quote.Type)
	assert.Equal(t, CapQuote, quote.Function.Name)
	assert.NotEmpty(t, quote.Function.Description)

	props, ok := quote.Function.Parameters["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "tickers")
	assert.Contains(t, props, "range")
	assert.Contains(t, props, "interval")

	assert.Equal(t, CapSearchNews, defs[1].Function.Name)
}
