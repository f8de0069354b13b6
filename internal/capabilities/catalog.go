package capabilities

import (
	"orquestra/internal/adapters/ai"
	"orquestra/internal/adapters/brapi"
)

// Category groups capabilities by the kind of analysis they support. Agent
// allow-lists are granted per category.
type Category string

const (
	CategoryFinancialStatements Category = "financial-statements"
	CategoryMarketData          Category = "market-data"
	CategoryAnalysisRatios      Category = "analysis-ratios"
	CategoryEconomicIndicators  Category = "economic-indicators"
	CategoryNewsSearch          Category = "news-search"
)

// Capability names. Registration, the catalog and agent allow-lists all key
// off these.
const (
	CapIncomeStatements          = "get_income_statements"
	CapIncomeStatementsQuarterly = "get_income_statement_history_quarterly"
	CapBalanceSheetHistory       = "get_balance_sheet_history"
	CapBalanceSheetQuarterly     = "get_balance_sheet_history_quarterly"
	CapQuote                     = "get_quote"
	CapQuoteList                 = "get_quote_list"
	CapPriceIndicators           = "get_price_indicators"
	CapFinancialData             = "get_financial_data"
	CapKeyStatistics             = "get_default_key_statistics"
	CapFinancialRatios           = "get_financial_ratios"
	CapInflation                 = "get_inflation"
	CapPrimeRate                 = "get_prime_rate"
	CapSearchNews                = "search_news"
)

// Definition describes a capability's metadata for registration, agent
// allow-lists and the function declarations sent to the model.
type Definition struct {
	Name        string
	Description string
	Category    Category
	Parameters  map[string]interface{}
}

// definitions enumerates the full capability catalog. Parameter maps are
// JSON Schema objects in the shape every provider's function-calling API
// accepts.
var definitions = []Definition{
	{
		Name:        CapIncomeStatements,
		Description: "Get annual income statement history for Brazilian stocks (revenue, costs, operating income, net income)",
		Category:    CategoryFinancialStatements,
		Parameters:  tickersWithRangeSchema("5y"),
	},
	{
		Name:        CapIncomeStatementsQuarterly,
		Description: "Get quarterly income statement history for Brazilian stocks",
		Category:    CategoryFinancialStatements,
		Parameters:  tickersWithRangeSchema("5y"),
	},
	{
		Name:        CapBalanceSheetHistory,
		Description: "Get annual balance sheet history for Brazilian stocks (assets, liabilities, equity, debt)",
		Category:    CategoryFinancialStatements,
		Parameters:  tickersWithRangeSchema("5y"),
	},
	{
		Name:        CapBalanceSheetQuarterly,
		Description: "Get quarterly balance sheet history for Brazilian stocks",
		Category:    CategoryFinancialStatements,
		Parameters:  tickersWithRangeSchema("5y"),
	},
	{
		Name:        CapQuote,
		Description: "Get current quotes and price history for Brazilian stocks, including day range, 52-week range and OHLCV candles",
		Category:    CategoryMarketData,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"tickers": tickersProperty(),
				"range": map[string]interface{}{
					"type":        "string",
					"description": "History window (default 1d)",
					"enum":        brapi.ValidRanges,
				},
				"interval": map[string]interface{}{
					"type":        "string",
					"description": "Candle interval (default 1d)",
					"enum":        brapi.ValidIntervals,
				},
				"fundamental": map[string]interface{}{
					"type":        "boolean",
					"description": "Include P/E and earnings per share (default false)",
				},
			},
			"required": []string{"tickers"},
		},
	},
	{
		Name:        CapQuoteList,
		Description: "Search and rank the Brazilian stock list (B3 screener) by name, sector, volume, market cap or price change",
		Category:    CategoryMarketData,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Filter by ticker or company name fragment",
				},
				"sort_by": map[string]interface{}{
					"type":        "string",
					"description": "Field to sort by",
					"enum":        []string{"name", "close", "change", "change_abs", "volume", "market_cap_basic", "sector"},
				},
				"sort_order": map[string]interface{}{
					"type":        "string",
					"description": "Sort direction (default desc)",
					"enum":        []string{"asc", "desc"},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum rows to return",
				},
				"sector": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one sector, e.g. Energy Minerals or Finance",
				},
			},
		},
	},
	{
		Name:        CapPriceIndicators,
		Description: "Compute technical indicators (SMA, EMA, RSI, MACD) from a Brazilian stock's price history",
		Category:    CategoryMarketData,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"ticker": map[string]interface{}{
					"type":        "string",
					"description": "Single ticker symbol, e.g. PETR4",
				},
				"range": map[string]interface{}{
					"type":        "string",
					"description": "History window to compute over (default 3mo)",
					"enum":        brapi.ValidRanges,
				},
				"interval": map[string]interface{}{
					"type":        "string",
					"description": "Candle interval (default 1d)",
					"enum":        brapi.ValidIntervals,
				},
			},
			"required": []string{"ticker"},
		},
	},
	{
		Name:        CapFinancialData,
		Description: "Get key financial metrics for Brazilian stocks (margins, returns, debt, cash flow, growth)",
		Category:    CategoryAnalysisRatios,
		Parameters:  tickersOnlySchema(),
	},
	{
		Name:        CapKeyStatistics,
		Description: "Get valuation statistics for Brazilian stocks (enterprise value, P/B, EPS, dividend yield, shares outstanding)",
		Category:    CategoryAnalysisRatios,
		Parameters:  tickersOnlySchema(),
	},
	{
		Name:        CapFinancialRatios,
		Description: "Calculate liquidity, leverage and profitability ratios for Brazilian stocks from their latest balance sheet and financial data",
		Category:    CategoryAnalysisRatios,
		Parameters:  tickersOnlySchema(),
	},
	{
		Name:        CapInflation,
		Description: "Fetch the Brazilian IPCA inflation series",
		Category:    CategoryEconomicIndicators,
		Parameters:  seriesSchema(),
	},
	{
		Name:        CapPrimeRate,
		Description: "Fetch the Brazilian SELIC prime rate series",
		Category:    CategoryEconomicIndicators,
		Parameters:  seriesSchema(),
	},
	{
		Name:        CapSearchNews,
		Description: "Search recent web news and articles about companies, markets or economic events",
		Category:    CategoryNewsSearch,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
	},
}

func tickersProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Ticker symbol or comma-separated list, e.g. PETR4 or PETR4,VALE3",
	}
}

func tickersOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"tickers": tickersProperty(),
		},
		"required": []string{"tickers"},
	}
}

func tickersWithRangeSchema(defaultRange string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"tickers": tickersProperty(),
			"range": map[string]interface{}{
				"type":        "string",
				"description": "History window (default " + defaultRange + ")",
				"enum":        brapi.ValidRanges,
			},
		},
		"required": []string{"tickers"},
	}
}

func seriesSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"historical": map[string]interface{}{
				"type":        "boolean",
				"description": "Return the full series instead of the latest value (default true)",
			},
			"start": map[string]interface{}{
				"type":        "string",
				"description": "Start date as DD/MM/YYYY (default two years ago)",
			},
			"end": map[string]interface{}{
				"type":        "string",
				"description": "End date as DD/MM/YYYY (default today)",
			},
		},
	}
}

// Definitions exposes a copy of the full catalog.
func Definitions() []Definition {
	defs := make([]Definition, len(definitions))
	copy(defs, definitions)
	return defs
}

// Lookup finds a catalog entry by capability name.
func Lookup(name string) (Definition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// CategoryMembers lists the capability names in a category, in catalog order.
func CategoryMembers(category Category) []string {
	var names []string
	for _, def := range definitions {
		if def.Category == category {
			names = append(names, def.Name)
		}
	}
	return names
}

// mustDefinition resolves a catalog entry for a known name. Constructors use
// it so descriptions live in one place; an unknown name is a programming
// error.
func mustDefinition(name string) Definition {
	def, ok := Lookup(name)
	if !ok {
		panic("capabilities: no catalog entry for " + name)
	}
	return def
}

// ToolDefinition converts the catalog entry into the function-declaration
// format chat providers accept.
func (d Definition) ToolDefinition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Type: "function",
		Function: ai.FunctionDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		},
	}
}

// ToolDefinitions resolves catalog entries for the given capability names,
// preserving order. Names without a catalog entry are skipped.
func ToolDefinitions(names []string) []ai.ToolDefinition {
	defs := make([]ai.ToolDefinition, 0, len(names))
	for _, name := range names {
		if def, ok := Lookup(name); ok {
			defs = append(defs, def.ToolDefinition())
		}
	}
	return defs
}
