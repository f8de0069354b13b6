package capabilities

import (
	"context"
	"encoding/json"

	"orquestra/internal/adapters/brapi"
	"orquestra/pkg/errors"
)

// The statement capabilities relay one fundamental module per call, keyed by
// ticker, exactly as the upstream API reports it. Keeping the payload raw
// means nothing the model might want to read is lost in translation.

// NewIncomeStatementsCapability returns annual income statement history.
func NewIncomeStatementsCapability(deps Deps) Capability {
	return newStatementCapability(deps, CapIncomeStatements, brapi.ModuleIncomeStatementHistory,
		func(r brapi.QuoteResult) json.RawMessage { return r.IncomeStatementHistory })
}

// NewIncomeStatementsQuarterlyCapability returns quarterly income statement history.
func NewIncomeStatementsQuarterlyCapability(deps Deps) Capability {
	return newStatementCapability(deps, CapIncomeStatementsQuarterly, brapi.ModuleIncomeStatementHistoryQuarterly,
		func(r brapi.QuoteResult) json.RawMessage { return r.IncomeStatementHistoryQuarterly })
}

// NewBalanceSheetHistoryCapability returns annual balance sheet history.
func NewBalanceSheetHistoryCapability(deps Deps) Capability {
	return newStatementCapability(deps, CapBalanceSheetHistory, brapi.ModuleBalanceSheetHistory,
		func(r brapi.QuoteResult) json.RawMessage { return r.BalanceSheetHistory })
}

// NewBalanceSheetQuarterlyCapability returns quarterly balance sheet history.
func NewBalanceSheetQuarterlyCapability(deps Deps) Capability {
	return newStatementCapability(deps, CapBalanceSheetQuarterly, brapi.ModuleBalanceSheetHistoryQuarterly,
		func(r brapi.QuoteResult) json.RawMessage { return r.BalanceSheetHistoryQuarterly })
}

// NewFinancialDataCapability returns the financialData metrics module.
func NewFinancialDataCapability(deps Deps) Capability {
	return newMetricsCapability(deps, CapFinancialData, brapi.ModuleFinancialData,
		func(r brapi.QuoteResult) json.RawMessage { return r.FinancialData })
}

// NewKeyStatisticsCapability returns the defaultKeyStatistics module.
func NewKeyStatisticsCapability(deps Deps) Capability {
	return newMetricsCapability(deps, CapKeyStatistics, brapi.ModuleDefaultKeyStatistics,
		func(r brapi.QuoteResult) json.RawMessage { return r.DefaultKeyStatistics })
}

// newStatementCapability builds a module-relay capability with a history
// range argument (default 5y).
func newStatementCapability(deps Deps, name, module string, pick func(brapi.QuoteResult) json.RawMessage) Capability {
	def := mustDefinition(name)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", name)
		}
		tickers, err := tickersArg(args, "tickers")
		if err != nil {
			return nil, err
		}
		resp, err := deps.Market.Quote(ctx, brapi.QuoteParams{
			Tickers:     tickers,
			Range:       stringArg(args, "range", "5y"),
			Fundamental: true,
			Modules:     []string{module},
		})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results": moduleByTicker(resp.Results, pick)}, nil
	})
}

// newMetricsCapability builds a module-relay capability without a range
// argument; the upstream modules carry only the latest snapshot.
func newMetricsCapability(deps Deps, name, module string, pick func(brapi.QuoteResult) json.RawMessage) Capability {
	def := mustDefinition(name)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", name)
		}
		tickers, err := tickersArg(args, "tickers")
		if err != nil {
			return nil, err
		}
		resp, err := deps.Market.Quote(ctx, brapi.QuoteParams{
			Tickers:     tickers,
			Fundamental: true,
			Modules:     []string{module},
		})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results": moduleByTicker(resp.Results, pick)}, nil
	})
}

// moduleByTicker maps each result's module payload by ticker. Tickers the
// API knows but has no module data for come back null, matching upstream.
func moduleByTicker(results []brapi.QuoteResult, pick func(brapi.QuoteResult) json.RawMessage) map[string]interface{} {
	out := make(map[string]interface{}, len(results))
	for _, r := range results {
		if raw := pick(r); len(raw) > 0 {
			out[r.Symbol] = raw
		} else {
			out[r.Symbol] = nil
		}
	}
	return out
}
