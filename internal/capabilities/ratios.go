package capabilities

import (
	"context"

	"github.com/shopspring/decimal"

	"orquestra/internal/adapters/brapi"
	"orquestra/pkg/errors"
)

// NewFinancialRatiosCapability calculates liquidity, leverage and
// profitability ratios from each ticker's latest balance sheet and
// financialData module.
func NewFinancialRatiosCapability(deps Deps) Capability {
	def := mustDefinition(CapFinancialRatios)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", CapFinancialRatios)
		}
		tickers, err := tickersArg(args, "tickers")
		if err != nil {
			return nil, err
		}
		resp, err := deps.Market.Quote(ctx, brapi.QuoteParams{
			Tickers:     tickers,
			Fundamental: true,
			Modules: []string{
				brapi.ModuleBalanceSheetHistory,
				brapi.ModuleFinancialData,
			},
		})
		if err != nil {
			return nil, err
		}

		out := make(map[string]interface{}, len(resp.Results))
		for _, r := range resp.Results {
			sheets, err := r.DecodeBalanceSheets()
			if err != nil {
				return nil, err
			}
			data, err := r.DecodeFinancialData()
			if err != nil {
				return nil, err
			}
			if len(sheets) == 0 && data == nil {
				out[r.Symbol] = nil
				continue
			}
			out[r.Symbol] = ratiosFor(sheets, data)
		}
		return map[string]interface{}{"results": out}, nil
	})
}

// ratiosFor computes the ratio groups available from whichever inputs are
// present. Balance sheet arrays arrive most recent first.
func ratiosFor(sheets []brapi.BalanceSheet, data *brapi.FinancialData) map[string]interface{} {
	out := map[string]interface{}{}

	if len(sheets) > 0 {
		latest := sheets[0]
		out["period"] = latest.EndDate
		out["liquidity"] = map[string]interface{}{
			"current_ratio":   safeDiv(latest.TotalCurrentAssets, latest.TotalCurrentLiabilities),
			"cash_ratio":      safeDiv(latest.Cash, latest.TotalCurrentLiabilities),
			"working_capital": latest.TotalCurrentAssets - latest.TotalCurrentLiabilities,
		}
		out["leverage"] = map[string]interface{}{
			"debt_to_equity":    safeDiv(latest.TotalLiab, latest.TotalStockholderEquity),
			"equity_multiplier": safeDiv(latest.TotalAssets, latest.TotalStockholderEquity),
			"net_debt":          latest.ShortLongTermDebt + latest.LongTermDebt - latest.Cash,
		}
	}

	if data != nil {
		out["profitability"] = map[string]interface{}{
			"gross_margin":     round4(data.GrossMargins),
			"operating_margin": round4(data.OperatingMargins),
			"net_margin":       round4(data.ProfitMargins),
			"return_on_equity": round4(data.ReturnOnEquity),
			"return_on_assets": round4(data.ReturnOnAssets),
		}
	}

	return out
}

// safeDiv divides with exact decimal arithmetic, rounded to four places. A
// zero denominator yields nil instead of a panic from decimal.Div.
func safeDiv(numerator, denominator float64) interface{} {
	if denominator == 0 {
		return nil
	}
	return decimal.NewFromFloat(numerator).
		Div(decimal.NewFromFloat(denominator)).
		Round(4).
		InexactFloat64()
}

func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
