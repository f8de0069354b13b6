package capabilities

import (
	"context"
	"math"
	"strconv"

	"github.com/markcheno/go-talib"

	"orquestra/internal/adapters/brapi"
	"orquestra/pkg/errors"
	"orquestra/pkg/templates"
)

// NewQuoteCapability returns quotes and price history for one or more tickers.
func NewQuoteCapability(deps Deps) Capability {
	def := mustDefinition(CapQuote)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", CapQuote)
		}
		tickers, err := tickersArg(args, "tickers")
		if err != nil {
			return nil, err
		}
		resp, err := deps.Market.Quote(ctx, brapi.QuoteParams{
			Tickers:     tickers,
			Range:       stringArg(args, "range", "1d"),
			Interval:    stringArg(args, "interval", "1d"),
			Fundamental: boolArg(args, "fundamental", false),
		})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results": resp.Results}, nil
	})
}

// NewQuoteListCapability searches and ranks the stock screener.
func NewQuoteListCapability(deps Deps) Capability {
	def := mustDefinition(CapQuoteList)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", CapQuoteList)
		}
		resp, err := deps.Market.QuoteList(ctx, brapi.QuoteListParams{
			Search:    stringArg(args, "search", ""),
			SortBy:    stringArg(args, "sort_by", ""),
			SortOrder: stringArg(args, "sort_order", ""),
			Limit:     intArg(args, "limit", 0),
			Sector:    stringArg(args, "sector", ""),
		})
		if err != nil {
			return nil, err
		}
		out := map[string]interface{}{"stocks": resp.Stocks}
		if len(resp.Indexes) > 0 {
			out["indexes"] = resp.Indexes
		}
		if resp.TotalCount > 0 {
			out["total_count"] = resp.TotalCount
		}
		return out, nil
	})
}

// Minimum candle counts per indicator. MACD(12,26,9) is the tallest
// requirement; below it the remaining indicators still compute.
const (
	indicatorMinCandles = 20
	macdMinCandles      = 34
)

// NewPriceIndicatorsCapability computes SMA/EMA/RSI/MACD over a ticker's
// price history.
func NewPriceIndicatorsCapability(deps Deps) Capability {
	def := mustDefinition(CapPriceIndicators)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", CapPriceIndicators)
		}
		ticker := stringArg(args, "ticker", "")
		if ticker == "" {
			return nil, errors.Wrap(errors.ErrInvalidInput, "ticker is required")
		}
		rng := stringArg(args, "range", "3mo")
		interval := stringArg(args, "interval", "1d")

		resp, err := deps.Market.Quote(ctx, brapi.QuoteParams{
			Tickers:  []string{ticker},
			Range:    rng,
			Interval: interval,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Results) == 0 {
			return nil, errors.Wrapf(errors.ErrTickerNotFound, "no results for %s", ticker)
		}

		result := resp.Results[0]
		closes := chronologicalCloses(result.HistoricalDataPrice)
		if len(closes) < indicatorMinCandles {
			return nil, errors.Wrapf(errors.ErrInvalidInput,
				"%s: %s returned %d candles for range %s, need at least %d",
				CapPriceIndicators, result.Symbol, len(closes), rng, indicatorMinCandles)
		}

		lastClose := closes[len(closes)-1]
		out := map[string]interface{}{
			"ticker":     result.Symbol,
			"range":      rng,
			"interval":   interval,
			"candles":    len(closes),
			"last_close": lastClose,
		}
		digest := map[string]interface{}{
			"Ticker":     result.Symbol,
			"Range":      rng,
			"Interval":   interval,
			"Samples":    len(closes),
			"LastClose":  formatValue(lastClose),
			"SMA20":      "n/a",
			"EMA9":       "n/a",
			"RSI14":      "n/a",
			"RSISignal":  "n/a",
			"MACD":       "n/a",
			"MACDSignal": "n/a",
			"MACDHist":   "n/a",
			"Trend":      "n/a",
		}

		if v, err := lastValue(talib.Sma(closes, 20)); err == nil {
			out["sma_20"] = round2(v)
			digest["SMA20"] = formatValue(v)
			switch {
			case lastClose > v:
				digest["Trend"] = "price above SMA(20)"
			case lastClose < v:
				digest["Trend"] = "price below SMA(20)"
			default:
				digest["Trend"] = "price at SMA(20)"
			}
		}
		if v, err := lastValue(talib.Ema(closes, 9)); err == nil {
			out["ema_9"] = round2(v)
			digest["EMA9"] = formatValue(v)
		}

		if rsi, err := lastValue(talib.Rsi(closes, 14)); err == nil {
			signal := "neutral"
			switch {
			case rsi < 30:
				signal = "oversold"
			case rsi > 70:
				signal = "overbought"
			case rsi > 50:
				signal = "bullish"
			default:
				signal = "bearish"
			}
			out["rsi_14"] = map[string]interface{}{
				"value":  round2(rsi),
				"signal": signal,
			}
			digest["RSI14"] = formatValue(rsi)
			digest["RSISignal"] = signal
		}

		if len(closes) >= macdMinCandles {
			macdLine, signalLine, histogram := talib.Macd(closes, 12, 26, 9)
			if line, err := lastValue(macdLine); err == nil {
				signal, _ := lastValue(signalLine)
				hist, _ := lastValue(histogram)

				direction := "neutral"
				switch {
				case line > signal && hist > 0:
					direction = "bullish"
				case line < signal && hist < 0:
					direction = "bearish"
				case line > signal:
					direction = "bullish_cross"
				default:
					direction = "bearish_cross"
				}

				out["macd"] = map[string]interface{}{
					"line":      round2(line),
					"signal":    round2(signal),
					"histogram": round2(hist),
					"direction": direction,
				}
				digest["MACD"] = formatValue(line)
				digest["MACDSignal"] = formatValue(signal)
				digest["MACDHist"] = formatValue(hist)
			}
		}

		if text, err := templates.Get().Render("capabilities/price_indicators", digest); err == nil {
			out["summary"] = text
		}

		return out, nil
	})
}

// chronologicalCloses extracts close prices oldest-first, the order ta-lib
// expects.
func chronologicalCloses(points []brapi.PricePoint) []float64 {
	closes := make([]float64, 0, len(points))
	if len(points) > 1 && points[0].Date > points[len(points)-1].Date {
		for i := len(points) - 1; i >= 0; i-- {
			closes = append(closes, points[i].Close)
		}
		return closes
	}
	for _, p := range points {
		closes = append(closes, p.Close)
	}
	return closes
}

// lastValue returns the most recent value from a ta-lib output array.
func lastValue(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrapf(errors.ErrInternal, "no values returned from indicator")
	}
	return values[len(values)-1], nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatValue(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 2, 64)
}
