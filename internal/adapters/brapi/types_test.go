package brapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteFixture = `{
	"results": [{
		"symbol": "PETR4",
		"shortName": "PETROBRAS PN",
		"currency": "BRL",
		"regularMarketPrice": 38.21,
		"regularMarketChangePercent": 1.42,
		"historicalDataPrice": [
			{"date": 1718236800, "open": 37.1, "high": 38.5, "low": 36.9, "close": 38.2, "volume": 51000000}
		],
		"balanceSheetHistory": [
			{"endDate": "2023-12-31", "totalCurrentAssets": 168000000000, "totalCurrentLiabilities": 120000000000, "totalStockholderEquity": 380000000000, "totalLiab": 660000000000}
		],
		"financialData": {"currentPrice": 38.21, "returnOnEquity": 0.29, "debtToEquity": 81.2, "profitMargins": 0.24},
		"defaultKeyStatistics": {"priceToBook": 1.3, "trailingEps": 9.4}
	}],
	"requestedAt": "2025-03-15T12:00:00.000Z",
	"took": "3ms"
}`

func TestQuoteResponseDecoding(t *testing.T) {
	var resp QuoteResponse
	require.NoError(t, json.Unmarshal([]byte(quoteFixture), &resp))
	require.Len(t, resp.Results, 1)

	result := resp.Results[0]
	assert.Equal(t, "PETR4", result.Symbol)
	assert.InDelta(t, 38.21, result.RegularMarketPrice, 0.001)
	require.Len(t, result.HistoricalDataPrice, 1)
	assert.InDelta(t, 38.2, result.HistoricalDataPrice[0].Close, 0.001)

	sheets, err := result.DecodeBalanceSheets()
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "2023-12-31", sheets[0].EndDate)
	assert.InDelta(t, 380000000000, sheets[0].TotalStockholderEquity, 1)

	fin, err := result.DecodeFinancialData()
	require.NoError(t, err)
	require.NotNil(t, fin)
	assert.InDelta(t, 0.29, fin.ReturnOnEquity, 0.001)

	stats, err := result.DecodeKeyStatistics()
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.InDelta(t, 1.3, stats.PriceToBook, 0.001)
}

func TestDecodeHelpersOnEmptyModules(t *testing.T) {
	result := QuoteResult{Symbol: "VALE3"}

	sheets, err := result.DecodeBalanceSheets()
	require.NoError(t, err)
	assert.Nil(t, sheets)

	fin, err := result.DecodeFinancialData()
	require.NoError(t, err)
	assert.Nil(t, fin)

	stats, err := result.DecodeKeyStatistics()
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestSeriesEnvelopes(t *testing.T) {
	var infl inflationResponse
	require.NoError(t, json.Unmarshal([]byte(`{"inflation":[{"date":"01/06/2024","value":"0.21","epochDate":1717200000000}]}`), &infl))
	require.Len(t, infl.Inflation, 1)
	assert.Equal(t, "0.21", infl.Inflation[0].Value)

	var prime primeRateResponse
	require.NoError(t, json.Unmarshal([]byte(`{"prime-rate":[{"date":"01/06/2024","value":"10.50"}]}`), &prime))
	require.Len(t, prime.PrimeRate, 1)
	assert.Equal(t, "10.50", prime.PrimeRate[0].Value)
}
