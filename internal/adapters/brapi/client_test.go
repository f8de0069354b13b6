package brapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orquestra/internal/adapters/config"
	"orquestra/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.BrapiConfig{
		Token:        "test-token",
		BaseURL:      server.URL,
		Timeout:      5 * time.Second,
		RateLimitRPS: 100,
		CacheTTL:     time.Minute,
	}, nil)
}

func TestClientQuote(t *testing.T) {
	var gotPath, gotToken, gotModules string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		gotModules = r.URL.Query().Get("modules")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quoteFixture))
	})

	resp, err := client.Quote(context.Background(), QuoteParams{
		Tickers:     []string{"petr4"},
		Range:       "5y",
		Fundamental: true,
		Modules:     []string{ModuleBalanceSheetHistory},
	})
	require.NoError(t, err)

	assert.Equal(t, "/quote/PETR4", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "balanceSheetHistory", gotModules)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "PETR4", resp.Results[0].Symbol)
}

func TestClientQuoteUnknownTicker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": true, "message": "Couldn't find any range or interval for this ticker"}`))
	})

	_, err := client.Quote(context.Background(), QuoteParams{Tickers: []string{"NOPE11"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTickerNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "Couldn't find")
}

func TestClientQuoteEmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	_, err := client.Quote(context.Background(), QuoteParams{Tickers: []string{"PETR4"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTickerNotFound))
}

func TestClientQuoteInvalidParamsSkipRequest(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Quote(context.Background(), QuoteParams{Tickers: []string{"PETR4"}, Range: "bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRange))
	assert.False(t, called, "invalid params must not reach the API")
}

func TestClientAuthErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": true, "message": "invalid token"}`))
	})

	_, err := client.Quote(context.Background(), QuoteParams{Tickers: []string{"PETR4"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternal))
}

func TestClientRateLimitedByAPI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": true, "message": "too many requests"}`))
	})

	_, err := client.QuoteList(context.Background(), QuoteListParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
}

func TestClientSeriesEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brazil", r.URL.Query().Get("country"))

		switch r.URL.Path {
		case "/v2/inflation":
			_, _ = w.Write([]byte(`{"inflation":[{"date":"01/06/2024","value":"0.21"}]}`))
		case "/v2/prime-rate":
			_, _ = w.Write([]byte(`{"prime-rate":[{"date":"01/06/2024","value":"10.50"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	inflation, err := client.Inflation(context.Background(), SeriesParams{Historical: true})
	require.NoError(t, err)
	require.Len(t, inflation, 1)
	assert.Equal(t, "0.21", inflation[0].Value)

	prime, err := client.PrimeRate(context.Background(), SeriesParams{Historical: true})
	require.NoError(t, err)
	require.Len(t, prime, 1)
	assert.Equal(t, "10.50", prime[0].Value)
}
