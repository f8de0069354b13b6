package brapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orquestra/internal/adapters/config"
	redisclient "orquestra/internal/adapters/redis"
	"orquestra/internal/testsupport"
)

func TestClientQuoteCachesResponses(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfgs := testsupport.LoadDatabaseConfigsFromEnv(t)
	raw := testsupport.NewRedisClient(t, cfgs.Redis)

	cache, err := redisclient.NewClient(cfgs.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	ticker := testsupport.UniqueName("CACHE")

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results": [{"symbol": %q, "regularMarketPrice": 38.2}]}`, ticker)
	}))
	t.Cleanup(server.Close)

	client := NewClient(config.BrapiConfig{
		Token:        "test-token",
		BaseURL:      server.URL,
		Timeout:      5 * time.Second,
		RateLimitRPS: 100,
		CacheTTL:     time.Minute,
	}, cache)

	ctx := context.Background()

	first, err := client.Quote(ctx, QuoteParams{Tickers: []string{ticker}})
	require.NoError(t, err)

	second, err := client.Quote(ctx, QuoteParams{Tickers: []string{ticker}})
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second call should be served from cache")
	require.Len(t, second.Results, 1)
	assert.Equal(t, first.Results[0].Symbol, second.Results[0].Symbol)

	keys, err := raw.Keys(ctx, "brapi:*").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, keys, "cached responses should land under the brapi prefix")
}
