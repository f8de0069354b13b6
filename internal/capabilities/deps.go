package capabilities

import (
	"context"

	"orquestra/internal/adapters/brapi"
	"orquestra/internal/adapters/tavily"
	"orquestra/pkg/logger"
)

// MarketDataClient is the brapi surface capabilities depend on. Declared here
// so tests can substitute a fake without standing up the HTTP client.
type MarketDataClient interface {
	Quote(ctx context.Context, params brapi.QuoteParams) (*brapi.QuoteResponse, error)
	QuoteList(ctx context.Context, params brapi.QuoteListParams) (*brapi.QuoteListResponse, error)
	Inflation(ctx context.Context, params brapi.SeriesParams) ([]brapi.SeriesPoint, error)
	PrimeRate(ctx context.Context, params brapi.SeriesParams) ([]brapi.SeriesPoint, error)
}

// NewsClient is the web search surface used by search_news.
type NewsClient interface {
	Search(ctx context.Context, query string) ([]tavily.Result, error)
}

// Deps bundles the external clients concrete capabilities call into.
type Deps struct {
	Market MarketDataClient
	News   NewsClient
	Log    *logger.Logger
}

// HasMarketData reports whether the market data client is wired.
func (d Deps) HasMarketData() bool {
	return d.Market != nil
}

// HasNews reports whether the news search client is wired.
func (d Deps) HasNews() bool {
	return d.News != nil
}
