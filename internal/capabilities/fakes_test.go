package capabilities

import (
	"context"

	"orquestra/internal/adapters/brapi"
	"orquestra/internal/adapters/tavily"
)

// fakeMarket records the parameters of the last call and replays canned
// responses.
type fakeMarket struct {
	lastQuote     brapi.QuoteParams
	lastQuoteList brapi.QuoteListParams
	lastSeries    brapi.SeriesParams

	quoteResp     *brapi.QuoteResponse
	quoteErr      error
	quoteListResp *brapi.QuoteListResponse
	quoteListErr  error
	seriesPoints  []brapi.SeriesPoint
	seriesErr     error
}

func (f *fakeMarket) Quote(_ context.Context, params brapi.QuoteParams) (*brapi.QuoteResponse, error) {
	f.lastQuote = params
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quoteResp, nil
}

func (f *fakeMarket) QuoteList(_ context.Context, params brapi.QuoteListParams) (*brapi.QuoteListResponse, error) {
	f.lastQuoteList = params
	if f.quoteListErr != nil {
		return nil, f.quoteListErr
	}
	return f.quoteListResp, nil
}

func (f *fakeMarket) Inflation(_ context.Context, params brapi.SeriesParams) ([]brapi.SeriesPoint, error) {
	f.lastSeries = params
	return f.seriesPoints, f.seriesErr
}

func (f *fakeMarket) PrimeRate(_ context.Context, params brapi.SeriesParams) ([]brapi.SeriesPoint, error) {
	f.lastSeries = params
	return f.seriesPoints, f.seriesErr
}

type fakeNews struct {
	lastQuery string
	results   []tavily.Result
	err       error
}

func (f *fakeNews) Search(_ context.Context, query string) ([]tavily.Result, error) {
	f.lastQuery = query
	return f.results, f.err
}
