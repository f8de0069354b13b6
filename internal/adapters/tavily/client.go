package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"orquestra/internal/adapters/config"
	"orquestra/pkg/errors"
)

// Client is a minimal Tavily web search client used by the news capability.
type Client struct {
	baseURL    string
	apiKey     string
	maxResults int
	http       *http.Client
}

// Result is a single search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// NewClient builds a client from config.
func NewClient(cfg config.TavilyConfig) *Client {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

// Search runs a web search and returns up to the configured number of hits.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrUnavailable, "tavily API key not configured")
	}
	if query == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "search query is required")
	}

	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal tavily request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create tavily request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send tavily request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read tavily response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrExternal, "tavily API error (%d): %s",
			resp.StatusCode, string(respBody))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, errors.Wrap(err, "unmarshal tavily response")
	}

	return searchResp.Results, nil
}
