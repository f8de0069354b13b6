package brapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"orquestra/internal/adapters/config"
	redisadapter "orquestra/internal/adapters/redis"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
)

// seriesCacheTTL covers the monthly macro series, which move far slower than
// quotes; quote and screener responses use the configured TTL.
const seriesCacheTTL = 6 * time.Hour

// Client is a typed brapi.dev API client with request throttling and an
// optional redis response cache.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	cache    *redisadapter.Client
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewClient builds a client from config. cache may be nil, in which case
// every call goes straight to the API.
func NewClient(cfg config.BrapiConfig, cache *redisadapter.Client) *Client {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 3
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		log:      logger.Get().With("component", "brapi"),
	}
}

// Quote fetches quotes, price history and fundamental modules for tickers.
func (c *Client) Quote(ctx context.Context, params QuoteParams) (*QuoteResponse, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var resp QuoteResponse
	if err := c.get(ctx, params.path(), params.query(), c.cacheTTL, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, errors.Wrapf(errors.ErrTickerNotFound, "no results for %s", params.path())
	}

	return &resp, nil
}

// QuoteList fetches the stock screener with optional filtering and sorting.
func (c *Client) QuoteList(ctx context.Context, params QuoteListParams) (*QuoteListResponse, error) {
	var resp QuoteListResponse
	if err := c.get(ctx, "/quote/list", params.query(), c.cacheTTL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Inflation fetches the Brazilian IPCA inflation series.
func (c *Client) Inflation(ctx context.Context, params SeriesParams) ([]SeriesPoint, error) {
	var resp inflationResponse
	if err := c.get(ctx, "/v2/inflation", params.query(time.Now()), seriesCacheTTL, &resp); err != nil {
		return nil, err
	}
	return resp.Inflation, nil
}

// PrimeRate fetches the Brazilian SELIC prime rate series.
func (c *Client) PrimeRate(ctx context.Context, params SeriesParams) ([]SeriesPoint, error) {
	var resp primeRateResponse
	if err := c.get(ctx, "/v2/prime-rate", params.query(time.Now()), seriesCacheTTL, &resp); err != nil {
		return nil, err
	}
	return resp.PrimeRate, nil
}

// get performs a cached GET against the API. The cache key excludes the
// token, which is appended only to the outgoing request.
func (c *Client) get(ctx context.Context, path string, query url.Values, ttl time.Duration, out interface{}) error {
	cacheKey := "brapi:" + path
	if encoded := query.Encode(); encoded != "" {
		cacheKey += "?" + encoded
	}

	if c.cache != nil {
		if err := c.cache.Get(ctx, cacheKey, out); err == nil {
			c.log.Debugf("brapi cache hit: %s", cacheKey)
			return nil
		} else if !redisadapter.IsNotFound(err) {
			c.log.Warnf("brapi cache read failed for %s: %v", cacheKey, err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "brapi rate limiter")
	}

	query.Set("token", c.token)
	reqURL := c.baseURL + path + "?" + query.Encode()

	c.log.Debugf("brapi request: %s", path) // token stays out of logs

	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "create brapi request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "send brapi request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read brapi response")
	}

	if resp.StatusCode != http.StatusOK {
		return c.mapError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "unmarshal brapi response")
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, out, ttl); err != nil {
			c.log.Warnf("brapi cache write failed for %s: %v", cacheKey, err)
		}
	}

	return nil
}

func (c *Client) mapError(status int, body []byte) error {
	var apiErr apiError
	message := string(body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		message = apiErr.Message
	}

	switch status {
	case http.StatusBadRequest:
		return errors.Wrapf(errors.ErrInvalidInput, "brapi: %s", message)
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		return errors.Wrapf(errors.ErrExternal, "brapi auth (%d): %s", status, message)
	case http.StatusNotFound:
		return errors.Wrapf(errors.ErrTickerNotFound, "brapi: %s", message)
	case http.StatusTooManyRequests:
		return errors.Wrapf(errors.ErrRateLimitExceeded, "brapi: %s", message)
	default:
		return errors.Wrapf(errors.ErrExternal, "brapi (%d): %s", status, message)
	}
}
