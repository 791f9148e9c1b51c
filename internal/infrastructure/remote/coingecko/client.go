package coingecko

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"coinbit-sync/internal/infrastructure/ratelimit"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	serviceName    = "coingecko"
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	endpointMarkets = "/coins/markets"
	endpointDetail  = "/coins/{id}"
	endpointChart   = "/coins/{id}/market_chart"
)

// Client implementa interfaces.RemoteSource contra la API de CoinGecko
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	vsCurrency   string
	perPage      int
	httpClient   *http.Client
	maxAttempts  uint
	retryDelay   time.Duration

	limiter *ratelimit.TokenBucket
	maxWait time.Duration
	counter *ratelimit.CallCounter
}

type Option func(*Client)

// WithRateLimiter makes every request wait for a token, at most maxWait
func WithRateLimiter(tb *ratelimit.TokenBucket, maxWait time.Duration) Option {
	return func(c *Client) {
		c.limiter = tb
		c.maxWait = maxWait
	}
}

// WithCallCounter tracks calls per window and warns near the limit
func WithCallCounter(counter *ratelimit.CallCounter) Option {
	return func(c *Client) { c.counter = counter }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.CoinGeckoConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		apiKeyHeader: cfg.APIKeyHeader,
		vsCurrency:   cfg.VsCurrency,
		perPage:      cfg.PerPage,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		maxAttempts:  1,
		retryDelay:   cfg.RetryDelay,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.vsCurrency == "" {
		c.vsCurrency = "usd"
	}
	if c.perPage <= 0 {
		c.perPage = 100
	}
	if cfg.MaxAttempts > 1 {
		c.maxAttempts = uint(cfg.MaxAttempts)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCoins obtiene la primera pagina del mercado ordenada por market cap
func (c *Client) FetchCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	query := url.Values{}
	query.Set("vs_currency", c.vsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(c.perPage))
	query.Set("page", "1")
	query.Set("sparkline", "false")
	query.Set("price_change_percentage", "24h")

	var rows []marketCoin
	if err := c.get(ctx, endpointMarkets, endpointMarkets, query, &rows); err != nil {
		return nil, err
	}

	coins := make([]entities.CoinSummary, 0, len(rows))
	for _, row := range rows {
		coins = append(coins, row.toEntity())
	}
	return coins, nil
}

func (c *Client) FetchCoinDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("market_data", "true")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")
	query.Set("sparkline", "false")

	var payload coinDetail
	path := "/coins/" + url.PathEscape(coinID)
	if err := c.get(ctx, endpointDetail, path, query, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		return nil, entities.NewNetworkError(entities.NetworkMalformed, endpointDetail, 0,
			fmt.Errorf("%w: missing id", ErrMalformedPayload))
	}
	return payload.toEntity(c.vsCurrency), nil
}

func (c *Client) FetchMarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error) {
	query := url.Values{}
	query.Set("vs_currency", c.vsCurrency)
	query.Set("days", strconv.Itoa(days))

	var payload marketChart
	path := "/coins/" + url.PathEscape(coinID) + "/market_chart"
	if err := c.get(ctx, endpointChart, path, query, &payload); err != nil {
		return nil, err
	}

	series, err := payload.toEntity(coinID, days)
	if err != nil {
		return nil, entities.NewNetworkError(entities.NetworkMalformed, endpointChart, 0, err)
	}
	return series, nil
}

// get runs the request once, or through retry-go when more attempts are configured
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	if c.maxAttempts <= 1 {
		return c.do(ctx, endpoint, path, query, out)
	}

	err := retry.Do(
		func() error { return c.do(ctx, endpoint, path, query, out) },
		retry.Attempts(c.maxAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordExternalAPIRetry(serviceName, endpoint, int(n+1))
			logging.Warn(ctx, "CoinGecko API retry attempt", logging.Fields{
				"service":      serviceName,
				"endpoint":     endpoint,
				"attempt":      n + 1,
				"max_attempts": c.maxAttempts,
				"error":        err.Error(),
			})
		}),
	)
	if err == nil {
		return nil
	}
	if _, ok := entities.AsNetworkError(err); ok {
		return err
	}
	// retry-go devuelve ctx.Err() si el contexto vence entre intentos
	return classifyTransport(endpoint, err)
}

func isRetryable(err error) bool {
	if netErr, ok := entities.AsNetworkError(err); ok {
		return netErr.Retryable()
	}
	return false
}

func (c *Client) do(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	if err := c.acquire(ctx, endpoint); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return entities.NewNetworkError(entities.NetworkTransport, endpoint, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" && c.apiKeyHeader != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	logging.Debug(ctx, "Making request to CoinGecko API", logging.Fields{
		"endpoint": endpoint,
		"path":     path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordExternalAPICall(serviceName, endpoint, 0, elapsed.Seconds())
		logging.ErrorWithError(ctx, "CoinGecko API request failed", err, logging.Fields{
			"endpoint":            endpoint,
			"request_duration_ms": float64(elapsed.Nanoseconds()) / 1e6,
		})
		return classifyTransport(endpoint, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	metrics.RecordExternalAPICall(serviceName, endpoint, resp.StatusCode, elapsed.Seconds())
	logging.ExternalRequest(ctx, serviceName, endpoint, float64(elapsed.Nanoseconds())/1e6, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return entities.NewNetworkError(entities.NetworkRateLimited, endpoint, resp.StatusCode,
			fmt.Errorf("%w: rate limited by coingecko", ErrUnexpectedStatus))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return entities.NewNetworkError(entities.NetworkHTTPStatus, endpoint, resp.StatusCode,
			fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// un timeout a mitad del body no es un payload malformado
		if isTimeout(err) {
			return entities.NewNetworkError(entities.NetworkTimeout, endpoint, 0, err)
		}
		return entities.NewNetworkError(entities.NetworkMalformed, endpoint, resp.StatusCode,
			fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}
	return nil
}

// acquire respeta el token bucket local y registra la llamada en la ventana
func (c *Client) acquire(ctx context.Context, endpoint string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.maxWait); err != nil {
			metrics.RecordRateLimitResult(serviceName, "blocked")
			if errors.Is(err, ratelimit.ErrWaitExceeded) {
				return entities.NewNetworkError(entities.NetworkRateLimited, endpoint, 0, ErrRateLimitWait)
			}
			return classifyTransport(endpoint, err)
		}
		metrics.RecordRateLimitResult(serviceName, "allowed")
		metrics.UpdateRateLimitTokens(serviceName, float64(c.limiter.Tokens()))
	}

	if c.counter != nil {
		status := c.counter.Track()
		metrics.UpdateCallsInWindow(serviceName, status.Count)
		if status.PreviousWindow > 0 {
			logging.Debug(ctx, "CoinGecko calls in last window", logging.Fields{"calls": status.PreviousWindow})
		}
		if status.Warning {
			logging.Warn(ctx, "Approaching CoinGecko rate limit", logging.Fields{
				"calls":    status.Count,
				"limit":    status.Limit,
				"endpoint": endpoint,
			})
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func classifyTransport(endpoint string, err error) error {
	if isTimeout(err) {
		return entities.NewNetworkError(entities.NetworkTimeout, endpoint, 0, err)
	}
	return entities.NewNetworkError(entities.NetworkTransport, endpoint, 0, err)
}
