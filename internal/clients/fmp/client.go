// Package fmp is the Financial Modeling Prep client. It serves both the raw
// same-origin proxy and the typed domain.Provider used by the valuation pipeline.
package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/graham/internal/clientdata"
	"github.com/aristath/graham/internal/domain"
)

const (
	// DefaultBaseURL is the base URL of the FMP stable API.
	DefaultBaseURL = "https://financialmodelingprep.com/stable"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	maxResponseBytes = 10 << 20
)

// Client fetches FMP resources through a persistent cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cacheRepo  *clientdata.Repository
	log        zerolog.Logger

	mu     sync.RWMutex
	apiKey string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit. Non-positive values keep the default.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithCache enables the persistent response cache. Without it every call goes upstream.
func WithCache(repo *clientdata.Repository) ClientOption {
	return func(c *Client) {
		c.cacheRepo = repo
	}
}

// NewClient creates a new FMP client.
func NewClient(apiKey string, log zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:        log.With().Str("client", "fmp").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetAPIKey replaces the API key used for subsequent requests.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(apiKey)
	c.mu.Unlock()
}

// HasAPIKey reports whether an API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.key() != ""
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Fetch returns the upstream JSON body for a resource. Fresh cached bodies are
// served without a request; when the request fails a stale cached body is
// served instead, if there is one.
func (c *Client) Fetch(ctx context.Context, resource Resource, symbol string) (json.RawMessage, error) {
	def, ok := resources[resource]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	symbol = strings.TrimSpace(symbol)
	cacheKey := treasurySeries
	if def.perSymbol {
		if symbol == "" {
			return nil, fmt.Errorf("%s requires a symbol", resource)
		}
		cacheKey = strings.ToUpper(symbol)
	}

	apiKey := c.key()
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if data := c.fromCache(ctx, def.table, cacheKey, true); data != nil {
		c.log.Debug().Str("resource", string(resource)).Str("key", cacheKey).Msg("Cache hit")
		return data, nil
	}

	params := url.Values{}
	if def.perSymbol {
		params.Set("symbol", symbol)
	}
	params.Set("apikey", apiKey)

	data, err := c.get(ctx, def.endpoint, params)
	if err != nil {
		if stale := c.fromCache(ctx, def.table, cacheKey, false); stale != nil {
			c.log.Warn().
				Err(err).
				Str("resource", string(resource)).
				Str("key", cacheKey).
				Msg("API failed, using stale cached data")
			return stale, nil
		}
		return nil, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(ctx, def.table, cacheKey, data, clientdata.TTLFor(def.table)); err != nil {
			c.log.Warn().Err(err).Str("resource", string(resource)).Msg("Failed to cache response")
		}
	}

	return data, nil
}

func (c *Client) fromCache(ctx context.Context, table, key string, freshOnly bool) json.RawMessage {
	if c.cacheRepo == nil {
		return nil
	}

	var (
		data json.RawMessage
		err  error
	)
	if freshOnly {
		data, err = c.cacheRepo.GetIfFresh(ctx, table, key)
	} else {
		data, err = c.cacheRepo.Get(ctx, table, key)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("table", table).Msg("Cache read failed")
		return nil
	}
	return data
}

// get performs a GET request and returns the body if it is valid JSON.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{Err: err}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", c.baseURL+path).Str("symbol", params.Get("symbol")).Msg("FMP API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON from %s", path)
	}

	return json.RawMessage(body), nil
}

func fetchRecords[T any](ctx context.Context, c *Client, resource Resource, symbol string) ([]T, error) {
	data, err := c.Fetch(ctx, resource, symbol)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return records, nil
}

// GetEarnings returns the earnings reports for a symbol, most recent first.
func (c *Client) GetEarnings(ctx context.Context, symbol string) ([]domain.EarningsReport, error) {
	records, err := fetchRecords[earningsRecord](ctx, c, ResourceEarnings, symbol)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.EarningsReport, 0, len(records))
	for _, r := range records {
		reports = append(reports, r.toDomain())
	}
	return reports, nil
}

// GetOutstandingShares returns the outstanding share count from the first
// shares-float record. A missing or zero count is absent.
func (c *Client) GetOutstandingShares(ctx context.Context, symbol string) (*float64, error) {
	records, err := fetchRecords[sharesFloatRecord](ctx, c, ResourceShares, symbol)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return nonZero(records[0].OutstandingShares), nil
}

// GetTreasuryRates returns the treasury curve, most recent first.
func (c *Client) GetTreasuryRates(ctx context.Context) ([]domain.TreasuryCurvePoint, error) {
	records, err := fetchRecords[treasuryRecord](ctx, c, ResourceTreasury, "")
	if err != nil {
		return nil, err
	}

	points := make([]domain.TreasuryCurvePoint, 0, len(records))
	for _, r := range records {
		points = append(points, r.toDomain())
	}
	return points, nil
}

// GetCompanyProfile returns the first profile record, or nil.
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*domain.CompanyProfile, error) {
	records, err := fetchRecords[profileRecord](ctx, c, ResourceProfile, symbol)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	profile := records[0].toDomain()
	return &profile, nil
}

// GetMarketCap returns the first market-cap value. A missing or zero value is absent.
func (c *Client) GetMarketCap(ctx context.Context, symbol string) (*float64, error) {
	records, err := fetchRecords[marketCapRecord](ctx, c, ResourceMarketCap, symbol)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return nonZero(records[0].MarketCap), nil
}

// GetDividends returns dividend events, most recent first.
func (c *Client) GetDividends(ctx context.Context, symbol string) ([]domain.DividendEvent, error) {
	records, err := fetchRecords[dividendRecord](ctx, c, ResourceDividends, symbol)
	if err != nil {
		return nil, err
	}

	events := make([]domain.DividendEvent, 0, len(records))
	for _, r := range records {
		events = append(events, r.toDomain())
	}
	return events, nil
}

// IsMissingAPIKey reports whether err was caused by a missing API key.
func IsMissingAPIKey(err error) bool {
	return errors.Is(err, ErrMissingAPIKey)
}

var _ domain.Provider = (*Client)(nil)
