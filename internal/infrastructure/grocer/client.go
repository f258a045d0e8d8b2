package grocer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trolleywatch/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 12 * time.Second
	defaultCacheTTL = 45 * time.Second
	maxAttempts     = 3
	maxBodyBytes    = 1 << 20 // 1 MiB cap on upstream response bodies
)

// endpoint is the fixed host/path pair for one provider's search API.
type endpoint struct {
	host string
	path string
}

// endpoints is the static table of supported providers. Unknown stores are
// rejected at the boundary by domain.ParseStore, but the table is the
// authority for what the client can actually reach.
var endpoints = map[domain.Store]endpoint{
	domain.StoreColes:      {host: "coles-product-price-api.p.rapidapi.com", path: "/coles/product-search/"},
	domain.StoreWoolworths: {host: "woolworths-products-api.p.rapidapi.com", path: "/woolworths/product-search/"},
}

// searchResponse is the upstream body shape. A missing results field
// decodes to nil and is treated as an empty result set, not an error.
type searchResponse struct {
	Results []map[string]interface{} `json:"results"`
}

// ClientConfig holds construction parameters for the search client.
type ClientConfig struct {
	APIKey            string
	Timeout           time.Duration
	CacheTTL          time.Duration
	RequestsPerSecond float64
	Burst             int

	// BaseURL overrides the per-store https host, for tests against a
	// local server. The store's host header is still sent.
	BaseURL string
}

// Client performs authenticated product searches against the supported
// grocery providers, memoizing normalized results in the shared cache.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new provider search client
func NewClient(cfg ClientConfig, cache domain.CacheRepository) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		cache:       cache,
		cacheTTL:    cacheTTL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[GROCER] "+format, args...)
	}
}

// Search queries one provider for the given term, returning normalized
// product records. Results are served from cache when a fresh entry
// exists for the same (store, query, page, pageSize) key.
func (c *Client) Search(ctx context.Context, store domain.Store, query string, page, pageSize int) ([]domain.Product, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	ep, ok := endpoints[store]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStore, store)
	}

	key := cacheKey(store, query, page, pageSize)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		if products, ok := cached.([]domain.Product); ok {
			c.debugLog("cache hit for %s", key)
			return products, nil
		}
	}

	products, err := c.fetch(ctx, store, ep, query, page, pageSize)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, products, c.cacheTTL); err != nil {
		log.Printf("[GROCER] failed to cache %s: %v", key, err)
	}

	return products, nil
}

// fetch performs the authenticated upstream call on a cache miss.
// Transient failures (network errors, 5xx, 429) are retried with backoff;
// other client errors are returned immediately.
func (c *Client) fetch(ctx context.Context, store domain.Store, ep endpoint, query string, page, pageSize int) ([]domain.Product, error) {
	params := url.Values{}
	// Providers disagree on the parameter name they honor; both are sent
	// and unrecognized ones are ignored upstream.
	params.Add("query", query)
	params.Add("search", query)
	params.Add("page", strconv.Itoa(page))
	params.Add("size", strconv.Itoa(pageSize))

	base := c.baseURL
	if base == "" {
		base = "https://" + ep.host
	}
	reqURL := fmt.Sprintf("%s%s?%s", base, ep.path, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, ep.host)
		if err != nil {
			log.Printf("[GROCER] %s request error (attempt %d): %v", store, attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, readErr := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrUpstream, readErr)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: %s status %d: %s", domain.ErrUpstream, store, resp.StatusCode, string(body))
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				log.Printf("[GROCER] %s upstream error (attempt %d): status %d", store, attempt, resp.StatusCode)
				time.Sleep(exponentialBackoff(attempt))
				continue
			}
			return nil, lastErr
		}

		var payload searchResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		products := make([]domain.Product, 0, len(payload.Results))
		for _, raw := range payload.Results {
			products = append(products, Normalize(raw))
		}

		c.debugLog("%s returned %d results for %q", store, len(products), query)
		return products, nil
	}

	return nil, lastErr
}

// doRequest executes an authenticated GET with the credential and target
// host identifier headers the providers require.
func (c *Client) doRequest(ctx context.Context, reqURL, host string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "TrolleyWatch/1.0")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return resp, nil
}

// cacheKey builds the composite memoization key for one provider search.
func cacheKey(store domain.Store, query string, page, pageSize int) string {
	return fmt.Sprintf("search:%s:%s:%d:%d", store, strings.ToLower(strings.TrimSpace(query)), page, pageSize)
}

// exponentialBackoff returns the sleep duration before the next retry
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
