package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/macrolens/intake/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxAttempts      = 3
	maxErrorBodySize = 1024
	maxBodySize      = 10 << 20
	searchPageSize   = "10"
	// USDA allows 1000 requests per hour per key
	defaultRequestsPerHour = 1000
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
	logger      *slog.Logger
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: newLimiter(defaultRequestsPerHour),
		logger:      slog.Default(),
	}
}

func newLimiter(requestsPerHour int) *rate.Limiter {
	// rate.Limit is requests per second; allow short bursts of 10
	return rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)
}

// SetRequestsPerHour replaces the client-side rate limit.
func (c *Client) SetRequestsPerHour(requestsPerHour int) {
	if requestsPerHour > 0 {
		c.rateLimiter = newLimiter(requestsPerHour)
	}
}

// SetDebug enables or disables request logging at debug level
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetLogger replaces the client's logger
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

func (c *Client) debugLog(msg string, args ...any) {
	if c.debug {
		c.logger.Debug(msg, append([]any{"component", "usda"}, args...)...)
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "intake/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	return resp, nil
}

// SearchFoods searches for foods in the USDA database. Server errors and
// 429 responses are retried with exponential backoff; other client errors
// are not.
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.debugLog("search foods", "query", query)

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Foundation,SR Legacy,Survey (FNDDS)")
	params.Add("pageSize", searchPageSize)
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.debugLog("request error", "attempt", attempt, "error", err)
			lastErr = err
			if !waitRetry(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := readLimitedBody(resp.Body, maxErrorBodySize)
			resp.Body.Close()
			c.debugLog("api error", "attempt", attempt, "status", resp.StatusCode, "body", string(body))

			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrProductNotFound
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			if !waitRetry(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		body, err := readLimitedBody(resp.Body, maxBodySize)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", domain.ErrUSDAAPIFailure, err)
		}

		var searchResp domain.USDASearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if len(searchResp.Foods) == 0 {
			c.debugLog("no foods found", "query", query)
			return nil, domain.ErrProductNotFound
		}

		c.debugLog("foods found", "query", query, "count", len(searchResp.Foods))
		return &searchResp, nil
	}

	c.logger.Warn("usda search failed after retries", "query", query, "error", lastErr)
	return nil, lastErr
}

// waitRetry sleeps before the next attempt. It returns false when ctx ends first.
func waitRetry(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return true
	}
	timer := time.NewTimer(exponentialBackoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
