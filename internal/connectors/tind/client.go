package tind

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/logger"
)

const (
	// DefaultBaseURL is the Berkeley digital collections API.
	DefaultBaseURL = "https://digicoll.lib.berkeley.edu/api/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// Ensure Client implements the interface.
var _ driven.CatalogueClient = (*Client)(nil)

// Config holds the client settings.
type Config struct {
	// BaseURL is the API root. Empty uses DefaultBaseURL.
	BaseURL string

	// APIKey is sent as "Authorization: Token <key>".
	APIKey string

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the default client with a 30s timeout.
	HTTPClient *http.Client
}

// Client talks to the TIND API.
type Client struct {
	baseURL     string
	apiKey      string
	http        *http.Client
	rateLimiter *RateLimiter
}

// New creates a TIND API client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		http:        httpClient,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins path onto the base URL.
func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// get performs an authorised GET. A nil params keeps any query already in rawURL.
// 401 and 429 responses are turned into errors and their bodies closed.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing TIND API key", domain.ErrAuthorization)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)

	logger.Debug("tind: GET %s", u.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", u.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: invalid TIND API key provided", domain.ErrAuthorization)
	}
	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// readError drains a failed response into a CatalogueError.
func readError(resp *http.Response) *domain.CatalogueError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newCatalogueError(resp.StatusCode, body)
}
