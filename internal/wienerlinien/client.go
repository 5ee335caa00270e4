// Package wienerlinien talks to the Wiener Linien OGD real-time monitor API.
package wienerlinien

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/cache"
)

const (
	// BaseURL is the monitor endpoint of the open data realtime API.
	// No authentication; the operator asks for at least 15 seconds
	// between requests from the same address.
	BaseURL = "https://www.wienerlinien.at/ogd_realtime/monitor"

	// MinPollInterval is the polling floor demanded by the API terms.
	MinPollInterval = 15 * time.Second

	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 30 * time.Second
)

// Cache stores raw monitor responses for the one-shot CLI commands. The
// refresh daemon never uses one; countdowns must stay live.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Client fetches real-time departures for a set of RBL stop identifiers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timezone   *time.Location
	cache      Cache
	logger     *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the monitor endpoint, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithCache enables response caching with the provided implementation.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDefaultCache enables caching with the default short-TTL file cache.
func WithDefaultCache() ClientOption {
	return func(c *Client) {
		fc, err := cache.NewFileCache(cache.DefaultCacheDir(), defaultCacheTTL)
		if err == nil {
			c.cache = fc
		}
	}
}

// WithLogger sets the logger used for API warnings.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new monitor API client.
func NewClient(opts ...ClientOption) (*Client, error) {
	tz, err := time.LoadLocation("Europe/Vienna")
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    BaseURL,
		timezone:   tz,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Timezone returns the client's timezone.
func (c *Client) Timezone() *time.Location {
	return c.timezone
}

// FetchDepartures requests the monitors for the given RBLs and flattens them
// into departures. The slice preserves the response order, which downstream
// aggregation relies on for deterministic line ordering.
func (c *Client) FetchDepartures(ctx context.Context, rbls []int) ([]Departure, error) {
	if len(rbls) == 0 {
		return nil, fmt.Errorf("%w: no RBLs requested", ErrSourceUnavailable)
	}

	params := url.Values{}
	for _, rbl := range rbls {
		params.Add("rbl", strconv.Itoa(rbl))
	}
	reqURL := c.baseURL + "?" + params.Encode()

	body, err := c.doRequest(ctx, reqURL, rbls)
	if err != nil {
		return nil, err
	}

	var resp monitorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed monitor response: %v", ErrSourceUnavailable, err)
	}

	if code := resp.Message.ServerCode; code != 0 && code != http.StatusOK {
		c.logger.Warn("monitor API returned server code",
			"code", code, "meaning", serverCodeString(code, resp.Message.Value))
	}

	var departures []Departure
	for i := range resp.Data.Monitors {
		departures = append(departures, resp.Data.Monitors[i].departures(c.timezone)...)
	}

	return departures, nil
}

// doRequest performs an HTTP GET with optional caching.
func (c *Client) doRequest(ctx context.Context, reqURL string, rbls []int) ([]byte, error) {
	if c.cache != nil {
		if data, ok := c.cache.Get(reqURL); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, RBLs: rbls}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrSourceUnavailable, err)
	}

	if c.cache != nil {
		_ = c.cache.Set(reqURL, body)
	}

	return body, nil
}
