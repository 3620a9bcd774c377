// Package datasource fetches financial news and stock metadata from public
// providers. It defines a common Fetcher interface implemented by NewsAPI,
// Finnhub and the Yahoo Finance headline feed, a Collector that merges their
// output, and the Yahoo Finance quote lookup used for report metadata.
package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/seenimoa/stocksentinel/internal/infra"
	"github.com/seenimoa/stocksentinel/pkg/models"
)

// Fetcher retrieves recent news articles about one ticker from a single provider.
type Fetcher interface {
	// Name returns the human-readable name of the provider.
	Name() string

	// Fetch returns articles published in the last days days.
	// Returned articles carry the provider's Source tag.
	Fetch(ctx context.Context, ticker string, days int) ([]models.Article, error)
}

// --- Sentinel errors ---

// ErrMissingCredential is returned when a provider requires an API key that is not configured.
var ErrMissingCredential = errors.New("missing API credential")

// ErrTickerNotFound is returned when a ticker cannot be resolved.
var ErrTickerNotFound = errors.New("ticker not found")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// --- Provider options ---

// Options configures a provider client. Zero values select defaults.
type Options struct {
	APIKey     string
	BaseURL    string        // overrides the provider endpoint, mainly for tests
	Client     *http.Client  // defaults to HTTPClient
	CacheTTL   time.Duration // 0 disables caching
	RatePerSec float64       // <= 0 means unlimited
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return HTTPClient
}

func (o Options) baseURL(def string) string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return def
}

func (o Options) limiter() *infra.RateLimiter {
	return infra.NewRateLimiter(o.RatePerSec, 1)
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// HTTPClient is a pre-configured HTTP client with reasonable timeouts.
var HTTPClient = NewHTTPClient(10 * time.Second)

// NewHTTPClient returns a client with the given overall request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// doGet performs a GET request with the given URL and headers, returning the response body.
// The caller is responsible for closing the returned ReadCloser.
func doGet(ctx context.Context, client *http.Client, rawURL string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	// Set default headers.
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	// Override/add custom headers.
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		// Query strings carry API keys; keep them out of logs.
		endpoint := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = endpoint
		}
		return nil, 0, fmt.Errorf("HTTP GET %s: %w", endpoint, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, resp.StatusCode, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, resp.StatusCode, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	body, _, err := doGet(ctx, client, rawURL, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// coalesce returns the first non-empty string.
func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
