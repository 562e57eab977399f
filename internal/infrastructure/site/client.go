package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/rawpage"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps the page download. Product pages run one to two MB;
// anything past the cap is not a product page.
const maxBodyBytes = 8 << 20

// Config carries the site client settings.
type Config struct {
	// BaseURL is the storefront origin; only URLs on its host are fetched.
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// MaxRetries bounds attempts per fetch, transient failures only.
	MaxRetries int
	// RequestsPerMinute throttles fetches site-wide.
	RequestsPerMinute int
}

// Client downloads product pages from the storefront. It throttles,
// retries transient failures and hands the body to the page parser.
type Client struct {
	httpClient  *http.Client
	host        string
	userAgent   string
	maxRetries  int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a site client. Zero config fields fall back to
// conservative defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}

	host := ""
	if u, err := url.Parse(cfg.BaseURL); err == nil {
		host = u.Host
	}

	// rate.Limit is requests per second; 30/min ≈ 0.5 req/sec. Burst of 5
	// lets a short batch through without tripping the site's throttling.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		host:        host,
		userAgent:   cfg.UserAgent,
		maxRetries:  cfg.MaxRetries,
		rateLimiter: limiter,
	}
}

// SetDebug enables per-request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Fetch downloads and parses one product page. A page that does not exist
// maps to domain.ErrPageNotFound; transient failures are retried with a
// growing delay before giving up with domain.ErrPageFetch.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*rawpage.Page, error) {
	if err := c.validateURL(pageURL); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		if c.debug {
			log.Printf("[FETCH] GET %s (attempt %d)", pageURL, attempt)
		}

		body, err := c.doRequest(ctx, pageURL)
		if err != nil {
			if errors.Is(err, domain.ErrPageNotFound) {
				return nil, err
			}
			log.Printf("[FETCH] request error (attempt %d): %v", attempt, err)
			lastErr = err
			if attempt < c.maxRetries {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		page, err := rawpage.Parse(pageURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchema, err)
		}
		return page, nil
	}

	log.Printf("[FETCH] all retries failed for %s", pageURL)
	return nil, lastErr
}

// exponentialBackoff returns the delay before the next attempt: 500ms
// doubling per attempt.
func exponentialBackoff(attempt int) time.Duration {
	return 500 * time.Millisecond << (attempt - 1)
}

// validateURL rejects anything that is not an absolute http(s) URL on the
// configured storefront host.
func (c *Client) validateURL(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidRequest, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: relative URL", domain.ErrInvalidRequest)
	}
	if c.host != "" && !strings.EqualFold(u.Host, c.host) {
		return fmt.Errorf("%w: host %q is not the configured storefront", domain.ErrInvalidRequest, u.Host)
	}
	return nil
}

// doRequest executes one GET and returns the body on a 200.
func (c *Client) doRequest(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPageNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrPageFetch, resp.StatusCode)
	}

	// Older templates still serve windows-1254; decode everything to UTF-8
	// before it reaches the parser.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: detecting charset: %v", domain.ErrPageFetch, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrPageFetch, err)
	}
	return body, nil
}
