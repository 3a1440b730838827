// Package wordpress adapts the REST API of a remote WordPress blog into the
// post, category and SEO values the site renders.
//
// Every remote call is fault-isolated: failures are logged and degrade to an
// empty slice or a nil value, and are never returned to the caller. There are
// no retries and no caching.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSize = 10 << 20 // 10MB

// Config configures a Client.
type Config struct {
	BaseURL     string // WordPress site root, e.g. https://blog.example.com
	Username    string // optional application-password user
	AppPassword string // optional application password
	AuthorName  string // used when a post has no embedded author
	AuthorEmail string // avatar fallback key
	Timeout     time.Duration
	UserAgent   string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client fetches and normalizes content from one WordPress site.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a Client. Missing optional settings get defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "portfolio/1.0"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
		log:     cfg.Logger.With("component", "wordpress"),
	}
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %s from %s", e.Status, e.URL)
}

func (c *Client) authenticated() bool {
	return c.cfg.Username != "" && c.cfg.AppPassword != ""
}

// getJSON performs a GET against the REST API and decodes the JSON body
// into target.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	return c.getJSONAs(ctx, path, query, "", target)
}

// getJSONAs is getJSON with an explicit Authorization header. An empty
// authorization falls back to the configured credentials.
func (c *Client) getJSONAs(ctx context.Context, path string, query url.Values, authorization string, target any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	switch {
	case authorization != "":
		req.Header.Set("Authorization", authorization)
	case c.authenticated():
		req.SetBasicAuth(c.cfg.Username, c.cfg.AppPassword)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logAPICall(endpoint, duration, err)
		return fmt.Errorf("failed to perform GET request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Error("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint}
		c.logAPICall(endpoint, duration, err)
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(target); err != nil {
		err = fmt.Errorf("failed to decode json response: %w", err)
		c.logAPICall(endpoint, duration, err)
		return err
	}

	c.logAPICall(endpoint, duration, nil)
	return nil
}

func (c *Client) logAPICall(endpoint string, duration time.Duration, err error) {
	if err != nil {
		c.log.Warn("API call failed", "url", endpoint, "duration", duration, "error", err)
		return
	}
	c.log.Debug("API call completed", "url", endpoint, "duration", duration)
}
