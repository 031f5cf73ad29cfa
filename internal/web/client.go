// Package web holds the outbound HTTP surface of the built-in tools:
// a bounded fetch client, the Open-Meteo weather lookup, and the page
// summarizer.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBody   = 2 << 20 // 2 MiB
	defaultUserAgent = "steward/1.0 (+https://github.com/codemarcinu/steward)"
)

// Client is a small HTTP fetch client with a request timeout and a
// response size cap.
type Client struct {
	http      *http.Client
	maxBody   int64
	userAgent string
}

// NewClient creates a Client. A non-positive timeout uses the default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		maxBody:   defaultMaxBody,
		userAgent: defaultUserAgent,
	}
}

// Fetch GETs url and returns at most maxBody bytes of the response.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
