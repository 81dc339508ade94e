// Package quotes fetches random quotes from an HTTP endpoint with a bounded
// retry loop around each request.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint    = "https://dummyjson.com/quotes/random"
	defaultHTTPTimeout = 10 * time.Second

	defaultAttempts = 3
	defaultDelay    = time.Second
)

// Quote is a short text attributed to an author. Replaced wholesale on each
// successful fetch, never mutated in place.
type Quote struct {
	Content string
	Author  string
}

// Display renders the quote the way the UI shows it.
func (q Quote) Display() string {
	return fmt.Sprintf("\"%s\" — %s", q.Content, q.Author)
}

// Source yields random quotes.
type Source interface {
	Random(ctx context.Context) (Quote, error)
}

// Policy bounds the retry loop around quote fetches.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = defaultAttempts
	}
	if p.Delay <= 0 {
		p.Delay = defaultDelay
	}
	return p
}

// FetchError reports that every attempt against the quote endpoint failed.
type FetchError struct {
	Attempts int
	Last     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("quote fetch failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *FetchError) Unwrap() error { return e.Last }

// Config describes how to build a quote client.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	Retry      Policy
}

// Client fetches quotes over HTTP. It implements Source.
type Client struct {
	endpoint string
	client   *http.Client
	retry    Policy
}

// New builds a Client, applying defaults for anything left unset.
func New(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		client:   pickHTTPClient(cfg.HTTPClient),
		retry:    cfg.Retry.withDefaults(),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// Random fetches one quote. Attempts run strictly in sequence with a fixed
// delay between them; the loop stops early if ctx is canceled. After the
// final failure the caller gets a single *FetchError wrapping the last cause.
func (c *Client) Random(ctx context.Context) (Quote, error) {
	var last error
	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.retry.Delay); err != nil {
				return Quote{}, err
			}
		}
		quote, err := c.fetch(ctx)
		if err == nil {
			return quote, nil
		}
		last = err
	}
	return Quote{}, &FetchError{Attempts: c.retry.Attempts, Last: last}
}

func (c *Client) fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Quote{}, fmt.Errorf("quote API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Quote  string `json:"quote"`
		Author string `json:"author"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("failed to decode quote response: %w", err)
	}

	content := strings.TrimSpace(payload.Quote)
	author := strings.TrimSpace(payload.Author)
	if content == "" || author == "" {
		return Quote{}, fmt.Errorf("quote response missing text fields")
	}
	return Quote{Content: content, Author: author}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
