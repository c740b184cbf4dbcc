package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultBaseDelay = 1 * time.Second

// Options configure a Client. User-Agent and TLS verification are per-client,
// never global state.
type Options struct {
	Timeout            time.Duration
	UserAgent          string
	MaxRetries         int
	BaseDelay          time.Duration
	InsecureSkipVerify bool
}

// Client performs HTTP fetches with classified retry: 4xx responses fail
// immediately, 5xx responses and network failures are retried with
// exponential backoff. The embedded http.Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(opts Options) *Client {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}

	transport := http.DefaultTransport
	if opts.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
	}
}

// Fetch issues a GET for url. Client errors (4xx) abort after a single
// attempt. Server errors (5xx), timeouts and connection failures are retried
// up to MaxRetries times, backing off baseDelay*2^n before attempt n+1.
// Backoff waits select on ctx, so cancellation is honored and sibling
// fetches sharing the context are never blocked.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	var lastErr error
	var lastStatus int
	tried := 0

	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << uint(attempt-1)
			slog.Debug("Retrying fetch", "url", url, "attempt", attempt, "delay", delay.String())
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &FetchError{URL: url, Attempts: attempt, Err: ctx.Err(), retryable: true}
			}
		}

		resp, status, err := c.do(ctx, url)
		tried++
		if err == nil && status < 500 {
			if status >= 400 {
				// Client errors are not transient, never retried.
				return nil, &FetchError{
					URL:        url,
					StatusCode: status,
					Attempts:   attempt + 1,
					Err:        fmt.Errorf("HTTP %d", status),
				}
			}
			return resp, nil
		}

		lastStatus = status
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("HTTP %d", status)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &FetchError{
		URL:        url,
		StatusCode: lastStatus,
		Attempts:   tried,
		Err:        lastErr,
		retryable:  true,
	}
}

func (c *Client) do(ctx context.Context, url string) (*Response, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, resp.StatusCode, nil
}

// ValidateURL issues a cheap HEAD probe, following redirects. It never
// returns an error: any status >= 400 or network failure yields false.
func (c *Client) ValidateURL(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode < 400
}
