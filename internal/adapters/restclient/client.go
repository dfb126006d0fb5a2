// Package restclient is the rate-limited, retrying GET client shared by the review sources.
package restclient

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reviewlens/internal/adapters/observability"
	"reviewlens/internal/domain"
)

const (
	maxAttempts  = 4
	maxBodyBytes = 32 << 20
	userAgent    = "reviewlens/1.0"
)

type Client struct {
	service string
	hc      *http.Client
	rl      *rate.Limiter
}

// New builds a client for one upstream service. A nil hc gets a client with the given timeout.
func New(service string, rps int, timeout time.Duration, hc *http.Client) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		service: service,
		hc:      hc,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (c *Client) Service() string { return c.service }

// GetJSON fetches url and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint, url string, hdr http.Header, out any) error {
	b, err := c.Get(ctx, endpoint, url, hdr)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", c.service, endpoint, err)
	}
	return nil
}

// Get performs a GET with client-side rate limiting and retries, returning the body.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// endpoint is a low-cardinality label for metrics and errors.
func (c *Client) Get(ctx context.Context, endpoint, url string, hdr http.Header) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range hdr {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
		req.Header.Set("User-Agent", userAgent)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s %s: %w: %w", c.service, endpoint, domain.ErrSourceUnavailable, err)
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%s %s: read body: %w", c.service, endpoint, err)
			}
			return b, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			se := c.statusError(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s %s: %w: %w", c.service, endpoint, domain.ErrSourceUnavailable, se)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%s %s: %w: %w", c.service, endpoint, domain.ErrSourceAuth, c.statusError(resp))

		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s %s: %w: %w", c.service, endpoint, domain.ErrSourceNotFound, c.statusError(resp))

		default:
			return nil, fmt.Errorf("%s %s: %w", c.service, endpoint, c.statusError(resp))
		}
	}

	return nil, lastErr
}

// statusError reads a small error body for diagnostics and closes it.
func (c *Client) statusError(resp *http.Response) *domain.StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return &domain.StatusError{Service: c.service, Code: resp.StatusCode, Message: errorMessage(b)}
}

// errorMessage pulls "errors"/"error"/"message" out of a JSON error body, else returns the raw text.
func errorMessage(b []byte) string {
	var body map[string]any
	if err := json.Unmarshal(b, &body); err == nil {
		for _, k := range []string{"errors", "error", "message"} {
			switch v := body[k].(type) {
			case string:
				return v
			case nil:
				continue
			default:
				if j, err := json.Marshal(v); err == nil {
					return string(j)
				}
			}
		}
	}
	return strings.TrimSpace(string(b))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
