package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"

	"ReleaseTimeline/internal/ports"
)

// ErrTimeout marks a fetch that exceeded its deadline. Callers treat it as a
// recoverable per-source failure.
var ErrTimeout = errors.New("fetch timed out")

// Client performs single bounded-timeout GETs with a fixed user agent.
// It never retries; one slow or broken source must not delay the others.
type Client struct {
	http *resty.Client
}

var _ ports.Fetcher = (*Client)(nil)

// NewClient builds a reusable client. A non-positive timeout falls back to
// ten seconds.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	http := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	return &Client{http: http}
}

// Get issues the request and returns the raw body with its status code.
// Non-2xx responses are not errors; the status is the caller's signal that a
// source yielded no data.
func (c *Client) Get(ctx context.Context, url string) (string, int, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		if isTimeout(err) {
			return "", 0, fmt.Errorf("%w: %s", ErrTimeout, url)
		}
		return "", 0, fmt.Errorf("fetch %s: %w", url, err)
	}

	return resp.String(), resp.StatusCode(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
