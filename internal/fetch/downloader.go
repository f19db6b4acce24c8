// Package fetch downloads images over HTTP. Some image hosts reject requests
// without a browser User-Agent or throttle with 403s, so the downloader sends
// one and retries those responses a few times before giving up.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"socialexec/internal/infra"
)

const (
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxAttempts      = 3
	retryBaseDelay   = 500 * time.Millisecond
)

// ErrEmptyBody indicates the host answered 200 with no payload.
var ErrEmptyBody = errors.New("fetch: response body is empty")

// Options configures a Downloader.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	Logger     *infra.Logger
}

// Downloader fetches raw image bytes. It is safe for concurrent use.
type Downloader struct {
	httpClient *http.Client
	userAgent  string
	logger     *infra.Logger
}

// New constructs a Downloader with sane defaults.
func New(opts Options) *Downloader {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.Nop()
		logger = &discard
	}
	return &Downloader{httpClient: httpClient, userAgent: userAgent, logger: logger}
}

// Fetch downloads rawURL and returns the body bytes. HTTP 403 and 5xx
// responses are retried up to maxAttempts with a linear backoff; other
// non-2xx statuses fail immediately.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBaseDelay * time.Duration(attempt-1)):
			}
		}

		data, retryable, err := d.fetchOnce(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		d.logger.Warn().
			Str("url", rawURL).
			Int("attempt", attempt).
			Err(err).
			Msg("image download failed, retrying")
	}
	return nil, fmt.Errorf("fetch: giving up after %d attempts: %w", maxAttempts, lastErr)
}

func (d *Downloader) fetchOnce(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("fetch: http %d from %s", resp.StatusCode, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("fetch: http %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, false, ErrEmptyBody
	}
	return data, false, nil
}
