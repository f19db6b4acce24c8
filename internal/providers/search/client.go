// Package search wraps the Google Custom Search API, restricted to safe
// image results.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"socialexec/internal/infra"
)

// ErrMissingCredentials indicates SEARCH_API_KEY or SEARCH_ENGINE_ID was not
// configured.
var ErrMissingCredentials = errors.New("search: api key and engine id are required")

// Options configures the Custom Search client.
type Options struct {
	APIKey         string
	EngineID       string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs image searches against the Custom Search API.
type Client struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/customsearch/v1"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.Nop()
		logger = &discard
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		engineID:   strings.TrimSpace(opts.EngineID),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != "" && c.engineID != ""
}

// ImageURLs returns up to num image links for query. An empty result set is
// not an error; missing credentials is.
func (c *Client) ImageURLs(ctx context.Context, query string, num int) ([]string, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if num <= 0 {
		num = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(num))
	params.Set("safe", "active")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return nil, fmt.Errorf("search: http %d: %s", resp.StatusCode, detail.Error.Message)
		}
		return nil, fmt.Errorf("search: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload searchResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	links := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	c.logger.Debug().Str("query", query).Int("results", len(links)).Msg("image search completed")
	return links, nil
}
