// Package graph is a thin client for the Meta Graph API endpoints this
// service uses: publishing a photo, reading comments on the latest post,
// replying, and account insights.
package graph

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

// ErrMissingCredentials indicates the client was configured without an access
// token or user ID.
var ErrMissingCredentials = errors.New("graph: access token and user id are required")

// ErrNoPosts indicates the account has no published media to read comments from.
var ErrNoPosts = errors.New("graph: account has no posts")

// Options configures the Graph API client.
type Options struct {
	AccessToken    string
	UserID         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the Graph API. The access token rides in
// the query string on every call, which is how the Graph API expects it.
type Client struct {
	accessToken string
	userID      string
	baseURL     string
	httpClient  *http.Client
	logger      *infra.Logger
}

// Comment is one comment on a media object.
type Comment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// Insights holds the account metrics the executor reports.
type Insights struct {
	ID             string `json:"id,omitempty"`
	FollowersCount int    `json:"followers_count"`
	MediaCount     int    `json:"media_count"`
}

type mediaListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type commentsResponse struct {
	Data []Comment `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
// Missing credentials are not an error here: calls fail with
// ErrMissingCredentials instead, so the service can start without them.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v24.0"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.Nop()
		logger = &discard
	}
	return &Client{
		accessToken: strings.TrimSpace(opts.AccessToken),
		userID:      strings.TrimSpace(opts.UserID),
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.accessToken != "" && c.userID != ""
}

// PublishPhoto creates a media container for imageURL with the given caption
// and then publishes it. The publish response is returned as-is.
func (c *Client) PublishPhoto(ctx context.Context, imageURL, caption string) (map[string]any, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("image_url", imageURL)
	params.Set("caption", caption)

	var container struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/"+c.userID+"/media", params, &container); err != nil {
		return nil, fmt.Errorf("graph: create media container: %w", err)
	}
	if container.ID == "" {
		return nil, errors.New("graph: media container response had no id")
	}

	params = url.Values{}
	params.Set("creation_id", container.ID)

	var published map[string]any
	if err := c.do(ctx, http.MethodPost, "/"+c.userID+"/media_publish", params, &published); err != nil {
		return nil, fmt.Errorf("graph: publish media: %w", err)
	}
	c.logger.Info().Str("creation_id", container.ID).Msg("published photo post")
	return published, nil
}

// RecentComments returns up to limit comments on the account's most recent
// post. ErrNoPosts is returned when the account has published nothing.
func (c *Client) RecentComments(ctx context.Context, limit int) ([]Comment, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("fields", "id")
	params.Set("limit", "1")

	var media mediaListResponse
	if err := c.do(ctx, http.MethodGet, "/"+c.userID+"/media", params, &media); err != nil {
		return nil, fmt.Errorf("graph: list media: %w", err)
	}
	if len(media.Data) == 0 || media.Data[0].ID == "" {
		return nil, ErrNoPosts
	}

	params = url.Values{}
	params.Set("fields", "id,text,username,timestamp")
	params.Set("limit", strconv.Itoa(limit))

	var comments commentsResponse
	if err := c.do(ctx, http.MethodGet, "/"+media.Data[0].ID+"/comments", params, &comments); err != nil {
		return nil, fmt.Errorf("graph: list comments: %w", err)
	}
	return comments.Data, nil
}

// ReplyToComment posts message as a reply to commentID and returns the raw
// API response.
func (c *Client) ReplyToComment(ctx context.Context, commentID, message string) (map[string]any, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if strings.TrimSpace(commentID) == "" {
		return nil, errors.New("graph: comment id is required")
	}

	params := url.Values{}
	params.Set("message", message)

	var reply map[string]any
	if err := c.do(ctx, http.MethodPost, "/"+commentID+"/replies", params, &reply); err != nil {
		return nil, fmt.Errorf("graph: reply to comment: %w", err)
	}
	return reply, nil
}

// AccountInsights fetches follower and media counts for the account.
func (c *Client) AccountInsights(ctx context.Context) (*Insights, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("fields", "followers_count,media_count")

	var insights Insights
	if err := c.do(ctx, http.MethodGet, "/"+c.userID, params, &insights); err != nil {
		return nil, fmt.Errorf("graph: account insights: %w", err)
	}
	return &insights, nil
}

// do performs one Graph API call with the access token appended, decoding a
// successful response into out.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	params.Set("access_token", c.accessToken)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return fmt.Errorf("http %d: %s (%s)", resp.StatusCode, detail.Error.Message, detail.Error.Type)
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
