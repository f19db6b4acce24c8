package graph

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type responseStub struct {
	status int
	body   string
}

type stubTransport struct {
	responses map[string]responseStub
	calls     []*http.Request
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls = append(s.calls, req)
	stub, ok := s.responses[req.URL.Path]
	if !ok {
		stub = responseStub{status: http.StatusNotFound, body: `{}`}
	}
	return &http.Response{
		StatusCode: stub.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(stub.body)),
		Request:    req,
	}, nil
}

func newTestClient(transport *stubTransport) *Client {
	return NewClient(Options{
		AccessToken: "token-123",
		UserID:      "17841400000000000",
		BaseURL:     "https://graph.test/v24.0",
		HTTPClient:  &http.Client{Transport: transport},
	})
}

func TestPublishPhotoTwoStep(t *testing.T) {
	transport := &stubTransport{responses: map[string]responseStub{
		"/v24.0/17841400000000000/media":         {status: 200, body: `{"id":"container-1"}`},
		"/v24.0/17841400000000000/media_publish": {status: 200, body: `{"id":"post-9"}`},
	}}
	client := newTestClient(transport)

	result, err := client.PublishPhoto(context.Background(), "https://cdn.test/bg.jpg", "a caption")
	if err != nil {
		t.Fatalf("PublishPhoto returned error: %v", err)
	}
	if result["id"] != "post-9" {
		t.Fatalf("publish result id = %v, want post-9", result["id"])
	}
	if len(transport.calls) != 2 {
		t.Fatalf("expected 2 API calls, got %d", len(transport.calls))
	}

	first := transport.calls[0]
	if first.Method != http.MethodPost {
		t.Fatalf("first call method = %s, want POST", first.Method)
	}
	q := first.URL.Query()
	if q.Get("image_url") != "https://cdn.test/bg.jpg" || q.Get("caption") != "a caption" {
		t.Fatalf("container params missing: %v", q)
	}
	if q.Get("access_token") != "token-123" {
		t.Fatalf("access_token not sent: %v", q)
	}

	second := transport.calls[1]
	if second.URL.Query().Get("creation_id") != "container-1" {
		t.Fatalf("publish call missing creation_id: %v", second.URL.Query())
	}
}

func TestRecentComments(t *testing.T) {
	transport := &stubTransport{responses: map[string]responseStub{
		"/v24.0/17841400000000000/media": {status: 200, body: `{"data":[{"id":"media-1"}]}`},
		"/v24.0/media-1/comments": {status: 200, body: `{"data":[
			{"id":"c1","text":"nice","username":"alice","timestamp":"2026-01-01T00:00:00+0000"},
			{"id":"c2","text":"wow","username":"bob","timestamp":"2026-01-02T00:00:00+0000"}]}`},
	}}
	client := newTestClient(transport)

	comments, err := client.RecentComments(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentComments returned error: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("comment count = %d, want 2", len(comments))
	}
	if comments[0].ID != "c1" || comments[0].Username != "alice" {
		t.Fatalf("first comment mismatch: %+v", comments[0])
	}

	commentCall := transport.calls[1]
	q := commentCall.URL.Query()
	if q.Get("fields") != "id,text,username,timestamp" {
		t.Fatalf("comment fields param = %q", q.Get("fields"))
	}
	if q.Get("limit") != "2" {
		t.Fatalf("limit param = %q, want 2", q.Get("limit"))
	}
}

func TestRecentCommentsNoPosts(t *testing.T) {
	transport := &stubTransport{responses: map[string]responseStub{
		"/v24.0/17841400000000000/media": {status: 200, body: `{"data":[]}`},
	}}
	client := newTestClient(transport)

	if _, err := client.RecentComments(context.Background(), 5); !errors.Is(err, ErrNoPosts) {
		t.Fatalf("error = %v, want ErrNoPosts", err)
	}
}

func TestReplyToComment(t *testing.T) {
	transport := &stubTransport{responses: map[string]responseStub{
		"/v24.0/c42/replies": {status: 200, body: `{"id":"reply-1"}`},
	}}
	client := newTestClient(transport)

	result, err := client.ReplyToComment(context.Background(), "c42", "thanks!")
	if err != nil {
		t.Fatalf("ReplyToComment returned error: %v", err)
	}
	if result["id"] != "reply-1" {
		t.Fatalf("reply id = %v, want reply-1", result["id"])
	}
	if q := transport.calls[0].URL.Query(); q.Get("message") != "thanks!" {
		t.Fatalf("message param = %q", q.Get("message"))
	}
}

func TestAccountInsights(t *testing.T) {
	transport := &stubTransport{responses: map[string]responseStub{
		"/v24.0/17841400000000000": {status: 200, body: `{"id":"17841400000000000","followers_count":1234,"media_count":56}`},
	}}
	client := newTestClient(transport)

	insights, err := client.AccountInsights(context.Background())
	if err != nil {
		t.Fatalf("AccountInsights returned error: %v", err)
	}
	if insights.FollowersCount != 1234 || insights.MediaCount != 56 {
		t.Fatalf("insights mismatch: %+v", insights)
	}
}

func TestMissingCredentials(t *testing.T) {
	client := NewClient(Options{BaseURL: "https://graph.test"})
	ctx := context.Background()

	if _, err := client.PublishPhoto(ctx, "u", "c"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("PublishPhoto error = %v, want ErrMissingCredentials", err)
	}
	if _, err := client.RecentComments(ctx, 5); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("RecentComments error = %v, want ErrMissingCredentials", err)
	}
	if _, err := client.AccountInsights(ctx); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("AccountInsights error = %v, want ErrMissingCredentials", err)
	}
}

func TestGraphErrorSurfaced(t *testing.T) {
	transport := &stubTransport{responses: map[string]responseStub{
		"/v24.0/17841400000000000/media": {
			status: 400,
			body:   `{"error":{"message":"Invalid parameter","type":"OAuthException","code":100}}`,
		},
	}}
	client := newTestClient(transport)

	_, err := client.PublishPhoto(context.Background(), "u", "c")
	if err == nil {
		t.Fatalf("expected error for http 400")
	}
	if !strings.Contains(err.Error(), "Invalid parameter") {
		t.Fatalf("error should carry the API message, got: %v", err)
	}
}
