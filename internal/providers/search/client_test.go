package search

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubTransport struct {
	status int
	body   string
	calls  []*http.Request
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls = append(s.calls, req)
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Request:    req,
	}, nil
}

func newTestClient(transport *stubTransport) *Client {
	return NewClient(Options{
		APIKey:     "search-key",
		EngineID:   "engine-1",
		BaseURL:    "https://search.test/customsearch/v1",
		HTTPClient: &http.Client{Transport: transport},
	})
}

func TestImageURLs(t *testing.T) {
	transport := &stubTransport{body: `{"items":[
		{"link":"https://img.test/a.jpg"},
		{"link":"https://img.test/b.jpg"}]}`}
	client := newTestClient(transport)

	links, err := client.ImageURLs(context.Background(), "mountain sunrise", 2)
	if err != nil {
		t.Fatalf("ImageURLs returned error: %v", err)
	}
	if len(links) != 2 || links[0] != "https://img.test/a.jpg" {
		t.Fatalf("links mismatch: %v", links)
	}

	q := transport.calls[0].URL.Query()
	if q.Get("q") != "mountain sunrise" {
		t.Fatalf("q param = %q", q.Get("q"))
	}
	if q.Get("searchType") != "image" || q.Get("safe") != "active" {
		t.Fatalf("search params missing: %v", q)
	}
	if q.Get("key") != "search-key" || q.Get("cx") != "engine-1" {
		t.Fatalf("credential params missing: %v", q)
	}
	if q.Get("num") != "2" {
		t.Fatalf("num param = %q, want 2", q.Get("num"))
	}
}

func TestImageURLsEmptyResult(t *testing.T) {
	transport := &stubTransport{body: `{}`}
	client := newTestClient(transport)

	links, err := client.ImageURLs(context.Background(), "nothing matches this", 5)
	if err != nil {
		t.Fatalf("empty result should not error, got: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("links = %v, want none", links)
	}
}

func TestImageURLsMissingCredentials(t *testing.T) {
	client := NewClient(Options{BaseURL: "https://search.test"})

	if _, err := client.ImageURLs(context.Background(), "x", 1); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestImageURLsAPIError(t *testing.T) {
	transport := &stubTransport{
		status: http.StatusTooManyRequests,
		body:   `{"error":{"code":429,"message":"Quota exceeded"}}`,
	}
	client := newTestClient(transport)

	_, err := client.ImageURLs(context.Background(), "x", 1)
	if err == nil {
		t.Fatalf("expected error for http 429")
	}
	if !strings.Contains(err.Error(), "Quota exceeded") {
		t.Fatalf("error should carry the API message, got: %v", err)
	}
}
