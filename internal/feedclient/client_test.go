package feedclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestClientGenerate(t *testing.T) {
	gotURL := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL <- r.URL.Query().Get("url")
		w.Header().Set("X-Cache", "MISS")
		_, _ = io.WriteString(w, sampleFeed)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/generate-rss", time.Second, zaptest.NewLogger(t))
	res, err := c.Generate(context.Background(), "https://example.com/news?page=2&sort=new")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := <-gotURL; got != "https://example.com/news?page=2&sort=new" {
		t.Errorf("server saw url = %q", got)
	}
	if res.Summary.Title != "Example News" {
		t.Errorf("title = %q", res.Summary.Title)
	}
}

func TestClientServerError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"ErrorDocument", http.StatusBadGateway, "<error><message>Failed to fetch URL: the request timed out.</message></error>",
			"Server error: 502 - Failed to fetch URL: the request timed out."},
		{"PlainText", http.StatusServiceUnavailable, "overloaded\n", "Server error: 503 - overloaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, zaptest.NewLogger(t))
			_, err := c.Generate(context.Background(), "https://example.com")

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("err = %v, want *ServerError", err)
			}
			if serverErr.StatusCode != tt.status {
				t.Errorf("status = %d", serverErr.StatusCode)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClientDomainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<error><message>No articles could be identified.</message></error>")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zaptest.NewLogger(t))
	_, err := c.Generate(context.Background(), "https://example.com")

	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("err = %v, want *DomainError", err)
	}
}
