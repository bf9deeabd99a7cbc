package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikey/llm-rss-gen/internal/adapters/cache"
	"github.com/mikey/llm-rss-gen/internal/feedclient"
	"go.uber.org/zap/zaptest"
)

type closingLLM struct {
	closed bool
	err    error
}

func (l *closingLLM) Generate(ctx context.Context, prompt string) (string, error) { return "", nil }
func (l *closingLLM) ModelName() string                                         { return "closing" }
func (l *closingLLM) Close() error {
	l.closed = true
	return l.err
}

type stoppingCache struct {
	stopped bool
}

func (c *stoppingCache) Lookup(ctx context.Context, key string) (string, bool) { return "", false }
func (c *stoppingCache) Store(ctx context.Context, key, body string) error    { return nil }
func (c *stoppingCache) Stop()                                                { c.stopped = true }

func TestReleaseClosesClientAndStopsCache(t *testing.T) {
	tests := []struct {
		name     string
		closeErr error
	}{
		{"Clean", nil},
		{"CloseFails", errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &closingLLM{err: tt.closeErr}
			fc := &stoppingCache{}

			release(zaptest.NewLogger(t), llm, fc)

			if !llm.closed {
				t.Error("LLM client was not closed")
			}
			if !fc.stopped {
				t.Error("cache was not stopped")
			}
		})
	}
}

func TestReleaseStopsSQLiteCache(t *testing.T) {
	logger := zaptest.NewLogger(t)
	sc, err := cache.NewSQLiteCache(logger, time.Minute)
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}

	release(logger, &closingLLM{}, sc)

	if err := sc.Store(context.Background(), "https://example.com", "<?xml?>"); err == nil {
		t.Error("store succeeded on a stopped cache")
	}
}

func TestReleaseWithoutOptionalMethods(t *testing.T) {
	release(zaptest.NewLogger(t), nil, cache.NewMemoryCache(zaptest.NewLogger(t), time.Minute))
}

func TestPrintSummary(t *testing.T) {
	summary := &feedclient.FeedSummary{Title: "News", Link: "https://example.com"}
	for i := 0; i < 7; i++ {
		summary.Items = append(summary.Items, feedclient.ItemSummary{Title: "item", Link: "https://example.com/a"})
	}

	var buf bytes.Buffer
	printSummary(&buf, summary, "MISS", time.Second)

	out := buf.String()
	for _, want := range []string{"Title: News", "Items: 7", "... and 2 more", "Cache: MISS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
