package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeFetcher struct {
	mu    sync.Mutex
	html  string
	err   error
	delay time.Duration
	calls int
	urls  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.urls = append(f.urls, url)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", fmt.Errorf("fetch aborted: %w", ctx.Err())
		}
	}
	return f.html, f.err
}

type fakeLLM struct {
	mu      sync.Mutex
	text    string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	l.mu.Lock()
	l.calls++
	l.prompts = append(l.prompts, prompt)
	l.mu.Unlock()

	if l.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return l.text, l.err
}

func (l *fakeLLM) ModelName() string { return "fake-model" }

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	stores  int
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Lookup(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[key]
	return body, ok
}

func (c *fakeCache) Store(ctx context.Context, key string, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores++
	if c.err != nil {
		return c.err
	}
	c.entries[key] = body
	return nil
}

type fakeRecorder struct {
	mu           sync.Mutex
	hits, misses int
	kinds        []ResponseKind
	fetchReasons []string
}

func (r *fakeRecorder) CacheHit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *fakeRecorder) CacheMiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

func (r *fakeRecorder) Classified(kind ResponseKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func (r *fakeRecorder) FetchFailed(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchReasons = append(r.fetchReasons, reason)
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8" ?><rss version="2.0"><channel><title>News</title></channel></rss>`

func newTestService(t *testing.T, f *fakeFetcher, l *fakeLLM, c *fakeCache, r *fakeRecorder) *FeedService {
	t.Helper()
	return NewFeedService(f, l, c, r, zaptest.NewLogger(t), ServiceConfig{
		CacheEnabled: true,
		FetchTimeout: 15 * time.Second,
		ModelTimeout: time.Minute,
	})
}

func TestGenerateValidFeedIsCached(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html>articles</html>"}
	llm := &fakeLLM{text: "  <?xml version=\"1.0\"?>...<channel>...</channel>"}
	cache := newFakeCache()
	rec := &fakeRecorder{}
	svc := newTestService(t, fetcher, llm, cache, rec)

	res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})

	if res.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", res.StatusCode)
	}
	if res.ContentType != ContentTypeXML {
		t.Errorf("ContentType = %q", res.ContentType)
	}
	want := "<?xml version=\"1.0\"?>...<channel>...</channel>"
	if res.Body != want {
		t.Errorf("Body = %q, want %q", res.Body, want)
	}
	if res.CacheDisposition != CacheMiss {
		t.Errorf("CacheDisposition = %s, want MISS", res.CacheDisposition)
	}
	if got, ok := cache.entries["https://example.com/news"]; !ok || got != want {
		t.Errorf("cache entry = %q (present=%t), want %q", got, ok, want)
	}
	if rec.misses != 1 || len(rec.kinds) != 1 || rec.kinds[0] != KindValidFeed {
		t.Errorf("recorder = %+v", rec)
	}

	if !strings.Contains(llm.prompts[0], "<html>articles</html>") {
		t.Error("prompt does not embed the fetched HTML")
	}
	if !strings.Contains(llm.prompts[0], "https://example.com") {
		t.Error("prompt does not embed the origin")
	}
}

func TestGenerateReplayHitsCache(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html></html>"}
	llm := &fakeLLM{text: sampleFeed}
	cache := newFakeCache()
	rec := &fakeRecorder{}
	svc := newTestService(t, fetcher, llm, cache, rec)
	ctx := context.Background()

	first := svc.Generate(ctx, FeedRequest{RawURL: "https://example.com/news"})
	second := svc.Generate(ctx, FeedRequest{RawURL: "https://example.com/news"})

	if second.StatusCode != http.StatusOK || second.Body != first.Body {
		t.Fatalf("replay = %+v, want body %q", second, first.Body)
	}
	if second.CacheDisposition != CacheHit {
		t.Errorf("CacheDisposition = %s, want HIT", second.CacheDisposition)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}
	if llm.calls != 1 {
		t.Errorf("llm calls = %d, want 1", llm.calls)
	}
	if rec.hits != 1 {
		t.Errorf("hits = %d, want 1", rec.hits)
	}
}

func TestGenerateStructuredErrorPassesThrough(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html></html>"}
	llm := &fakeLLM{text: "<error><message>No articles found.</message></error>"}
	cache := newFakeCache()
	svc := newTestService(t, fetcher, llm, cache, &fakeRecorder{})

	res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/about"})

	if res.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", res.StatusCode)
	}
	if res.Body != "<error><message>No articles found.</message></error>" {
		t.Errorf("Body = %q", res.Body)
	}
	if res.CacheDisposition != CacheNone {
		t.Errorf("CacheDisposition = %s, want NONE", res.CacheDisposition)
	}
	if cache.stores != 0 {
		t.Errorf("cache stores = %d, want 0", cache.stores)
	}
}

func TestGenerateMalformed(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(t, &fakeFetcher{html: "<html></html>"}, &fakeLLM{text: "Sorry, I can't do that."}, cache, &fakeRecorder{})

	res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})

	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", res.StatusCode)
	}
	want := "<error><message>The AI returned a response in an unexpected format.</message></error>"
	if res.Body != want {
		t.Errorf("Body = %q, want %q", res.Body, want)
	}
	if cache.stores != 0 {
		t.Errorf("cache stores = %d, want 0", cache.stores)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Missing", "", "<error><message>URL parameter is missing.</message></error>"},
		{"Invalid", "not a url", "<error><message>Invalid URL format provided.</message></error>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			llm := &fakeLLM{}
			cache := newFakeCache()
			svc := newTestService(t, fetcher, llm, cache, &fakeRecorder{})

			res := svc.Generate(context.Background(), FeedRequest{RawURL: tt.raw})

			if res.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, want 400", res.StatusCode)
			}
			if res.Body != tt.want {
				t.Errorf("Body = %q, want %q", res.Body, tt.want)
			}
			if fetcher.calls != 0 || llm.calls != 0 {
				t.Errorf("downstream called: fetcher=%d llm=%d", fetcher.calls, llm.calls)
			}
		})
	}
}

func TestGenerateFetchFailures(t *testing.T) {
	tests := []struct {
		name       string
		fetcher    *fakeFetcher
		wantBody   string
		wantReason string
	}{
		{
			name:       "Timeout",
			fetcher:    &fakeFetcher{err: fmt.Errorf("colly: %w", ErrFetchTimeout)},
			wantBody:   ErrorBody(MsgFetchTimeout),
			wantReason: "timeout",
		},
		{
			name:       "HTTPStatus",
			fetcher:    &fakeFetcher{err: &FetchHTTPError{StatusCode: 404}},
			wantBody:   ErrorBody("Failed to fetch URL: the server responded with status 404."),
			wantReason: "http_status",
		},
		{
			name:       "Network",
			fetcher:    &fakeFetcher{err: errors.New("dial tcp: connection refused")},
			wantBody:   ErrorBody(MsgFetchNetwork),
			wantReason: "network",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{text: sampleFeed}
			cache := newFakeCache()
			rec := &fakeRecorder{}
			svc := newTestService(t, tt.fetcher, llm, cache, rec)

			res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})

			if res.StatusCode != http.StatusBadGateway {
				t.Errorf("StatusCode = %d, want 502", res.StatusCode)
			}
			if res.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", res.Body, tt.wantBody)
			}
			if llm.calls != 0 {
				t.Errorf("llm calls = %d, want 0", llm.calls)
			}
			if cache.stores != 0 {
				t.Errorf("cache stores = %d, want 0", cache.stores)
			}
			if len(rec.fetchReasons) != 1 || rec.fetchReasons[0] != tt.wantReason {
				t.Errorf("fetch reasons = %v, want [%s]", rec.fetchReasons, tt.wantReason)
			}
		})
	}
}

func TestGenerateFetchDeadline(t *testing.T) {
	fetcher := &fakeFetcher{delay: time.Second}
	llm := &fakeLLM{text: sampleFeed}
	svc := NewFeedService(fetcher, llm, newFakeCache(), nil, zaptest.NewLogger(t), ServiceConfig{
		CacheEnabled: true,
		FetchTimeout: 20 * time.Millisecond,
	})

	res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://slow.example/"})

	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("StatusCode = %d, want 502", res.StatusCode)
	}
	if res.Body != ErrorBody(MsgFetchTimeout) {
		t.Errorf("Body = %q", res.Body)
	}
	if llm.calls != 0 {
		t.Errorf("llm calls = %d, want 0", llm.calls)
	}
}

func TestGenerateModelFailures(t *testing.T) {
	tests := []struct {
		name     string
		llm      *fakeLLM
		timeout  time.Duration
		wantBody string
	}{
		{"Unavailable", &fakeLLM{err: errors.New("rpc error: code = Unavailable")}, time.Minute, ErrorBody(MsgModelUnavailable)},
		{"Configuration", &fakeLLM{err: fmt.Errorf("gemini: %w", ErrModelConfiguration)}, time.Minute, ErrorBody(MsgConfiguration)},
		{"Deadline", &fakeLLM{block: true}, 20 * time.Millisecond, ErrorBody(MsgModelTimeout)},
		{"Empty", &fakeLLM{text: "   \n"}, time.Minute, ErrorBody(MsgEmptyResponse)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newFakeCache()
			svc := NewFeedService(&fakeFetcher{html: "<html></html>"}, tt.llm, cache, nil, zaptest.NewLogger(t), ServiceConfig{
				CacheEnabled: true,
				FetchTimeout: time.Second,
				ModelTimeout: tt.timeout,
			})

			res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})

			if res.StatusCode != http.StatusInternalServerError {
				t.Errorf("StatusCode = %d, want 500", res.StatusCode)
			}
			if res.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", res.Body, tt.wantBody)
			}
			if strings.Contains(res.Body, "rpc error") || strings.Contains(res.Body, "credentials") {
				t.Errorf("Body leaks internal detail: %q", res.Body)
			}
			if cache.stores != 0 {
				t.Errorf("cache stores = %d, want 0", cache.stores)
			}
		})
	}
}

func TestGenerateCacheDisabled(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html></html>"}
	llm := &fakeLLM{text: sampleFeed}
	cache := newFakeCache()
	svc := NewFeedService(fetcher, llm, cache, nil, zaptest.NewLogger(t), ServiceConfig{FetchTimeout: time.Second})

	for i := 0; i < 2; i++ {
		res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})
		if res.CacheDisposition != CacheNone {
			t.Errorf("CacheDisposition = %s, want NONE", res.CacheDisposition)
		}
	}
	if fetcher.calls != 2 || cache.stores != 0 {
		t.Errorf("fetcher calls = %d, cache stores = %d", fetcher.calls, cache.stores)
	}
}

func TestGenerateStoreFailureStillServesFeed(t *testing.T) {
	cache := newFakeCache()
	cache.err = errors.New("disk full")
	svc := newTestService(t, &fakeFetcher{html: "<html></html>"}, &fakeLLM{text: sampleFeed}, cache, &fakeRecorder{})

	res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})

	if res.StatusCode != http.StatusOK || res.Body != sampleFeed {
		t.Fatalf("result = %+v", res)
	}
}

func TestGenerateConcurrentMissesBothRoundTrip(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html></html>", delay: 20 * time.Millisecond}
	llm := &fakeLLM{text: sampleFeed}
	cache := newFakeCache()
	rec := &fakeRecorder{}
	svc := newTestService(t, fetcher, llm, cache, rec)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := svc.Generate(context.Background(), FeedRequest{RawURL: "https://example.com/news"})
			if res.StatusCode != http.StatusOK || res.Body != sampleFeed {
				t.Errorf("result = %+v", res)
			}
		}()
	}
	wg.Wait()

	if body := cache.entries["https://example.com/news"]; body != sampleFeed {
		t.Errorf("cache body = %q", body)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.misses != 2 || len(rec.kinds) != 2 {
		t.Errorf("misses = %d, classifications = %d, want 2 each", rec.misses, len(rec.kinds))
	}
}

func TestErrorBodyEscapes(t *testing.T) {
	got := ErrorBody(`a <b> & "c"`)
	want := "<error><message>a &lt;b&gt; &amp; &#34;c&#34;</message></error>"
	if got != want {
		t.Errorf("ErrorBody = %q, want %q", got, want)
	}
}
