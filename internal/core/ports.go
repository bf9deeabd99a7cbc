package core

import (
	"context"
)

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Generate sends a prompt and returns the raw model text
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the model identifier used for generation
	ModelName() string
}

// FeedCache defines the interface for caching generated feeds by URL
type FeedCache interface {
	// Lookup returns the cached body for key if it is present and fresh
	Lookup(ctx context.Context, key string) (string, bool)

	// Store overwrites the entry for key with body, timestamped now
	Store(ctx context.Context, key string, body string) error
}

// Fetcher retrieves the raw HTML of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Recorder receives pipeline observations. A nil Recorder is ignored.
type Recorder interface {
	CacheHit()
	CacheMiss()
	Classified(kind ResponseKind)
	FetchFailed(reason string)
}
