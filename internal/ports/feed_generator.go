package ports

import (
	"context"

	"github.com/mikey/llm-rss-gen/internal/core"
)

// FeedGenerator defines the interface driving adapters use to turn a URL
// into a feed response
type FeedGenerator interface {
	// Generate runs the pipeline for one request; failures are carried in
	// the result rather than returned
	Generate(ctx context.Context, req core.FeedRequest) *core.PipelineResult
}
