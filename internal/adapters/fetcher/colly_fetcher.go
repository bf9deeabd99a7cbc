package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/utils"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single page fetch
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent resembles a desktop browser to reduce anti-bot blocking
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// CollyFetcher retrieves page HTML with a colly collector
type CollyFetcher struct {
	base          *colly.Collector
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewCollyFetcher creates a fetcher with a fixed User-Agent and request timeout
func NewCollyFetcher(userAgent string, timeout time.Duration, textProcessor *utils.TextProcessor, logger *zap.Logger) *CollyFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(0),
	)
	c.SetRequestTimeout(timeout)

	return &CollyFetcher{
		base:          c,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Fetch returns the body of the page at rawURL. A single attempt is made.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classifyError(ctx, err)
	}

	// Callbacks are per collector, so each call gets its own clone
	c := f.base.Clone()
	c.Context = ctx

	var body []byte
	var status int

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	start := time.Now()
	if err := c.Visit(rawURL); err != nil {
		return "", classifyError(ctx, err)
	}

	if status < 200 || status > 299 {
		return "", &core.FetchHTTPError{StatusCode: status}
	}

	f.logger.Debug("Fetched page",
		zap.String("url", rawURL),
		zap.Int("status_code", status),
		zap.Int("size", len(body)),
		zap.Duration("duration", time.Since(start)))

	return f.textProcessor.ProcessText(string(body)), nil
}

func classifyError(ctx context.Context, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", core.ErrFetchTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", core.ErrFetchTimeout, err)
	default:
		return fmt.Errorf("%w: %v", core.ErrFetchNetwork, err)
	}
}
