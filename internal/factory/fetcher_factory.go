package factory

import (
	"github.com/mikey/llm-rss-gen/internal/adapters/fetcher"
	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/utils"
	"go.uber.org/zap"
)

// FetcherFactory creates page fetchers
type FetcherFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFetcherFactory creates a new fetcher factory
func NewFetcherFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *FetcherFactory {
	return &FetcherFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateFetcher creates a fetcher with the configured identity and timeout
func (f *FetcherFactory) CreateFetcher() core.Fetcher {
	fetchCfg := f.cfg.GetFetch()

	userAgent := fetchCfg.UserAgent
	if userAgent == "" {
		userAgent = fetcher.DefaultUserAgent
	}
	timeout := fetchCfg.Timeout
	if timeout <= 0 {
		timeout = fetcher.DefaultTimeout
	}

	return fetcher.NewCollyFetcher(userAgent, timeout, f.textProcessor, f.logger)
}
