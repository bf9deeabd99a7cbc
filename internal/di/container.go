package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/factory"
	"github.com/mikey/llm-rss-gen/internal/logging"
	"github.com/mikey/llm-rss-gen/internal/metrics"
	"github.com/mikey/llm-rss-gen/internal/ports"
	"github.com/mikey/llm-rss-gen/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the HTTP server
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics with process and runtime collectors
	if err := container.Provide(func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		return reg
	}); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ServerFactory, generator ports.FeedGenerator) ports.FeedServer {
		return f.CreateFeedServer(generator)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// providePipeline registers everything from the metrics recorder down to
// the feed service. Config, logger and registry must already be provided.
func providePipeline(container *dig.Container) error {
	if err := container.Provide(metrics.New); err != nil {
		return err
	}
	if err := container.Provide(func(m *metrics.Metrics) core.Recorder { return m }); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFetcherFactory); err != nil {
		return err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register feed cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.FeedCache, error) {
		return f.CreateFeedCache()
	}); err != nil {
		return err
	}

	// Register fetcher
	if err := container.Provide(func(f *factory.FetcherFactory) core.Fetcher {
		return f.CreateFetcher()
	}); err != nil {
		return err
	}

	// Register pipeline policy
	if err := container.Provide(func(cfg *config.Config, cacheFactory *factory.CacheFactory, logger *zap.Logger) core.ServiceConfig {
		serviceCfg := core.ServiceConfig{
			CacheEnabled: cacheFactory.IsCacheEnabled(),
			FetchTimeout: cfg.GetFetch().Timeout,
			ModelTimeout: cfg.GetLLM().Timeout,
		}
		logger.Info("Feed pipeline configured",
			zap.Bool("cache_enabled", serviceCfg.CacheEnabled),
			zap.String("cache_type", cfg.GetCache().Type),
			zap.Duration("cache_ttl", cfg.GetCache().TTL),
			zap.Duration("fetch_timeout", serviceCfg.FetchTimeout),
			zap.Duration("model_timeout", serviceCfg.ModelTimeout))
		return serviceCfg
	}); err != nil {
		return err
	}

	// Register feed service
	if err := container.Provide(core.NewFeedService); err != nil {
		return err
	}
	if err := container.Provide(func(s *core.FeedService) ports.FeedGenerator { return s }); err != nil {
		return err
	}

	return nil
}
