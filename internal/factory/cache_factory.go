package factory

import (
	"fmt"

	"github.com/mikey/llm-rss-gen/internal/adapters/cache"
	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates feed caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFeedCache creates a feed cache based on the configuration
func (f *CacheFactory) CreateFeedCache() (core.FeedCache, error) {
	cacheCfg := f.cfg.GetCache()
	if cacheCfg.TTL <= 0 {
		return nil, fmt.Errorf("invalid cache TTL: %v", cacheCfg.TTL)
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.TTL), nil
	case "sqlite":
		sqliteCache, err := cache.NewSQLiteCache(f.logger, cacheCfg.TTL)
		if err != nil {
			return nil, err
		}
		return sqliteCache, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

// IsCacheEnabled returns whether caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetCache().Enabled
}
