package factory

import (
	"github.com/mikey/llm-rss-gen/internal/adapters/httpapi"
	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/metrics"
	"github.com/mikey/llm-rss-gen/internal/ports"
	"go.uber.org/zap"
)

// ServerFactory creates the HTTP feed server
type ServerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *ServerFactory {
	return &ServerFactory{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// CreateFeedServer creates an HTTP server around the feed generator
func (f *ServerFactory) CreateFeedServer(generator ports.FeedGenerator) ports.FeedServer {
	serverCfg := f.cfg.GetServer()

	handler := httpapi.NewHandler(generator, f.metrics, f.logger)
	return httpapi.NewServer(httpapi.ServerOptions{
		ListenAddress:   serverCfg.ListenAddress,
		Path:            serverCfg.Path,
		MetricsPath:     serverCfg.MetricsPath,
		ReadTimeout:     serverCfg.ReadTimeout,
		WriteTimeout:    serverCfg.WriteTimeout,
		ShutdownTimeout: serverCfg.ShutdownTimeout,
	}, handler, f.metrics.Handler(), f.logger)
}
