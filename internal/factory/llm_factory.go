package factory

import (
	"fmt"

	"github.com/mikey/llm-rss-gen/internal/adapters/bedrock"
	"github.com/mikey/llm-rss-gen/internal/adapters/gemini"
	"github.com/mikey/llm-rss-gen/internal/adapters/openai"
	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	var (
		client core.LLMClient
		err    error
	)
	switch llmConfig.Provider {
	case "gemini":
		client, err = gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case "openai":
		client, err = openai.NewFactory(f.cfg, f.logger).CreateClient()
	case "bedrock":
		client, err = bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("LLM client ready",
		zap.String("provider", llmConfig.Provider),
		zap.String("model", client.ModelName()),
		zap.Duration("timeout", llmConfig.Timeout))
	return client, nil
}
