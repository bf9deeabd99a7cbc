package openai

import (
	"github.com/mikey/llm-rss-gen/internal/adapters/unconfigured"
	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new OpenAIClient
func (f *Factory) CreateClient() (core.LLMClient, error) {
	openaiCfg := f.cfg.GetOpenAI()

	if openaiCfg.APIKey == "" {
		f.logger.Error("OpenAI API key is not set; feed generation will fail",
			zap.String("setting", "openai.api_key"))
		return unconfigured.NewClient("openai", openaiCfg.ModelName), nil
	}

	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	return NewOpenAIClient(
		openai.NewClientWithConfig(clientCfg),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
	), nil
}
