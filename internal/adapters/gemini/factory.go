package gemini

import (
	"github.com/mikey/llm-rss-gen/internal/adapters/unconfigured"
	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new GeminiClient, or a client that reports a
// configuration error on every call when no API key is set
func (f *Factory) CreateClient() (core.LLMClient, error) {
	geminiCfg := f.cfg.GetGemini()

	if geminiCfg.APIKey == "" {
		f.logger.Error("Gemini API key is not set; feed generation will fail",
			zap.String("setting", "gemini.api_key"))
		return unconfigured.NewClient("gemini", geminiCfg.ModelName), nil
	}

	return NewGeminiClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
	)
}
