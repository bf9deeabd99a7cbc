package openai

import (
	"context"
	"fmt"

	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// ModelName returns the OpenAI model name
func (c *OpenAIClient) ModelName() string {
	return c.modelName
}

// Generate sends the prompt as a single user message and returns the reply
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You convert website HTML into RSS 2.0 feeds. Respond only with raw XML.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create chat completion with OpenAI: %w", core.ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn("OpenAI returned no choices", zap.String("model", c.modelName), zap.String("response_id", resp.ID))
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
