package unconfigured

import (
	"context"
	"fmt"

	"github.com/mikey/llm-rss-gen/internal/core"
)

// Client stands in for an LLM provider whose credentials are missing.
// Every call fails with core.ErrModelConfiguration.
type Client struct {
	provider  string
	modelName string
}

// NewClient creates a client for the named provider
func NewClient(provider, modelName string) *Client {
	return &Client{provider: provider, modelName: modelName}
}

// Generate always fails
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("%s: %w", c.provider, core.ErrModelConfiguration)
}

// ModelName returns the configured model name
func (c *Client) ModelName() string {
	return c.modelName
}
