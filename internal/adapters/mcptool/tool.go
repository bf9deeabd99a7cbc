package mcptool

import (
	"context"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/ports"
	"go.uber.org/zap"
)

// ToolName is the MCP tool name for feed generation
const ToolName = "generate-rss"

// NewTool describes the generate-rss tool
func NewTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(strings.Join([]string{
			"Generates an RSS 2.0 feed for a webpage that does not publish one",
			"\nFunctionality:",
			"- Fetches the page and asks a language model to extract its articles",
			"- Returns raw RSS XML, or an <error> document when no articles are found",
			"\nUsage notes:",
			"- The URL must be absolute, including the scheme",
			"- Feeds are cached per URL for a short time",
		}, "\n")),
		mcp.WithString("url", mcp.Required(), mcp.Description("The webpage URL to convert into a feed")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Handler returns the MCP tool handler for the generate-rss tool
func Handler(generator ports.FeedGenerator, logger *zap.Logger) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		url, err := req.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := generator.Generate(ctx, core.FeedRequest{RawURL: url})
		logger.Debug("Tool call finished",
			zap.String("url", url),
			zap.Int("status_code", result.StatusCode),
			zap.String("cache", string(result.CacheDisposition)))

		if result.StatusCode != http.StatusOK {
			return mcp.NewToolResultError(result.Body), nil
		}
		return mcp.NewToolResultText(result.Body), nil
	}
}
