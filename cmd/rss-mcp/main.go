package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mikey/llm-rss-gen/internal/adapters/mcptool"
	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/di"
	"github.com/mikey/llm-rss-gen/internal/ports"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	flags, err := di.ParseFlags("rss-mcp", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger, generator ports.FeedGenerator, llmClient core.LLMClient, feedCache core.FeedCache) error {
	defer logger.Sync()

	s := server.NewMCPServer(
		"LLM RSS Generator",
		version,
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)
	s.AddTool(mcptool.NewTool(), mcptool.Handler(generator, logger))
	logger.Info("Registered tool", zap.String("tool", mcptool.ToolName))

	logger.Info("Starting MCP server on stdio")
	err := server.ServeStdio(s)

	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("Failed to close LLM client", zap.Error(cerr))
		}
	}
	if stopper, ok := feedCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
