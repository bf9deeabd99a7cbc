package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/di"
	"github.com/mikey/llm-rss-gen/internal/feedclient"
	"github.com/mikey/llm-rss-gen/internal/logging"
	"github.com/mikey/llm-rss-gen/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags("rss-gen", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		os.Exit(2)
	}
	if flags.URL == "" {
		fmt.Fprintln(os.Stderr, "Usage: rss-gen -url <webpage> [-endpoint <generator>] [-raw]")
		os.Exit(2)
	}

	os.Exit(run(flags))
}

func run(flags *di.CLIFlags) int {
	startTime := time.Now()

	var (
		result *feedclient.Result
		err    error
		cache  string
	)
	if flags.Endpoint != "" {
		result, err = generateRemote(flags)
	} else {
		result, cache, err = generateLocal(flags)
	}

	var domainErr *feedclient.DomainError
	switch {
	case errors.As(err, &domainErr):
		fmt.Printf("No feed: %s\n", domainErr.Message)
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if flags.Raw {
		fmt.Println(result.Raw)
		return 0
	}
	printSummary(os.Stdout, result.Summary, cache, time.Since(startTime))
	return 0
}

func generateRemote(flags *di.CLIFlags) (*feedclient.Result, error) {
	logger, err := logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	timeout := flags.FetchTimeout + flags.ModelTimeout + 10*time.Second
	if flags.ModelTimeout == 0 {
		timeout = 0
	}
	return feedclient.NewClient(flags.Endpoint, timeout, logger).Generate(context.Background(), flags.URL)
}

func generateLocal(flags *di.CLIFlags) (*feedclient.Result, string, error) {
	// A single request gains nothing from the cache
	flags.NoCache = true

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build dependency container: %w", err)
	}

	var (
		result *feedclient.Result
		cache  string
	)
	invokeErr := container.Invoke(func(
		logger *zap.Logger,
		generator ports.FeedGenerator,
		llmClient core.LLMClient,
		feedCache core.FeedCache,
	) {
		defer logger.Sync()
		defer release(logger, llmClient, feedCache)

		res := generator.Generate(context.Background(), core.FeedRequest{RawURL: flags.URL})
		cache = string(res.CacheDisposition)
		result, err = feedclient.FromResponse(res.StatusCode, res.Body)
	})
	if invokeErr != nil {
		return nil, "", invokeErr
	}
	return result, cache, err
}

// release closes the model client and stops the cache, whichever support it
func release(logger *zap.Logger, llmClient core.LLMClient, feedCache core.FeedCache) {
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
	if stopper, ok := feedCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

func printSummary(w io.Writer, s *feedclient.FeedSummary, cache string, d time.Duration) {
	const maxItems = 5

	fmt.Fprintf(w, "\n=== Feed ===\n")
	fmt.Fprintf(w, "Title: %s\n", s.Title)
	fmt.Fprintf(w, "Link: %s\n", s.Link)
	if s.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", s.Description)
	}
	if s.Language != "" {
		fmt.Fprintf(w, "Language: %s\n", s.Language)
	}
	fmt.Fprintf(w, "Items: %d\n", len(s.Items))

	fmt.Fprintf(w, "\n=== Items ===\n")
	for i, item := range s.Items {
		if i == maxItems {
			fmt.Fprintf(w, "... and %d more\n", len(s.Items)-maxItems)
			break
		}
		fmt.Fprintf(w, "- %s\n  %s\n", item.Title, item.Link)
		if item.Published != nil {
			fmt.Fprintf(w, "  %s\n", item.Published.Format(time.RFC1123))
		}
	}

	fmt.Fprintf(w, "\n")
	if cache != "" && cache != string(core.CacheNone) {
		fmt.Fprintf(w, "Cache: %s\n", cache)
	}
	fmt.Fprintf(w, "Processing time: %v\n", d)
}
