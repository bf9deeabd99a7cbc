package di

import (
	"flag"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-rss-gen/internal/config"
	"github.com/mikey/llm-rss-gen/internal/logging"
)

// CLIFlags contains all command line flags for the CLI applications
type CLIFlags struct {
	// Request flags
	URL      string
	Endpoint string
	Raw      bool
	NoCache  bool

	// LLM provider flags
	Provider     string
	ModelTimeout time.Duration
	FetchTimeout time.Duration

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string
	OpenAIBaseURL   string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string

	// set records which flags were given explicitly
	set map[string]bool
}

// ParseFlags parses command line arguments into a CLIFlags struct
func ParseFlags(name string, args []string) (*CLIFlags, error) {
	flags := &CLIFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// Request flags
	fs.StringVar(&flags.URL, "url", "", "Webpage URL to convert into a feed")
	fs.StringVar(&flags.Endpoint, "endpoint", "", "Remote generator endpoint, e.g. http://localhost:8080/generate-rss (runs in-process if empty)")
	fs.BoolVar(&flags.Raw, "raw", false, "Print the raw XML instead of a summary")
	fs.BoolVar(&flags.NoCache, "no-cache", false, "Disable the feed cache")

	// LLM provider flags
	fs.StringVar(&flags.Provider, "provider", "gemini", "LLM provider (gemini, openai, bedrock)")
	fs.DurationVar(&flags.ModelTimeout, "model-timeout", 90*time.Second, "Deadline for the model call (0 for none)")
	fs.DurationVar(&flags.FetchTimeout, "fetch-timeout", 15*time.Second, "Deadline for fetching the page")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-2.5-flash", "Gemini model name")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL for an OpenAI-compatible API")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Output flags
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (flags given explicitly still win)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })

	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container
// for the in-process CLI and the MCP server
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewWithFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Metrics are collected but not exposed
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags overrides configuration with the flags given on the command line
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	overrides := []struct {
		flag  string
		key   string
		value interface{}
	}{
		{"provider", "llm.provider", flags.Provider},
		{"model-timeout", "llm.timeout", flags.ModelTimeout},
		{"fetch-timeout", "fetch.timeout", flags.FetchTimeout},
		{"gemini-api-key", "gemini.api_key", flags.GeminiAPIKey},
		{"gemini-model", "gemini.model_name", flags.GeminiModelName},
		{"openai-api-key", "openai.api_key", flags.OpenAIAPIKey},
		{"openai-model", "openai.model_name", flags.OpenAIModelName},
		{"openai-base-url", "openai.base_url", flags.OpenAIBaseURL},
		{"bedrock-region", "bedrock.region", flags.BedrockRegion},
		{"bedrock-model", "bedrock.model_id", flags.BedrockModelID},
	}
	for _, o := range overrides {
		if flags.set[o.flag] {
			cfg.Set(o.key, o.value)
		}
	}
	if flags.NoCache {
		cfg.Set("cache.enabled", false)
	}
}
