package config

import "time"

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	ListenAddress   string
	Path            string
	MetricsPath     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// FetchConfig represents the page fetch configuration
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
	Timeout  time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	BaseURL     string
}

// CacheConfig represents the response cache configuration
type CacheConfig struct {
	Enabled bool
	Type    string
	TTL     time.Duration
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Path:            c.GetString("server.path"),
		MetricsPath:     c.GetString("server.metrics_path"),
		ReadTimeout:     c.GetDuration("server.read_timeout"),
		WriteTimeout:    c.GetDuration("server.write_timeout"),
		ShutdownTimeout: c.GetDuration("server.shutdown_timeout"),
	}
}

// GetFetch returns the fetch configuration
func (c *Config) GetFetch() FetchConfig {
	return FetchConfig{
		Timeout:   c.GetDuration("fetch.timeout"),
		UserAgent: c.GetString("fetch.user_agent"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
		Timeout:  c.GetDuration("llm.timeout"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		BaseURL:     c.GetString("openai.base_url"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Enabled: c.GetBool("cache.enabled"),
		Type:    c.GetString("cache.type"),
		TTL:     c.GetDuration("cache.ttl"),
	}
}
