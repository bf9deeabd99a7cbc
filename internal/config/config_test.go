package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	server := cfg.GetServer()
	if server.ListenAddress != "0.0.0.0:8080" || server.Path != "/generate-rss" {
		t.Errorf("server defaults = %+v", server)
	}
	if server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", server.ShutdownTimeout)
	}

	if got := cfg.GetFetch().Timeout; got != 15*time.Second {
		t.Errorf("fetch timeout = %v, want 15s", got)
	}

	llm := cfg.GetLLM()
	if llm.Provider != "gemini" || llm.Timeout != 90*time.Second {
		t.Errorf("llm defaults = %+v", llm)
	}

	if got := cfg.GetGemini().ModelName; got != "gemini-2.5-flash" {
		t.Errorf("gemini model = %q", got)
	}

	cache := cfg.GetCache()
	if !cache.Enabled || cache.Type != "memory" || cache.TTL != 10*time.Minute {
		t.Errorf("cache defaults = %+v", cache)
	}
}

func TestGeminiAPIKeyFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"Unset", map[string]string{}, ""},
		{"BareAPIKey", map[string]string{"API_KEY": "bare"}, "bare"},
		{"Prefixed", map[string]string{"RSS_GEN_GEMINI_API_KEY": "prefixed"}, "prefixed"},
		{"PrefixedWins", map[string]string{"API_KEY": "bare", "RSS_GEN_GEMINI_API_KEY": "prefixed"}, "prefixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_KEY", "")
			t.Setenv("RSS_GEN_GEMINI_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			t.Chdir(t.TempDir())

			cfg, err := New()
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := cfg.GetGemini().APIKey; got != tt.want {
				t.Errorf("api key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("RSS_GEN_CACHE_TTL", "30s")
	t.Setenv("RSS_GEN_LLM_PROVIDER", "openai")
	t.Chdir(t.TempDir())

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := cfg.GetCache().TTL; got != 30*time.Second {
		t.Errorf("cache ttl = %v, want 30s", got)
	}
	if got := cfg.GetLLM().Provider; got != "openai" {
		t.Errorf("provider = %q, want openai", got)
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rss.yaml")
	content := "server:\n  listen_address: 127.0.0.1:9999\ncache:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewWithFile(path)
	if err != nil {
		t.Fatalf("NewWithFile: %v", err)
	}
	if got := cfg.GetServer().ListenAddress; got != "127.0.0.1:9999" {
		t.Errorf("listen address = %q", got)
	}
	if cfg.GetCache().Enabled {
		t.Error("cache should be disabled by the file")
	}
	if got := cfg.GetServer().Path; got != "/generate-rss" {
		t.Errorf("unset keys should keep defaults, path = %q", got)
	}
}

func TestNewWithMissingFile(t *testing.T) {
	if _, err := NewWithFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for an explicit missing config file")
	}
}
