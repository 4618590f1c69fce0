package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
	if config.LLM.DefaultProvider != LLMProviderOpenAI {
		t.Errorf("expected default provider openai, got %s", config.LLM.DefaultProvider)
	}
	if config.OpenAI.Deployment != "gpt-35-turbo" {
		t.Errorf("expected default deployment gpt-35-turbo, got %s", config.OpenAI.Deployment)
	}
	if config.Embedding.Dimension != 1536 {
		t.Errorf("expected embedding dimension 1536, got %d", config.Embedding.Dimension)
	}
	if config.Search.RulesIndex != "coding-convention-index" {
		t.Errorf("unexpected rules index %s", config.Search.RulesIndex)
	}
	if config.Search.QAIndex != "qna-convention-index" {
		t.Errorf("unexpected qa index %s", config.Search.QAIndex)
	}
	if config.Search.DictionaryIndex != "dictionary-index" {
		t.Errorf("unexpected dictionary index %s", config.Search.DictionaryIndex)
	}
}

func TestDefaultRetrievalTuning(t *testing.T) {
	config := NewDefaultConfig()

	tests := []struct {
		name   string
		tuning CollectionTuning
		top    int
		knn    int
	}{
		{"rules", config.Search.Rules, 5, 5},
		{"dictionary", config.Search.Dictionary, 5, 5},
		{"qa", config.Search.QA, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tuning.Top != tt.top {
				t.Errorf("expected top %d, got %d", tt.top, tt.tuning.Top)
			}
			if tt.tuning.KNN != tt.knn {
				t.Errorf("expected knn %d, got %d", tt.knn, tt.tuning.KNN)
			}
		})
	}
}

func TestDefaultTemperatures(t *testing.T) {
	config := NewDefaultConfig()

	if config.Assistant.ExtractorTemperature != 0.0 {
		t.Errorf("extractor temperature should default to 0.0, got %f", config.Assistant.ExtractorTemperature)
	}
	if config.Assistant.GeneratorTemperature != 0.3 {
		t.Errorf("generator temperature should default to 0.3, got %f", config.Assistant.GeneratorTemperature)
	}
	if config.Assistant.AnalyzerTemperature != 0.1 {
		t.Errorf("analyzer temperature should default to 0.1, got %f", config.Assistant.AnalyzerTemperature)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nomen.toml")

	content := `
environment = "production"

[server]
port = 9090

[search]
endpoint = "https://search.example.net"
api_key = "file-key"

[search.qa]
top = 7
knn = 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("expected port 9090 from file, got %d", config.Server.Port)
	}
	if config.Search.Endpoint != "https://search.example.net" {
		t.Errorf("unexpected search endpoint %s", config.Search.Endpoint)
	}
	if config.Search.QA.Top != 7 || config.Search.QA.KNN != 4 {
		t.Errorf("expected qa tuning 7/4, got %d/%d", config.Search.QA.Top, config.Search.QA.KNN)
	}
	// Values absent from the file keep their defaults
	if config.Search.Rules.Top != 5 {
		t.Errorf("expected rules top to stay 5, got %d", config.Search.Rules.Top)
	}
	if !config.IsProduction() {
		t.Error("expected production environment from file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NOMEN_SERVER_PORT", "7070")
	t.Setenv("NOMEN_SEARCH_ENDPOINT", "https://env.example.net")
	t.Setenv("AZURE_AI_SEARCH_API_KEY", "legacy-key")
	t.Setenv("DEPLOYMENT_NAME", "gpt-4o-mini")

	config, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if config.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", config.Server.Port)
	}
	if config.Search.Endpoint != "https://env.example.net" {
		t.Errorf("expected env search endpoint, got %s", config.Search.Endpoint)
	}
	if config.Search.APIKey != "legacy-key" {
		t.Errorf("expected legacy env api key fallback, got %s", config.Search.APIKey)
	}
	if config.OpenAI.Deployment != "gpt-4o-mini" {
		t.Errorf("expected DEPLOYMENT_NAME fallback, got %s", config.OpenAI.Deployment)
	}
}

func TestEnvOverridesPreferNomenPrefix(t *testing.T) {
	t.Setenv("NOMEN_SEARCH_API_KEY", "nomen-key")
	t.Setenv("AZURE_AI_SEARCH_API_KEY", "legacy-key")

	config, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if config.Search.APIKey != "nomen-key" {
		t.Errorf("NOMEN_ prefixed env should win, got %s", config.Search.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "complete config",
			mutate: func(c *Config) {
				c.Search.Endpoint = "https://search.example.net"
				c.Search.APIKey = "key"
				c.OpenAI.APIKey = "openai-key"
			},
			wantErr: false,
		},
		{
			name:    "missing search endpoint",
			mutate:  func(c *Config) { c.Search.APIKey = "key"; c.OpenAI.APIKey = "openai-key" },
			wantErr: true,
		},
		{
			name: "missing search api key",
			mutate: func(c *Config) {
				c.Search.Endpoint = "https://search.example.net"
				c.OpenAI.APIKey = "openai-key"
			},
			wantErr: true,
		},
		{
			name: "missing provider key",
			mutate: func(c *Config) {
				c.Search.Endpoint = "https://search.example.net"
				c.Search.APIKey = "key"
			},
			wantErr: true,
		},
		{
			name: "claude provider without claude key",
			mutate: func(c *Config) {
				c.Search.Endpoint = "https://search.example.net"
				c.Search.APIKey = "key"
				c.OpenAI.APIKey = "openai-key"
				c.LLM.DefaultProvider = LLMProviderClaude
			},
			wantErr: true,
		},
		{
			name: "claude provider with both keys",
			mutate: func(c *Config) {
				c.Search.Endpoint = "https://search.example.net"
				c.Search.APIKey = "key"
				c.OpenAI.APIKey = "openai-key"
				c.LLM.DefaultProvider = LLMProviderClaude
				c.Claude.APIKey = "claude-key"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestParseDurationOr(t *testing.T) {
	if d := ParseDurationOr("", 5*time.Second); d != 5*time.Second {
		t.Errorf("empty string should return fallback, got %v", d)
	}
	if d := ParseDurationOr("bogus", 5*time.Second); d != 5*time.Second {
		t.Errorf("invalid string should return fallback, got %v", d)
	}
	if d := ParseDurationOr("250ms", 5*time.Second); d != 250*time.Millisecond {
		t.Errorf("expected parsed 250ms, got %v", d)
	}
}

func TestEmbeddingCachePath(t *testing.T) {
	config := NewDefaultConfig()
	config.Storage.Badger.Path = "/var/lib/nomen"
	if got := config.EmbeddingCachePath(); got != "/var/lib/nomen/embeddings" {
		t.Errorf("expected derived cache path, got %s", got)
	}

	config.Embedding.CachePath = "/tmp/cache"
	if got := config.EmbeddingCachePath(); got != "/tmp/cache" {
		t.Errorf("expected explicit cache path, got %s", got)
	}
}
