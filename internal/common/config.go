package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	LLM         LLMConfig       `toml:"llm"`
	OpenAI      OpenAIConfig    `toml:"openai"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Embedding   EmbeddingConfig `toml:"embedding"`
	Search      SearchConfig    `toml:"search"`
	Assistant   AssistantConfig `toml:"assistant"`
	Audit       AuditConfig     `toml:"audit"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderOpenAI uses an OpenAI or Azure OpenAI deployment
	LLMProviderOpenAI LLMProvider = "openai"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "openai", "claude", or "gemini" (default: "openai")
}

// OpenAIConfig contains OpenAI-compatible API configuration. Endpoint may
// point at an Azure OpenAI resource; when empty the public API is used.
type OpenAIConfig struct {
	APIKey     string `toml:"api_key"`     // API key (NOMEN_OPENAI_API_KEY or OPENAI_KEY)
	Endpoint   string `toml:"endpoint"`    // Base URL for Azure or proxy deployments
	Deployment string `toml:"deployment"`  // Chat model or Azure deployment name (default: "gpt-35-turbo")
	APIVersion string `toml:"api_version"` // Azure API version (default: "2024-02-01")
	Timeout    string `toml:"timeout"`     // Operation timeout as duration string (default: "30s")
	RateLimit  string `toml:"rate_limit"`  // Minimum interval between requests (default: "200ms")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`    // Anthropic API key (NOMEN_CLAUDE_API_KEY or ANTHROPIC_API_KEY)
	Model     string `toml:"model"`      // Model for completions (default: "claude-haiku-3-5-20241022")
	MaxTokens int    `toml:"max_tokens"` // Maximum tokens in response (default: 4096)
	Timeout   string `toml:"timeout"`    // Operation timeout as duration string (default: "30s")
	RateLimit string `toml:"rate_limit"` // Minimum interval between requests (default: "1s")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`    // Google Gemini API key (NOMEN_GEMINI_API_KEY or GEMINI_API_KEY)
	Model     string `toml:"model"`      // Model for completions (default: "gemini-3-flash-preview")
	Timeout   string `toml:"timeout"`    // Operation timeout as duration string (default: "30s")
	RateLimit string `toml:"rate_limit"` // Minimum interval between requests (default: "4s" for free tier)
}

// EmbeddingConfig contains embedding generation configuration. Embeddings
// always go through the OpenAI-compatible endpoint configured above.
type EmbeddingConfig struct {
	Model     string `toml:"model"`      // Embedding model (default: "text-embedding-3-small")
	Dimension int    `toml:"dimension"`  // Vector width, must match the index vector field (default: 1536)
	Timeout   string `toml:"timeout"`    // Per-call timeout (default: "10s")
	Cache     bool   `toml:"cache"`      // Cache vectors in BadgerDB keyed by content hash
	CachePath string `toml:"cache_path"` // Cache directory (default: "<badger path>/embeddings")
}

// CollectionTuning holds per-collection retrieval depth
type CollectionTuning struct {
	Top int `toml:"top"` // Result count returned by the hybrid query
	KNN int `toml:"knn"` // Nearest-neighbor count for the vector leg
}

// SearchConfig contains the external search service configuration
type SearchConfig struct {
	Endpoint        string           `toml:"endpoint" validate:"required"` // Search service base URL (NOMEN_SEARCH_ENDPOINT or AZURE_AI_SEARCH_ENDPOINT)
	APIKey          string           `toml:"api_key" validate:"required"`  // Admin or query key (NOMEN_SEARCH_API_KEY or AZURE_AI_SEARCH_API_KEY)
	APIVersion      string           `toml:"api_version"`                  // REST API version (default: "2023-11-01")
	RulesIndex      string           `toml:"rules_index"`                  // Naming rules index (default: "coding-convention-index")
	DictionaryIndex string           `toml:"dictionary_index"`             // Term dictionary index (default: "dictionary-index")
	QAIndex         string           `toml:"qa_index"`                     // Q&A index (default: "qna-convention-index")
	Timeout         string           `toml:"timeout"`                      // Per-query timeout (default: "15s")
	RateLimit       string           `toml:"rate_limit"`                   // Minimum interval between requests (default: "100ms")
	Rules           CollectionTuning `toml:"rules"`
	Dictionary      CollectionTuning `toml:"dictionary"`
	QA              CollectionTuning `toml:"qa"`
}

// AssistantConfig contains pipeline tuning. The temperatures intentionally
// differ per stage: extraction must be deterministic, analysis near so,
// generation may vary phrasing.
type AssistantConfig struct {
	ExtractorTemperature  float32 `toml:"extractor_temperature"`    // Keyword extraction (default: 0.0)
	GeneratorTemperature  float32 `toml:"generator_temperature"`    // Answer generation (default: 0.3)
	AnalyzerTemperature   float32 `toml:"analyzer_temperature"`     // Code analysis (default: 0.1)
	MaxKeywords           int     `toml:"max_keywords"`             // Keyword cap for extraction (default: 5)
	MaxExtractRunes       int     `toml:"max_extract_runes"`        // Truncation guard for the extraction prompt input (default: 4000)
	FileQueryIncludesText bool    `toml:"file_query_includes_text"` // Fold accompanying text into the file-analysis retrieval query (default: false)
}

// AuditConfig controls the persistent LLM audit trail
type AuditConfig struct {
	Enabled    bool `toml:"enabled"`     // Record LLM operations to BadgerDB
	LogQueries bool `toml:"log_queries"` // Include query text in audit records
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in nomen.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development", // Default to development mode
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				// Kept apart from the seed files that live in ./data
				Path: "./data/badger",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",                     // Info level for production (debug|info|warn|error)
			Format: "text",                     // Human-readable text format (text|json)
			Output: []string{"stdout", "file"}, // Log to both console and file
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderOpenAI, // The reference deployment runs on Azure OpenAI
		},
		OpenAI: OpenAIConfig{
			APIKey:     "",             // User must provide API key (no fallback)
			Endpoint:   "",             // Empty uses api.openai.com
			Deployment: "gpt-35-turbo", // Matches the shared Azure deployment name
			APIVersion: "2024-02-01",   // Azure OpenAI API version
			Timeout:    "30s",          // Generation calls are the slowest external hop
			RateLimit:  "200ms",        // 5 RPS guard for shared deployments
		},
		Claude: ClaudeConfig{
			APIKey:    "",
			Model:     "claude-haiku-3-5-20241022",
			MaxTokens: 4096,
			Timeout:   "30s",
			RateLimit: "1s",
		},
		Gemini: GeminiConfig{
			APIKey:    "",
			Model:     "gemini-3-flash-preview",
			Timeout:   "30s",
			RateLimit: "4s", // Default to 4s (15 RPM) for free tier
		},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-3-small",
			Dimension: 1536, // Must match the vector_embedding field width in all three indexes
			Timeout:   "10s",
			Cache:     true,
			CachePath: "", // Empty derives "<badger path>/embeddings"
		},
		Search: SearchConfig{
			Endpoint:        "", // User must provide (fatal when missing)
			APIKey:          "", // User must provide (fatal when missing)
			APIVersion:      "2023-11-01",
			RulesIndex:      "coding-convention-index",
			DictionaryIndex: "dictionary-index",
			QAIndex:         "qna-convention-index",
			Timeout:         "15s",
			RateLimit:       "100ms",
			Rules:           CollectionTuning{Top: 5, KNN: 5},
			Dictionary:      CollectionTuning{Top: 5, KNN: 5},
			QA:              CollectionTuning{Top: 3, KNN: 3},
		},
		Assistant: AssistantConfig{
			ExtractorTemperature:  0.0,
			GeneratorTemperature:  0.3,
			AnalyzerTemperature:   0.1,
			MaxKeywords:           5,
			MaxExtractRunes:       4000,
			FileQueryIncludesText: false, // Retrieval intent comes from the file name, not the accompanying note
		},
		Audit: AuditConfig{
			Enabled:    true,
			LogQueries: false, // Query text may contain proprietary source code
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env -> CLI. Later files override
// earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: NOMEN_ENV, fallback: GO_ENV)
	if env := os.Getenv("NOMEN_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("NOMEN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("NOMEN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("NOMEN_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("NOMEN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("NOMEN_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("NOMEN_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("NOMEN_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// OpenAI configuration
	// New NOMEN_ names first, then the names the original deployment used
	if apiKey := os.Getenv("NOMEN_OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	} else if apiKey := os.Getenv("OPENAI_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey // Deployment-compatible fallback
	}
	if endpoint := os.Getenv("NOMEN_OPENAI_ENDPOINT"); endpoint != "" {
		config.OpenAI.Endpoint = endpoint
	} else if endpoint := os.Getenv("OPENAI_ENDPOINT"); endpoint != "" {
		config.OpenAI.Endpoint = endpoint // Deployment-compatible fallback
	}
	if deployment := os.Getenv("NOMEN_OPENAI_DEPLOYMENT"); deployment != "" {
		config.OpenAI.Deployment = deployment
	} else if deployment := os.Getenv("DEPLOYMENT_NAME"); deployment != "" {
		config.OpenAI.Deployment = deployment // Deployment-compatible fallback
	}
	if apiVersion := os.Getenv("NOMEN_OPENAI_API_VERSION"); apiVersion != "" {
		config.OpenAI.APIVersion = apiVersion
	}
	if timeout := os.Getenv("NOMEN_OPENAI_TIMEOUT"); timeout != "" {
		config.OpenAI.Timeout = timeout
	}
	if rateLimit := os.Getenv("NOMEN_OPENAI_RATE_LIMIT"); rateLimit != "" {
		config.OpenAI.RateLimit = rateLimit
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("NOMEN_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // NOMEN_ prefix takes priority
	}
	if model := os.Getenv("NOMEN_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("NOMEN_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("NOMEN_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey // NOMEN_ prefix takes priority
	}
	if model := os.Getenv("NOMEN_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// Embedding configuration
	if model := os.Getenv("NOMEN_EMBEDDING_MODEL"); model != "" {
		config.Embedding.Model = model
	}
	if dimension := os.Getenv("NOMEN_EMBEDDING_DIMENSION"); dimension != "" {
		if d, err := strconv.Atoi(dimension); err == nil {
			config.Embedding.Dimension = d
		}
	}
	if cache := os.Getenv("NOMEN_EMBEDDING_CACHE"); cache != "" {
		if c, err := strconv.ParseBool(cache); err == nil {
			config.Embedding.Cache = c
		}
	}

	// Search configuration
	if endpoint := os.Getenv("NOMEN_SEARCH_ENDPOINT"); endpoint != "" {
		config.Search.Endpoint = endpoint
	} else if endpoint := os.Getenv("AZURE_AI_SEARCH_ENDPOINT"); endpoint != "" {
		config.Search.Endpoint = endpoint // Deployment-compatible fallback
	}
	if apiKey := os.Getenv("NOMEN_SEARCH_API_KEY"); apiKey != "" {
		config.Search.APIKey = apiKey
	} else if apiKey := os.Getenv("AZURE_AI_SEARCH_API_KEY"); apiKey != "" {
		config.Search.APIKey = apiKey // Deployment-compatible fallback
	}
	if apiVersion := os.Getenv("NOMEN_SEARCH_API_VERSION"); apiVersion != "" {
		config.Search.APIVersion = apiVersion
	}
	if rulesIndex := os.Getenv("NOMEN_SEARCH_RULES_INDEX"); rulesIndex != "" {
		config.Search.RulesIndex = rulesIndex
	}
	if dictIndex := os.Getenv("NOMEN_SEARCH_DICTIONARY_INDEX"); dictIndex != "" {
		config.Search.DictionaryIndex = dictIndex
	}
	if qaIndex := os.Getenv("NOMEN_SEARCH_QA_INDEX"); qaIndex != "" {
		config.Search.QAIndex = qaIndex
	}
	if timeout := os.Getenv("NOMEN_SEARCH_TIMEOUT"); timeout != "" {
		config.Search.Timeout = timeout
	}

	// Audit configuration
	if enabled := os.Getenv("NOMEN_AUDIT_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Audit.Enabled = e
		}
	}
	if logQueries := os.Getenv("NOMEN_AUDIT_LOG_QUERIES"); logQueries != "" {
		if lq, err := strconv.ParseBool(logQueries); err == nil {
			config.Audit.LogQueries = lq
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for startup-blocking problems. A
// missing search endpoint or a missing key for the active LLM provider is
// fatal: the pipeline cannot degrade around absent credentials.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	switch c.LLM.DefaultProvider {
	case LLMProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai api key is required (set NOMEN_OPENAI_API_KEY or OPENAI_KEY)")
		}
	case LLMProviderClaude:
		if c.Claude.APIKey == "" {
			return fmt.Errorf("claude api key is required (set NOMEN_CLAUDE_API_KEY or ANTHROPIC_API_KEY)")
		}
	case LLMProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini api key is required (set NOMEN_GEMINI_API_KEY or GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown llm provider %q (expected openai, claude, or gemini)", c.LLM.DefaultProvider)
	}

	// Embeddings ride the OpenAI-compatible endpoint regardless of the
	// completion provider.
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required for embeddings (set NOMEN_OPENAI_API_KEY or OPENAI_KEY)")
	}

	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}

	return nil
}

// EmbeddingCachePath returns the configured cache directory, deriving a
// subdirectory of the badger path when unset.
func (c *Config) EmbeddingCachePath() string {
	if c.Embedding.CachePath != "" {
		return c.Embedding.CachePath
	}
	return c.Storage.Badger.Path + "/embeddings"
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ParseDurationOr parses a duration string, returning fallback on empty or
// invalid input. Config timeouts are strings so TOML files stay readable.
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
