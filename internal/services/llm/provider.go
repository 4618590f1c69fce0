package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderOpenAI uses an OpenAI-compatible API (including Azure deployments)
	ProviderOpenAI ProviderType = "openai"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []interfaces.Message
	Model             string
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// ProviderFactory creates and manages AI provider clients. Clients are
// lazily constructed and reused; the factory is safe to share once built
// because construction happens during startup wiring.
type ProviderFactory struct {
	openaiConfig *common.OpenAIConfig
	claudeConfig *common.ClaudeConfig
	geminiConfig *common.GeminiConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger

	openaiClient *openai.Client
	claudeClient anthropic.Client
	claudeReady  bool
	geminiClient *genai.Client

	limiters map[ProviderType]*rate.Limiter
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *common.Config, logger arbor.ILogger) *ProviderFactory {
	return &ProviderFactory{
		openaiConfig: &cfg.OpenAI,
		claudeConfig: &cfg.Claude,
		geminiConfig: &cfg.Gemini,
		llmConfig:    &cfg.LLM,
		logger:       logger,
		limiters: map[ProviderType]*rate.Limiter{
			ProviderOpenAI: newLimiter(cfg.OpenAI.RateLimit, 200*time.Millisecond),
			ProviderClaude: newLimiter(cfg.Claude.RateLimit, time.Second),
			ProviderGemini: newLimiter(cfg.Gemini.RateLimit, 4*time.Second),
		},
	}
}

// newLimiter builds a rate limiter from a config interval string with
// burst 1 so requests space out evenly.
func newLimiter(interval string, fallback time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(common.ParseDurationOr(interval, fallback)), 1)
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "gpt-4o-mini" or "openai/gpt-4o-mini" -> OpenAI
// - "claude-sonnet-4-20250514" or "claude/..." -> Claude
// - "gemini-3-flash" or "gemini/..." -> Gemini
// - Empty string -> uses default provider from config
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	if model == "" {
		return ProviderType(f.llmConfig.DefaultProvider)
	}

	model = strings.ToLower(model)

	// Check for explicit provider prefix
	if strings.HasPrefix(model, "openai/") || strings.HasPrefix(model, "azure/") {
		return ProviderOpenAI
	}
	if strings.HasPrefix(model, "claude/") || strings.HasPrefix(model, "anthropic/") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini/") || strings.HasPrefix(model, "google/") {
		return ProviderGemini
	}

	// Check for model name patterns
	if strings.HasPrefix(model, "gpt-") || strings.HasPrefix(model, "o1-") || strings.HasPrefix(model, "o3-") {
		return ProviderOpenAI
	}
	if strings.HasPrefix(model, "claude-") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini-") {
		return ProviderGemini
	}

	// Default to configured provider
	return ProviderType(f.llmConfig.DefaultProvider)
}

// NormalizeModel removes provider prefix from model name if present
func (f *ProviderFactory) NormalizeModel(model string) string {
	prefixes := []string{"openai/", "azure/", "claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GetDefaultModel returns the default model for a provider
func (f *ProviderFactory) GetDefaultModel(provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return f.claudeConfig.Model
	case ProviderGemini:
		return f.geminiConfig.Model
	default:
		return f.openaiConfig.Deployment
	}
}

// GetOpenAIClient returns an OpenAI client, creating one if necessary.
// When an endpoint is configured the client targets an Azure deployment.
func (f *ProviderFactory) GetOpenAIClient() (*openai.Client, error) {
	if f.openaiClient != nil {
		return f.openaiClient, nil
	}

	if f.openaiConfig.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	var clientConfig openai.ClientConfig
	if f.openaiConfig.Endpoint != "" {
		clientConfig = openai.DefaultAzureConfig(f.openaiConfig.APIKey, f.openaiConfig.Endpoint)
		if f.openaiConfig.APIVersion != "" {
			clientConfig.APIVersion = f.openaiConfig.APIVersion
		}
	} else {
		clientConfig = openai.DefaultConfig(f.openaiConfig.APIKey)
	}

	f.openaiClient = openai.NewClientWithConfig(clientConfig)
	return f.openaiClient, nil
}

// GetClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) GetClaudeClient() (anthropic.Client, error) {
	if f.claudeReady {
		return f.claudeClient, nil
	}

	if f.claudeConfig.APIKey == "" {
		return anthropic.Client{}, fmt.Errorf("claude api key is not configured")
	}

	f.claudeClient = anthropic.NewClient(
		option.WithAPIKey(f.claudeConfig.APIKey),
	)
	f.claudeReady = true
	return f.claudeClient, nil
}

// GetGeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) GetGeminiClient(ctx context.Context) (*genai.Client, error) {
	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	if f.geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

// GenerateContent generates content using the appropriate provider based on model
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	provider := f.DetectProvider(request.Model)
	model := f.NormalizeModel(request.Model)

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	if limiter := f.limiters[provider]; limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
		}
	}

	switch provider {
	case ProviderClaude:
		return f.generateWithClaude(ctx, request, model)
	case ProviderGemini:
		return f.generateWithGemini(ctx, request, model)
	default:
		return f.generateWithOpenAI(ctx, request, model)
	}
}

// generateWithOpenAI generates content using an OpenAI-compatible API
func (f *ProviderFactory) generateWithOpenAI(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.GetOpenAIClient()
	if err != nil {
		return nil, err
	}

	// Use default deployment if not specified
	if model == "" {
		model = f.openaiConfig.Deployment
	}

	chatMessages := convertMessagesToOpenAI(request.Messages, request.SystemInstruction)
	if len(chatMessages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty")
	}

	params := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: request.Temperature,
	}
	if request.MaxTokens > 0 {
		params.MaxTokens = request.MaxTokens
	}
	// Temperature 0 means deterministic here, but the SDK treats the zero
	// value as unset. Nudge to a near-zero value so it goes on the wire.
	if params.Temperature == 0 {
		params.Temperature = 1e-5
	}

	// Make API call with retry
	var resp openai.ChatCompletionResponse
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = client.CreateChatCompletion(ctx, params)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying OpenAI API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("OpenAI API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI API")
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text in OpenAI response")
	}

	return &ContentResponse{
		Text:     text,
		Provider: ProviderOpenAI,
		Model:    model,
	}, nil
}

// generateWithClaude generates content using Claude API
func (f *ProviderFactory) generateWithClaude(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.GetClaudeClient()
	if err != nil {
		return nil, err
	}

	// Use default model if not specified
	if model == "" {
		model = f.claudeConfig.Model
	}

	claudeMessages, systemText, err := convertMessagesToClaude(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	// Use system instruction from request if provided
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.claudeConfig.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  claudeMessages,
	}

	// Claude accepts 0 as an explicit deterministic temperature
	params.Temperature = anthropic.Float(float64(request.Temperature))

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	// Make API call with retry
	var resp *anthropic.Message
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 2 * time.Second
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Claude API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("Claude API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	// Extract text from response
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderClaude,
		Model:    model,
	}, nil
}

// generateWithGemini generates content using Gemini API
func (f *ProviderFactory) generateWithGemini(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	client, err := f.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	// Use default model if not specified
	if model == "" {
		model = f.geminiConfig.Model
	}

	geminiContents, systemText, err := convertMessagesToGemini(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	// Use system instruction from request if provided
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(request.Temperature),
	}

	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	// Make API call with retry
	var resp *genai.GenerateContentResponse
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = client.Models.GenerateContent(ctx, model, geminiContents, config)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("Gemini API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	return &ContentResponse{
		Text:     responseText,
		Provider: ProviderGemini,
		Model:    model,
	}, nil
}

// Close closes all provider clients
func (f *ProviderFactory) Close() error {
	f.openaiClient = nil
	f.geminiClient = nil
	f.claudeClient = anthropic.Client{} // Reset to zero value
	f.claudeReady = false
	return nil
}
