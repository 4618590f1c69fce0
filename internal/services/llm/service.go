package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/metrics"
	"github.com/ternarybob/nomen/internal/models"
)

// Service provides chat completions through the configured provider.
// It wraps the provider factory with per-call timeouts, metrics, and
// audit records.
type Service struct {
	factory *ProviderFactory
	auditor *Auditor
	logger  arbor.ILogger

	model   string
	timeout time.Duration
}

// NewService creates an LLM service for the default provider in cfg.
func NewService(cfg *common.Config, auditor *Auditor, logger arbor.ILogger) *Service {
	factory := NewProviderFactory(cfg, logger)
	provider := factory.DetectProvider("")

	var timeout time.Duration
	switch provider {
	case ProviderClaude:
		timeout = common.ParseDurationOr(cfg.Claude.Timeout, 30*time.Second)
	case ProviderGemini:
		timeout = common.ParseDurationOr(cfg.Gemini.Timeout, 30*time.Second)
	default:
		timeout = common.ParseDurationOr(cfg.OpenAI.Timeout, 30*time.Second)
	}

	return &Service{
		factory: factory,
		auditor: auditor,
		logger:  logger,
		model:   factory.GetDefaultModel(provider),
		timeout: timeout,
	}
}

// Complete generates a completion for the given conversation
func (s *Service) Complete(ctx context.Context, messages []interfaces.Message, opts interfaces.CompletionOptions) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.factory.GenerateContent(ctx, &ContentRequest{
		Messages:    messages,
		Model:       s.model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})

	provider := string(s.factory.DetectProvider(s.model))
	metrics.CompletionsTotal.WithLabelValues(provider, metrics.StatusLabel(err)).Inc()
	metrics.CompletionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	s.auditor.Record(provider, s.model, models.AuditOpComplete, start, err, lastUserContent(messages))

	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// HealthCheck verifies the provider is reachable by sending a minimal
// completion request.
func (s *Service) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.factory.GenerateContent(ctx, &ContentRequest{
		Messages:  []interfaces.Message{{Role: "user", Content: "ping"}},
		Model:     s.model,
		MaxTokens: 8,
	})
	if err != nil {
		return fmt.Errorf("llm health check failed: %w", err)
	}

	return nil
}

// ModelName returns the configured model identifier
func (s *Service) ModelName() string {
	return s.model
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.factory.Close()
}

// lastUserContent returns the content of the most recent user message,
// used as the audited query text.
func lastUserContent(messages []interfaces.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
