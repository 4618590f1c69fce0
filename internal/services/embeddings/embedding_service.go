package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/metrics"
	"github.com/ternarybob/nomen/internal/models"
	"github.com/ternarybob/nomen/internal/services/llm"
)

// Service generates embeddings through an OpenAI-compatible API. Azure
// deployments are targeted when an endpoint is configured; there the
// deployment name doubles as the model name.
type Service struct {
	client    *openai.Client
	model     string
	dimension int
	timeout   time.Duration
	auditor   *llm.Auditor
	logger    arbor.ILogger
}

// NewService creates an embedding service from configuration. Embeddings
// always go through the OpenAI-compatible endpoint regardless of the
// completion provider, so the OpenAI key is required.
func NewService(cfg *common.Config, auditor *llm.Auditor, logger arbor.ILogger) (*Service, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required for embeddings")
	}

	var clientConfig openai.ClientConfig
	if cfg.OpenAI.Endpoint != "" {
		clientConfig = openai.DefaultAzureConfig(cfg.OpenAI.APIKey, cfg.OpenAI.Endpoint)
		if cfg.OpenAI.APIVersion != "" {
			clientConfig.APIVersion = cfg.OpenAI.APIVersion
		}
	} else {
		clientConfig = openai.DefaultConfig(cfg.OpenAI.APIKey)
	}

	return &Service{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Embedding.Model,
		dimension: cfg.Embedding.Dimension,
		timeout:   common.ParseDurationOr(cfg.Embedding.Timeout, 10*time.Second),
		auditor:   auditor,
		logger:    logger,
	}, nil
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(s.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)
	metrics.EmbeddingsGenerated.WithLabelValues(s.model, metrics.StatusLabel(err)).Inc()
	metrics.EmbeddingDuration.WithLabelValues(s.model).Observe(duration.Seconds())
	s.auditor.Record("openai", s.model, models.AuditOpEmbed, start, err, text)

	if err != nil {
		return nil, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	vector := resp.Data[0].Embedding
	if s.dimension > 0 && len(vector) != s.dimension {
		s.logger.Warn().
			Int("expected", s.dimension).
			Int("actual", len(vector)).
			Msg("Embedding dimension differs from configuration")
	}

	s.logger.Debug().
		Int("embedding_dim", len(vector)).
		Dur("duration", duration).
		Msg("Generated embedding")

	return vector, nil
}

// ModelName returns the embedding model identifier
func (s *Service) ModelName() string {
	return s.model
}

// Dimension returns the configured vector width
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable checks whether the embedding endpoint responds
func (s *Service) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.client.ListModels(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Embedding endpoint not available")
		return false
	}
	return true
}

// parseAPIError extracts a readable message from the API error response
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("embedding request failed: %w", err)
}

// extractDetail pulls the "detail" field from a JSON error body
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
