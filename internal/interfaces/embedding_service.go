package interfaces

import (
	"context"
)

// EmbeddingService generates vector embeddings
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}

// EmbeddingCache stores embedding vectors keyed by a content hash so
// repeated texts skip the provider call.
type EmbeddingCache interface {
	// Get returns the cached vector for a key, or false on miss
	Get(key string) ([]float32, bool)

	// Set stores a vector under a key
	Set(key string, vector []float32) error

	// Close flushes and releases the underlying store
	Close() error
}
