package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/metrics"
)

// CachedService decorates an embedding service with a persistent cache.
// Repeated texts skip the provider call entirely.
type CachedService struct {
	inner  interfaces.EmbeddingService
	cache  interfaces.EmbeddingCache
	logger arbor.ILogger
}

// NewCachedService wraps inner with cache
func NewCachedService(inner interfaces.EmbeddingService, cache interfaces.EmbeddingCache, logger arbor.ILogger) interfaces.EmbeddingService {
	return &CachedService{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// GenerateEmbedding returns a cached vector or calls the inner service
func (c *CachedService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	if vector, ok := c.cache.Get(key); ok {
		metrics.EmbeddingCacheHits.Inc()
		return vector, nil
	}
	metrics.EmbeddingCacheMisses.Inc()

	vector, err := c.inner.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	// Cache write failures don't fail the call
	if err := c.cache.Set(key, vector); err != nil {
		c.logger.Warn().Str("key", key).Err(err).Msg("Failed to cache embedding")
	}

	return vector, nil
}

// ModelName returns the inner model identifier
func (c *CachedService) ModelName() string {
	return c.inner.ModelName()
}

// Dimension returns the inner vector width
func (c *CachedService) Dimension() int {
	return c.inner.Dimension()
}

// IsAvailable delegates to the inner service
func (c *CachedService) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

// cacheKey hashes model and text together so a model change never serves
// stale vectors.
func (c *CachedService) cacheKey(text string) string {
	h := sha256.Sum256([]byte(c.inner.ModelName() + "\x00" + text))
	return hex.EncodeToString(h[:])
}
