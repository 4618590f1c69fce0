package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding-related Prometheus metrics.
var (
	EmbeddingsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nomen",
			Name:      "embeddings_generated_total",
			Help:      "Total number of embeddings generated",
		},
		[]string{"model", "status"},
	)

	EmbeddingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nomen",
			Name:      "embedding_duration_seconds",
			Help:      "Embedding generation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nomen",
			Name:      "embedding_cache_hits_total",
			Help:      "Total number of embedding cache hits",
		},
	)

	EmbeddingCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nomen",
			Name:      "embedding_cache_misses_total",
			Help:      "Total number of embedding cache misses",
		},
	)
)

var embeddingMetricsRegistered bool

// RegisterEmbeddingMetrics registers embedding Prometheus metrics. Must be
// called once from main.
func RegisterEmbeddingMetrics() {
	if embeddingMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingsGenerated)
	prometheus.MustRegister(EmbeddingDuration)
	prometheus.MustRegister(EmbeddingCacheHits)
	prometheus.MustRegister(EmbeddingCacheMisses)
	embeddingMetricsRegistered = true
}
