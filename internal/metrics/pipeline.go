package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline and retrieval Prometheus metrics.
var (
	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nomen",
			Name:      "pipeline_requests_total",
			Help:      "Total number of assistant pipeline runs",
		},
		[]string{"mode", "status"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nomen",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end pipeline duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"mode"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nomen",
			Name:      "search_requests_total",
			Help:      "Total number of collection search requests",
		},
		[]string{"collection", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nomen",
			Name:      "search_duration_seconds",
			Help:      "Hybrid search request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"collection"},
	)

	ContextSnippetsRetrieved = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nomen",
			Name:      "context_snippets_retrieved",
			Help:      "Snippets contributed per collection per request",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"collection"},
	)

	CompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nomen",
			Name:      "llm_completions_total",
			Help:      "Total number of LLM completion calls",
		},
		[]string{"provider", "status"},
	)

	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nomen",
			Name:      "llm_completion_duration_seconds",
			Help:      "LLM completion duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline Prometheus metrics. Must be
// called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRequestsTotal)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ContextSnippetsRetrieved)
	prometheus.MustRegister(CompletionsTotal)
	prometheus.MustRegister(CompletionDuration)
	pipelineMetricsRegistered = true
}

// StatusLabel converts an error into the status label convention used
// across all counters.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
