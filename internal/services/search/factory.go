package search

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/aisearch"
	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
)

// NewCollectionSearchers builds the three collection searchers in fusion
// order: rules, dictionary, Q&A.
func NewCollectionSearchers(
	cfg *common.Config,
	client *aisearch.Client,
	embedder interfaces.EmbeddingService,
	logger arbor.ILogger,
) []interfaces.CollectionSearcher {
	return []interfaces.CollectionSearcher{
		NewSearcher(RulesSchema(cfg), client, embedder, logger),
		NewSearcher(DictionarySchema(cfg), client, embedder, logger),
		NewSearcher(QASchema(cfg), client, embedder, logger),
	}
}

// NewClient creates the search service client from configuration
func NewClient(cfg *common.Config, logger arbor.ILogger) *aisearch.Client {
	return aisearch.NewClient(
		cfg.Search.Endpoint,
		cfg.Search.APIKey,
		aisearch.WithAPIVersion(cfg.Search.APIVersion),
		aisearch.WithTimeout(common.ParseDurationOr(cfg.Search.Timeout, aisearch.DefaultTimeout)),
		aisearch.WithRateInterval(common.ParseDurationOr(cfg.Search.RateLimit, 0)),
		aisearch.WithLogger(logger),
	)
}
