package search

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/aisearch"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/metrics"
	"github.com/ternarybob/nomen/internal/models"
)

// Searcher performs hybrid retrieval for one collection. Failures never
// propagate: an unreachable index or failed embedding degrades to fewer
// or lexical-only results so sibling collections stay unaffected.
type Searcher struct {
	schema   Schema
	client   *aisearch.Client
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

// NewSearcher creates a collection searcher
func NewSearcher(schema Schema, client *aisearch.Client, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Searcher {
	return &Searcher{
		schema:   schema,
		client:   client,
		embedder: embedder,
		logger:   logger,
	}
}

// Collection returns the collection name this searcher serves
func (s *Searcher) Collection() string {
	return s.schema.Collection
}

// Search runs one hybrid query and formats the hits into context
// snippets. The vector leg uses the raw request text; the lexical leg
// uses the extracted keyword query.
func (s *Searcher) Search(ctx context.Context, requestText, lexicalQuery string) []models.ContextSnippet {
	start := time.Now()

	query := aisearch.Query{
		Text:   lexicalQuery,
		Select: s.schema.Select,
		Top:    s.schema.Top,
		KNN:    s.schema.KNN,
	}

	// Vector leg is best-effort: embedding failure degrades to lexical-only
	vector, err := s.embedder.GenerateEmbedding(ctx, requestText)
	switch {
	case err != nil:
		s.logger.Warn().
			Str("collection", s.schema.Collection).
			Err(err).
			Msg("Embedding failed, searching lexical-only")
	case s.embedder.Dimension() > 0 && len(vector) != s.embedder.Dimension():
		// A mismatched vector would be rejected by the index
		s.logger.Warn().
			Str("collection", s.schema.Collection).
			Int("expected", s.embedder.Dimension()).
			Int("actual", len(vector)).
			Msg("Embedding dimension mismatch, searching lexical-only")
	default:
		query.Vector = vector
	}

	docs, err := s.client.Search(ctx, s.schema.Index, query)

	duration := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues(s.schema.Collection, metrics.StatusLabel(err)).Inc()
	metrics.SearchDuration.WithLabelValues(s.schema.Collection).Observe(duration.Seconds())

	if err != nil {
		s.logger.Warn().
			Str("collection", s.schema.Collection).
			Str("index", s.schema.Index).
			Err(err).
			Msg("Collection search failed, contributing no context")
		return nil
	}

	snippets := make([]models.ContextSnippet, 0, len(docs))
	for _, doc := range docs {
		snippets = append(snippets, models.ContextSnippet{
			Collection: s.schema.Collection,
			Score:      doc.Score(),
			Text:       s.schema.Format(doc),
		})
	}

	metrics.ContextSnippetsRetrieved.WithLabelValues(s.schema.Collection).Observe(float64(len(snippets)))

	s.logger.Debug().
		Str("collection", s.schema.Collection).
		Int("count", len(snippets)).
		Dur("duration", duration).
		Msg("Collection search completed")

	return snippets
}
