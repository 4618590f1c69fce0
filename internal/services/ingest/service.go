package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/aisearch"
	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

const (
	// minEmbedRunes is the shortest source text worth a vector. Shorter
	// documents upload without one and stay lexically searchable.
	minEmbedRunes = 5

	// defaultBatchSize stays well under the search service's documents-
	// per-request ceiling.
	defaultBatchSize = 500
)

// Service loads seed documents, embeds their text, and uploads them to the
// search indexes. Ingestion is an offline concern: unlike the query path it
// fails loudly on upload errors so a broken run is re-runnable rather than
// silently partial.
type Service struct {
	client    *aisearch.Client
	embedder  interfaces.EmbeddingService
	config    *common.Config
	batchSize int
	logger    arbor.ILogger
}

// Result summarizes one collection's ingestion run.
type Result struct {
	Collection string `json:"collection"`
	Total      int    `json:"total"`
	Embedded   int    `json:"embedded"`
	Skipped    int    `json:"skipped"`
	Uploaded   int    `json:"uploaded"`
	Failed     int    `json:"failed"`
}

// seedDoc is one document normalized for upload: the key, the text to
// embed, and the plain index fields.
type seedDoc struct {
	id     string
	text   string
	fields map[string]interface{}
}

// NewService creates an ingestion service over the shared search client and
// embedder.
func NewService(cfg *common.Config, client *aisearch.Client, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		client:    client,
		embedder:  embedder,
		config:    cfg,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
}

// IngestFile opens a seed file and ingests it into the named collection.
func (s *Service) IngestFile(ctx context.Context, collection, path string) (*Result, error) {
	var run func(context.Context, io.Reader) (*Result, error)
	switch collection {
	case models.CollectionRules:
		run = s.IngestRules
	case models.CollectionDictionary:
		run = s.IngestDictionary
	case models.CollectionQA:
		run = s.IngestQA
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return run(ctx, f)
}

// IngestRules reads a JSON array of naming rules and uploads them to the
// rules index.
func (s *Service) IngestRules(ctx context.Context, r io.Reader) (*Result, error) {
	var docs []models.RuleDocument
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to parse rules seed: %w", err)
	}

	seeds := make([]seedDoc, 0, len(docs))
	for i, doc := range docs {
		seeds = append(seeds, seedDoc{
			id:   coerceID(doc.ID, i),
			text: doc.EmbedText(),
			fields: map[string]interface{}{
				"category": doc.Category,
				"type":     doc.Type,
				"rule_en":  doc.RuleEN,
				"rule_kr":  doc.RuleKR,
				"example":  doc.Example,
			},
		})
	}
	return s.ingest(ctx, s.config.Search.RulesIndex, models.CollectionRules, seeds)
}

// IngestDictionary reads a JSON array of term entries and uploads them to
// the dictionary index.
func (s *Service) IngestDictionary(ctx context.Context, r io.Reader) (*Result, error) {
	var docs []models.DictionaryEntry
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary seed: %w", err)
	}

	seeds := make([]seedDoc, 0, len(docs))
	for i, doc := range docs {
		seeds = append(seeds, seedDoc{
			id:   coerceID(doc.ID, i),
			text: doc.EmbedText(),
			fields: map[string]interface{}{
				"korean":       doc.Korean,
				"english":      doc.English,
				"abbreviation": doc.Abbreviation,
				"description":  doc.Description,
			},
		})
	}
	return s.ingest(ctx, s.config.Search.DictionaryIndex, models.CollectionDictionary, seeds)
}

// IngestQA reads a JSON array of Q&A pairs and uploads them to the Q&A
// index.
func (s *Service) IngestQA(ctx context.Context, r io.Reader) (*Result, error) {
	var docs []models.QAPair
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to parse qa seed: %w", err)
	}

	seeds := make([]seedDoc, 0, len(docs))
	for i, doc := range docs {
		seeds = append(seeds, seedDoc{
			id:   coerceID(doc.ID, i),
			text: doc.EmbedText(),
			fields: map[string]interface{}{
				"category": doc.Category,
				"question": doc.Question,
				"answer":   doc.Answer,
			},
		})
	}
	return s.ingest(ctx, s.config.Search.QAIndex, models.CollectionQA, seeds)
}

// ingest embeds and uploads one collection's seed documents in batches.
// Short texts upload without a vector; embedding errors drop the document
// so a re-run can pick it up.
func (s *Service) ingest(ctx context.Context, index, collection string, seeds []seedDoc) (*Result, error) {
	result := &Result{Collection: collection, Total: len(seeds)}

	batch := make([]map[string]interface{}, 0, len(seeds))
	for _, seed := range seeds {
		doc := make(map[string]interface{}, len(seed.fields)+2)
		for k, v := range seed.fields {
			doc[k] = v
		}
		doc["id"] = seed.id

		if utf8.RuneCountInString(strings.TrimSpace(seed.text)) < minEmbedRunes {
			s.logger.Warn().
				Str("id", seed.id).
				Str("collection", collection).
				Msg("Source text too short to embed, uploading lexical-only")
			result.Skipped++
			batch = append(batch, doc)
			continue
		}

		vector, err := s.embedder.GenerateEmbedding(ctx, seed.text)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("id", seed.id).
				Str("collection", collection).
				Msg("Embedding failed, skipping document")
			result.Failed++
			continue
		}
		doc["vector_embedding"] = vector
		result.Embedded++
		batch = append(batch, doc)
	}

	if len(batch) == 0 {
		s.logger.Warn().Str("collection", collection).Msg("No valid documents to upload")
		return result, nil
	}

	for start := 0; start < len(batch); start += s.batchSize {
		end := start + s.batchSize
		if end > len(batch) {
			end = len(batch)
		}

		statuses, err := s.client.UploadDocuments(ctx, index, batch[start:end])
		if err != nil {
			return result, fmt.Errorf("failed to upload %s documents: %w", collection, err)
		}
		for _, status := range statuses {
			if status.Status {
				result.Uploaded++
				continue
			}
			result.Failed++
			s.logger.Error().
				Str("key", status.Key).
				Str("message", status.Message).
				Int("status_code", status.StatusCode).
				Msg("Document rejected by the search service")
		}
	}

	s.logger.Info().
		Str("collection", collection).
		Int("total", result.Total).
		Int("embedded", result.Embedded).
		Int("skipped", result.Skipped).
		Int("uploaded", result.Uploaded).
		Int("failed", result.Failed).
		Msg("Collection ingestion completed")
	return result, nil
}

// coerceID normalizes a seed ID to a non-empty string key. Documents
// without an ID get their 1-based position, matching how the seed files
// were originally keyed.
func coerceID(id models.FlexID, position int) string {
	if s := strings.TrimSpace(string(id)); s != "" {
		return s
	}
	return strconv.Itoa(position + 1)
}
