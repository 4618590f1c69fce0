package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/metrics"
	"github.com/ternarybob/nomen/internal/models"
)

// categoryByExt maps upload extensions onto the rule categories the indexes
// are tagged with. Unknown extensions search without a category anchor.
var categoryByExt = map[string]string{
	".java": "Java",
	".sql":  "Database",
	".js":   "WebUI",
	".ts":   "WebUI",
	".html": "WebUI",
}

// Service runs the full pipeline: keyword extraction, concurrent collection
// search, fusion, then generation or analysis depending on the request
// shape. Component failures degrade in place; only orchestration-level
// errors (bad request, cancelled context) surface to the caller, and those
// never touch history.
type Service struct {
	extractor *Extractor
	generator *Generator
	analyzer  *Analyzer
	searchers []interfaces.CollectionSearcher
	history   interfaces.HistoryService
	llm       interfaces.LLMService
	config    common.AssistantConfig
	logger    arbor.ILogger
}

// NewService wires the pipeline stages around the shared LLM client and the
// collection searchers.
func NewService(cfg *common.Config, llm interfaces.LLMService, searchers []interfaces.CollectionSearcher, history interfaces.HistoryService, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		extractor: NewExtractor(&cfg.Assistant, llm, logger),
		generator: NewGenerator(&cfg.Assistant, llm, logger),
		analyzer:  NewAnalyzer(&cfg.Assistant, llm, logger),
		searchers: searchers,
		history:   history,
		llm:       llm,
		config:    cfg.Assistant,
		logger:    logger,
	}
}

// Ask processes one request end to end. The returned record has already
// been appended to history; an error return means nothing was recorded.
func (s *Service) Ask(ctx context.Context, req *models.AskRequest) (*models.ResultRecord, error) {
	start := time.Now()

	if req == nil {
		return nil, s.fail(models.ModeQuestion, start, fmt.Errorf("request is required"))
	}
	mode := req.Mode()
	if err := req.Validate(); err != nil {
		return nil, s.fail(mode, start, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(mode, start, err)
	}

	intent := s.retrievalIntent(req)
	s.logger.Info().
		Str("mode", mode).
		Str("intent", intent).
		Msg("Processing assistant request")

	keywords, query := s.extractor.Extract(ctx, intent)
	bundle := s.searchAll(ctx, intent, query)

	// The caller has gone away; generating and recording would be wasted work
	if err := ctx.Err(); err != nil {
		return nil, s.fail(mode, start, err)
	}

	var answer string
	switch mode {
	case models.ModeFileAnalysis:
		answer = s.analyzer.Analyze(ctx, req.File.Name, req.File.Content, req.Text, bundle)
	default:
		answer = s.generator.Generate(ctx, req.Text, bundle)
	}

	record := &models.ResultRecord{
		ID:                common.NewRecordID(),
		Question:          strings.TrimSpace(req.Text),
		Answer:            answer,
		Mode:              mode,
		Keywords:          keywords,
		SearchQuery:       query,
		RulesContext:      bundle.CollectionTexts(models.CollectionRules),
		DictionaryContext: bundle.CollectionTexts(models.CollectionDictionary),
		QAContext:         bundle.CollectionTexts(models.CollectionQA),
		ContextCount:      bundle.Count(),
		CreatedAt:         time.Now(),
	}
	if req.File != nil {
		record.FileName = req.File.Name
	}

	if s.history != nil {
		s.history.Append(record)
	}

	metrics.PipelineRequestsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.PipelineDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	s.logger.Info().
		Str("id", record.ID).
		Str("mode", mode).
		Int("context_count", record.ContextCount).
		Str("duration", time.Since(start).String()).
		Msg("Assistant request completed")

	return record, nil
}

// Abbreviate proposes a short standardized abbreviation for fullName. The
// term dictionary is searched first so existing abbreviations anchor the
// proposal; the model is still consulted when the dictionary has no match,
// since novel terms deserve an answer too.
func (s *Service) Abbreviate(ctx context.Context, fullName string) (string, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", fmt.Errorf("full name is required")
	}

	bundle := &models.ContextBundle{}
	for _, searcher := range s.searchers {
		if searcher.Collection() == models.CollectionDictionary {
			bundle.Dictionary = searcher.Search(ctx, fullName, fullName)
			break
		}
	}

	system := abbreviatorSystemPrompt
	if !bundle.IsEmpty() {
		system = buildGeneratorSystemPrompt(strings.Join(bundle.Texts(), "\n"))
	}

	messages := []interfaces.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: buildAbbreviationPrompt(fullName)},
	}

	answer, err := s.llm.Complete(ctx, messages, interfaces.CompletionOptions{Temperature: s.config.GeneratorTemperature})
	if err != nil {
		return "", fmt.Errorf("abbreviation generation failed: %w", err)
	}

	s.logger.Debug().
		Str("full_name", fullName).
		Int("dictionary_hits", len(bundle.Dictionary)).
		Msg("Abbreviation generated")
	return answer, nil
}

// retrievalIntent derives the text whose meaning drives retrieval. Text
// questions use the question itself. File reviews build a synthetic intent
// from the file name and its category so retrieval targets the right rules;
// the accompanying note stays out of the query unless configured in.
func (s *Service) retrievalIntent(req *models.AskRequest) string {
	if req.File == nil {
		return strings.TrimSpace(req.Text)
	}

	parts := make([]string, 0, 4)
	if category, ok := categoryByExt[req.File.Ext()]; ok {
		parts = append(parts, category)
	}
	parts = append(parts, "명명 규칙", req.File.Name)
	if s.config.FileQueryIncludesText {
		if text := strings.TrimSpace(req.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// searchAll fans the query out to every collection searcher concurrently.
// Searchers catch their own failures and return empty slices, so the group
// never yields an error; Wait only joins the goroutines.
func (s *Service) searchAll(ctx context.Context, requestText, query string) *models.ContextBundle {
	results := make([][]models.ContextSnippet, len(s.searchers))

	g, gctx := errgroup.WithContext(ctx)
	for i, searcher := range s.searchers {
		g.Go(func() error {
			results[i] = searcher.Search(gctx, requestText, query)
			return nil
		})
	}
	_ = g.Wait()

	bundle := &models.ContextBundle{}
	for i, searcher := range s.searchers {
		switch searcher.Collection() {
		case models.CollectionRules:
			bundle.Rules = append(bundle.Rules, results[i]...)
		case models.CollectionDictionary:
			bundle.Dictionary = append(bundle.Dictionary, results[i]...)
		case models.CollectionQA:
			bundle.QA = append(bundle.QA, results[i]...)
		default:
			s.logger.Warn().
				Str("collection", searcher.Collection()).
				Msg("Searcher for unknown collection, dropping its results")
		}
	}
	return bundle
}

func (s *Service) fail(mode string, start time.Time, err error) error {
	metrics.PipelineRequestsTotal.WithLabelValues(mode, "error").Inc()
	metrics.PipelineDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	s.logger.Error().Err(err).Str("mode", mode).Msg("Assistant request failed")
	return err
}

// Ensure Service implements AssistantService interface
var _ interfaces.AssistantService = (*Service)(nil)
