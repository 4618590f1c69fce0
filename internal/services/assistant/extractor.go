package assistant

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
)

// Extractor turns free-form request text into a short keyword list and an
// OR-joined lexical query. Its output feeds every downstream stage, so it
// never fails: on any error the raw request doubles as both keyword list
// and query.
type Extractor struct {
	llm         interfaces.LLMService
	temperature float32
	maxKeywords int
	maxRunes    int
	logger      arbor.ILogger
}

// NewExtractor creates an extractor with the configured temperature and
// keyword cap.
func NewExtractor(cfg *common.AssistantConfig, llm interfaces.LLMService, logger arbor.ILogger) *Extractor {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Extractor{
		llm:         llm,
		temperature: cfg.ExtractorTemperature,
		maxKeywords: cfg.MaxKeywords,
		maxRunes:    cfg.MaxExtractRunes,
		logger:      logger,
	}
}

// Extract asks the model for comma-separated key terms, then splits, trims,
// drops empties, and caps the list. The lexical query is the keywords joined
// with " OR ".
func (e *Extractor) Extract(ctx context.Context, request string) ([]string, string) {
	input := truncateRunes(strings.TrimSpace(request), e.maxRunes)

	messages := []interfaces.Message{
		{Role: "system", Content: ExtractorSystemPrompt},
		{Role: "user", Content: buildExtractionPrompt(input, e.maxKeywords)},
	}

	raw, err := e.llm.Complete(ctx, messages, interfaces.CompletionOptions{Temperature: e.temperature})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Keyword extraction failed, falling back to the raw request")
		return []string{input}, input
	}

	keywords := splitKeywords(raw, e.maxKeywords)
	if len(keywords) == 0 {
		e.logger.Warn().Str("response", raw).Msg("Keyword extraction returned no usable terms, falling back to the raw request")
		return []string{input}, input
	}

	query := strings.Join(keywords, " OR ")
	e.logger.Debug().
		Str("keywords", strings.Join(keywords, ", ")).
		Str("query", query).
		Msg("Keywords extracted")
	return keywords, query
}

// splitKeywords parses the model's comma-separated response. Empty tokens
// are dropped so stray commas never produce empty query terms.
func splitKeywords(raw string, max int) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// truncateRunes caps very long input before it reaches the prompt. The cut
// lands on a rune boundary so multi-byte Hangul is never split mid-character.
func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
