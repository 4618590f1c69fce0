package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

// Analyzer reviews an uploaded source file against the retrieved rules. The
// model receives a line-numbered listing so its violation table can cite
// exact lines. Same failure contract as the Generator: errors become the
// answer text, never a raised error.
type Analyzer struct {
	llm         interfaces.LLMService
	temperature float32
	logger      arbor.ILogger
}

// NewAnalyzer creates an analyzer with the configured temperature.
func NewAnalyzer(cfg *common.AssistantConfig, llm interfaces.LLMService, logger arbor.ILogger) *Analyzer {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Analyzer{
		llm:         llm,
		temperature: cfg.AnalyzerTemperature,
		logger:      logger,
	}
}

// Analyze reviews the file content for naming violations. note is the
// submitter's free text and travels as documentation only.
func (a *Analyzer) Analyze(ctx context.Context, fileName string, code []byte, note string, bundle *models.ContextBundle) string {
	if bundle == nil || bundle.IsEmpty() {
		a.logger.Info().Str("file", fileName).Msg("No context retrieved, returning the fixed no-context answer")
		return NoContextMessage
	}

	messages := []interfaces.Message{
		{Role: "system", Content: buildAnalyzerSystemPrompt(strings.Join(bundle.Texts(), "\n"))},
		{Role: "user", Content: buildAnalysisRequest(fileName, strings.TrimSpace(note), numberedListing(code))},
	}

	answer, err := a.llm.Complete(ctx, messages, interfaces.CompletionOptions{Temperature: a.temperature})
	if err != nil {
		a.logger.Error().Err(err).Str("file", fileName).Msg("File analysis failed")
		return fmt.Sprintf("요청 처리 중 오류가 발생했습니다. (오류: %v)", err)
	}
	return answer
}

// numberedListing prefixes each line with a 1-based four-digit number so
// the model can cite exact positions in its violation table. A single
// trailing newline does not produce a phantom empty line.
func numberedListing(code []byte) string {
	text := strings.ReplaceAll(string(code), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%04d: %s", i+1, line)
	}
	return b.String()
}
