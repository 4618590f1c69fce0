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

// Generator produces the final answer for text questions. Failures fold
// into the returned string, so the pipeline always completes with something
// to show the user.
type Generator struct {
	llm         interfaces.LLMService
	temperature float32
	logger      arbor.ILogger
}

// NewGenerator creates a generator with the configured temperature.
func NewGenerator(cfg *common.AssistantConfig, llm interfaces.LLMService, logger arbor.ILogger) *Generator {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Generator{
		llm:         llm,
		temperature: cfg.GeneratorTemperature,
		logger:      logger,
	}
}

// Generate answers the request against the retrieved context. An empty
// bundle short-circuits to the fixed no-context message without spending a
// completion call.
func (g *Generator) Generate(ctx context.Context, requestText string, bundle *models.ContextBundle) string {
	if bundle == nil || bundle.IsEmpty() {
		g.logger.Info().Msg("No context retrieved, returning the fixed no-context answer")
		return NoContextMessage
	}

	messages := []interfaces.Message{
		{Role: "system", Content: buildGeneratorSystemPrompt(strings.Join(bundle.Texts(), "\n"))},
		{Role: "user", Content: requestText},
	}

	answer, err := g.llm.Complete(ctx, messages, interfaces.CompletionOptions{Temperature: g.temperature})
	if err != nil {
		g.logger.Error().Err(err).Msg("Answer generation failed")
		return fmt.Sprintf("요청 처리 중 오류가 발생했습니다. (오류: %v)", err)
	}
	return answer
}
