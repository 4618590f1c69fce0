package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/models"
)

func newTestGenerator(llm *scriptedLLM) *Generator {
	cfg := common.NewDefaultConfig()
	return NewGenerator(&cfg.Assistant, llm, nil)
}

func TestGenerateEmptyBundleSkipsCompletion(t *testing.T) {
	llm := &scriptedLLM{}
	generator := newTestGenerator(llm)

	answer := generator.Generate(context.Background(), "아무 질문", &models.ContextBundle{})

	if answer != NoContextMessage {
		t.Errorf("answer = %q, want the fixed no-context message", answer)
	}
	if llm.callCount() != 0 {
		t.Errorf("completion called %d times for an empty bundle, want 0", llm.callCount())
	}
}

func TestGenerateGroundsOnContext(t *testing.T) {
	bundle := &models.ContextBundle{
		Rules: []models.ContextSnippet{
			snippet(models.CollectionRules, 2.1, "[Context: Java Variable Rule] (score: 2.10) **규칙**: camelCase를 사용한다 **예시**: itemCount"),
		},
		Dictionary: []models.ContextSnippet{
			snippet(models.CollectionDictionary, 1.7, "[Context: 용어사전] (score: 1.70) **한국어**: 재고 **영문**: Inventory **약어**: INV **설명**: N/A"),
		},
		QA: []models.ContextSnippet{
			snippet(models.CollectionQA, 0.9, "[Context: QA-Java] (score: 0.90) **질문**: 변수명 규칙은? **답변**: camelCase"),
		},
	}

	llm := &scriptedLLM{replies: []scriptedReply{{text: "inventoryQty를 제안합니다."}}}
	generator := newTestGenerator(llm)

	answer := generator.Generate(context.Background(), "재고 변수명을 만들어 줘", bundle)

	if answer != "inventoryQty를 제안합니다." {
		t.Errorf("answer = %q", answer)
	}

	call := llm.call(0)
	if call.opts.Temperature != float32(0.3) {
		t.Errorf("generation temperature = %v, want 0.3", call.opts.Temperature)
	}

	system := call.messages[0].Content
	if !strings.Contains(system, "반드시 지켜야 할 사항") {
		t.Error("system prompt is missing the grounding rules")
	}
	for _, text := range bundle.Texts() {
		if !strings.Contains(system, text) {
			t.Errorf("system prompt is missing snippet %q", text)
		}
	}

	if call.messages[1].Content != "재고 변수명을 만들어 줘" {
		t.Errorf("user message = %q", call.messages[1].Content)
	}
}

func TestGenerateErrorBecomesAnswer(t *testing.T) {
	bundle := &models.ContextBundle{
		Rules: []models.ContextSnippet{snippet(models.CollectionRules, 1.0, "rule")},
	}

	llm := &scriptedLLM{replies: []scriptedReply{{err: fmt.Errorf("deployment quota exceeded")}}}
	generator := newTestGenerator(llm)

	answer := generator.Generate(context.Background(), "질문", bundle)

	if !strings.Contains(answer, "요청 처리 중 오류가 발생했습니다") {
		t.Errorf("answer does not carry the error preamble: %q", answer)
	}
	if !strings.Contains(answer, "deployment quota exceeded") {
		t.Errorf("answer does not carry the failure reason: %q", answer)
	}
}
