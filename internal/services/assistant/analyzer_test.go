package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/models"
)

func newTestAnalyzer(llm *scriptedLLM) *Analyzer {
	cfg := common.NewDefaultConfig()
	return NewAnalyzer(&cfg.Assistant, llm, nil)
}

func ruleBundle() *models.ContextBundle {
	return &models.ContextBundle{
		Rules: []models.ContextSnippet{
			snippet(models.CollectionRules, 2.0, "[Context: Java Variable Rule] (score: 2.00) **규칙**: 변수명은 camelCase를 사용한다 **예시**: userList"),
		},
	}
}

func TestAnalyzeNumbersLines(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{{text: "위반 1건"}}}
	analyzer := newTestAnalyzer(llm)

	code := []byte("int user_list = 5;\nString X;\n")
	analyzer.Analyze(context.Background(), "Sample.java", code, "", ruleBundle())

	user := llm.call(0).messages[1].Content
	if !strings.Contains(user, "0001: int user_list = 5;") {
		t.Errorf("listing is missing line 1: %q", user)
	}
	if !strings.Contains(user, "0002: String X;") {
		t.Errorf("listing is missing line 2: %q", user)
	}
	if strings.Contains(user, "0003:") {
		t.Errorf("trailing newline produced a phantom line: %q", user)
	}
	if !strings.Contains(user, "파일명: Sample.java") {
		t.Errorf("request is missing the file name: %q", user)
	}
}

func TestAnalyzeIncludesNoteAsDocumentation(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{{text: "위반 없음"}}}
	analyzer := newTestAnalyzer(llm)

	analyzer.Analyze(context.Background(), "orders.sql", []byte("CREATE TABLE t (x int);"), "인덱스 명명도 봐주세요", ruleBundle())

	user := llm.call(0).messages[1].Content
	if !strings.Contains(user, "요청 사항: 인덱스 명명도 봐주세요") {
		t.Errorf("note is missing from the request: %q", user)
	}
}

func TestAnalyzeEmptyBundleSkipsCompletion(t *testing.T) {
	llm := &scriptedLLM{}
	analyzer := newTestAnalyzer(llm)

	answer := analyzer.Analyze(context.Background(), "Sample.java", []byte("int a;"), "", &models.ContextBundle{})

	if answer != NoContextMessage {
		t.Errorf("answer = %q, want the fixed no-context message", answer)
	}
	if llm.callCount() != 0 {
		t.Errorf("completion called %d times for an empty bundle, want 0", llm.callCount())
	}
}

func TestAnalyzeErrorBecomesAnswer(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{{err: fmt.Errorf("context length exceeded")}}}
	analyzer := newTestAnalyzer(llm)

	answer := analyzer.Analyze(context.Background(), "Big.java", []byte("class Big {}"), "", ruleBundle())

	if !strings.Contains(answer, "요청 처리 중 오류가 발생했습니다") {
		t.Errorf("answer does not carry the error preamble: %q", answer)
	}
	if !strings.Contains(answer, "context length exceeded") {
		t.Errorf("answer does not carry the failure reason: %q", answer)
	}
}

func TestAnalyzeUsesAnalyzerTemperature(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{{text: "ok"}}}
	analyzer := newTestAnalyzer(llm)

	analyzer.Analyze(context.Background(), "a.java", []byte("int a;"), "", ruleBundle())

	if got := llm.call(0).opts.Temperature; got != float32(0.1) {
		t.Errorf("analysis temperature = %v, want 0.1", got)
	}
}

func TestNumberedListingNormalizesCRLF(t *testing.T) {
	got := numberedListing([]byte("a\r\nb"))
	want := "0001: a\n0002: b"
	if got != want {
		t.Errorf("numberedListing = %q, want %q", got, want)
	}
}
