package assistant

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ternarybob/nomen/internal/models"
)

func TestAskInventoryQuestion(t *testing.T) {
	rules := &stubSearcher{collection: models.CollectionRules, snippets: []models.ContextSnippet{
		snippet(models.CollectionRules, 2.1, "[Context: Java Variable Rule] (score: 2.10) **규칙**: 변수명은 camelCase를 사용한다 **예시**: itemCount, userName"),
	}}
	dictionary := &stubSearcher{collection: models.CollectionDictionary, snippets: []models.ContextSnippet{
		snippet(models.CollectionDictionary, 1.7, "[Context: 용어사전] (score: 1.70) **한국어**: 재고 **영문**: Stock/Inventory **약어**: INV **설명**: 창고에 보관 중인 자산"),
	}}
	qa := &stubSearcher{collection: models.CollectionQA}

	llm := &scriptedLLM{replies: []scriptedReply{
		{text: "재고, 변수명, Java"},
		{text: "규칙에 따라 camelCase로 inventoryQty를 제안합니다."},
	}}

	svc, hist := newTestService(llm, rules, dictionary, qa)

	request := "Java에서 '재고'를 나타내는 변수명을 규칙에 맞게 만들어줘."
	record, err := svc.Ask(context.Background(), &models.AskRequest{Text: request})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if record.Mode != models.ModeQuestion {
		t.Errorf("Mode = %q, want %q", record.Mode, models.ModeQuestion)
	}
	if want := []string{"재고", "변수명", "Java"}; !reflect.DeepEqual(record.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", record.Keywords, want)
	}
	if record.SearchQuery != "재고 OR 변수명 OR Java" {
		t.Errorf("SearchQuery = %q", record.SearchQuery)
	}
	if len(record.RulesContext) != 1 || len(record.DictionaryContext) != 1 || len(record.QAContext) != 0 {
		t.Errorf("context sizes = %d/%d/%d, want 1/1/0",
			len(record.RulesContext), len(record.DictionaryContext), len(record.QAContext))
	}
	if !strings.Contains(record.DictionaryContext[0], "INV") {
		t.Errorf("dictionary context is missing the abbreviation: %q", record.DictionaryContext[0])
	}
	if !strings.Contains(record.Answer, "inventoryQty") {
		t.Errorf("answer = %q", record.Answer)
	}
	if record.ContextCount != 2 {
		t.Errorf("ContextCount = %d, want 2", record.ContextCount)
	}

	// all searchers received the extracted query plus the raw request text
	for _, searcher := range []*stubSearcher{rules, dictionary, qa} {
		if searcher.lastQuery != "재고 OR 변수명 OR Java" {
			t.Errorf("%s searcher got query %q", searcher.collection, searcher.lastQuery)
		}
		if searcher.lastText != request {
			t.Errorf("%s searcher got request text %q", searcher.collection, searcher.lastText)
		}
	}

	// generation was grounded on both snippets
	system := llm.call(1).messages[0].Content
	if !strings.Contains(system, "camelCase") || !strings.Contains(system, "INV") {
		t.Errorf("generation system prompt is missing retrieved context")
	}

	if hist.Count() != 1 {
		t.Fatalf("history has %d records, want 1", hist.Count())
	}
	if _, ok := hist.Get(record.ID); !ok {
		t.Errorf("record %s not retrievable from history", record.ID)
	}
}

func TestAskFusionOrderIsStable(t *testing.T) {
	// searchers registered out of collection order on purpose: fusion
	// orders by collection, not by registration
	qa := &stubSearcher{collection: models.CollectionQA, snippets: []models.ContextSnippet{
		snippet(models.CollectionQA, 0.5, "qa-one"),
		snippet(models.CollectionQA, 0.4, "qa-two"),
	}}
	dictionary := &stubSearcher{collection: models.CollectionDictionary, snippets: []models.ContextSnippet{
		snippet(models.CollectionDictionary, 1.1, "dict-one"),
		snippet(models.CollectionDictionary, 1.0, "dict-two"),
	}}
	rules := &stubSearcher{collection: models.CollectionRules, snippets: []models.ContextSnippet{
		snippet(models.CollectionRules, 2.2, "rule-one"),
		snippet(models.CollectionRules, 2.1, "rule-two"),
	}}

	llm := &scriptedLLM{replies: []scriptedReply{
		{text: "키워드"},
		{text: "답변"},
	}}

	svc, _ := newTestService(llm, qa, dictionary, rules)

	record, err := svc.Ask(context.Background(), &models.AskRequest{Text: "질문"})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	system := llm.call(1).messages[0].Content
	order := []string{"rule-one", "rule-two", "dict-one", "dict-two", "qa-one", "qa-two"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(system, marker)
		if idx < 0 {
			t.Fatalf("system prompt is missing %q", marker)
		}
		if idx < last {
			t.Errorf("%q appears before its predecessor; fusion order broken", marker)
		}
		last = idx
	}

	if want := []string{"rule-one", "rule-two"}; !reflect.DeepEqual(record.RulesContext, want) {
		t.Errorf("RulesContext = %v, want %v", record.RulesContext, want)
	}
	if record.ContextCount != 6 {
		t.Errorf("ContextCount = %d, want 6", record.ContextCount)
	}
}

func TestAskEmptyContextShortCircuits(t *testing.T) {
	rules := &stubSearcher{collection: models.CollectionRules}
	dictionary := &stubSearcher{collection: models.CollectionDictionary}
	qa := &stubSearcher{collection: models.CollectionQA}

	// only the extraction reply is scripted: a generation call would fail the test
	llm := &scriptedLLM{replies: []scriptedReply{{text: "용어"}}}

	svc, hist := newTestService(llm, rules, dictionary, qa)

	record, err := svc.Ask(context.Background(), &models.AskRequest{Text: "아주 생소한 질문"})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if record.Answer != NoContextMessage {
		t.Errorf("Answer = %q, want the fixed no-context message", record.Answer)
	}
	if llm.callCount() != 1 {
		t.Errorf("completion called %d times, want 1 (extraction only)", llm.callCount())
	}
	if record.ContextCount != 0 {
		t.Errorf("ContextCount = %d, want 0", record.ContextCount)
	}
	if hist.Count() != 1 {
		t.Errorf("history has %d records, want 1 (no-context is still a completed request)", hist.Count())
	}
}

func TestAskFileAnalysis(t *testing.T) {
	rules := &stubSearcher{collection: models.CollectionRules, snippets: []models.ContextSnippet{
		snippet(models.CollectionRules, 2.0, "[Context: Java Variable Rule] (score: 2.00) **규칙**: 변수명은 camelCase를 사용한다 **예시**: userList"),
	}}
	dictionary := &stubSearcher{collection: models.CollectionDictionary}
	qa := &stubSearcher{collection: models.CollectionQA}

	analysis := "검토한 식별자: 1개, 위반: 1건\n\n| 위반 명칭 | 라인 | 규칙 분류 | 문제점 | 수정 제안 |\n| user_list | 0001 | Java Variable | snake_case 사용 | userList |"
	llm := &scriptedLLM{replies: []scriptedReply{
		{text: "Java, 명명 규칙"},
		{text: analysis},
	}}

	svc, hist := newTestService(llm, rules, dictionary, qa)

	req := &models.AskRequest{
		Text: "변수 선언부를 봐주세요",
		File: &models.UploadedFile{Name: "Sample.java", Content: []byte("int user_list = 5;\n")},
	}
	record, err := svc.Ask(context.Background(), req)
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if record.Mode != models.ModeFileAnalysis {
		t.Errorf("Mode = %q, want %q", record.Mode, models.ModeFileAnalysis)
	}
	if record.FileName != "Sample.java" {
		t.Errorf("FileName = %q", record.FileName)
	}
	if !strings.Contains(record.Answer, "user_list") || !strings.Contains(record.Answer, "userList") {
		t.Errorf("Answer = %q", record.Answer)
	}

	// retrieval intent comes from the file name and category, not the note
	if !strings.Contains(rules.lastText, "Java") || !strings.Contains(rules.lastText, "Sample.java") {
		t.Errorf("retrieval intent = %q, want the file name and its category", rules.lastText)
	}
	if strings.Contains(rules.lastText, "변수 선언부") {
		t.Errorf("retrieval intent leaked the accompanying note: %q", rules.lastText)
	}

	// the analysis prompt carries the numbered listing and the note
	user := llm.call(1).messages[1].Content
	if !strings.Contains(user, "0001: int user_list = 5;") {
		t.Errorf("analysis request is missing the numbered listing: %q", user)
	}
	if !strings.Contains(user, "요청 사항: 변수 선언부를 봐주세요") {
		t.Errorf("analysis request is missing the note: %q", user)
	}

	if got := llm.call(1).opts.Temperature; got != float32(0.1) {
		t.Errorf("analysis temperature = %v, want 0.1", got)
	}
	if hist.Count() != 1 {
		t.Errorf("history has %d records, want 1", hist.Count())
	}
}

func TestAskFileQueryIncludesTextWhenConfigured(t *testing.T) {
	rules := &stubSearcher{collection: models.CollectionRules, snippets: []models.ContextSnippet{
		snippet(models.CollectionRules, 1.0, "rule"),
	}}

	llm := &scriptedLLM{replies: []scriptedReply{
		{text: "Java"},
		{text: "분석 결과"},
	}}

	svc, _ := newTestService(llm, rules)
	svc.config.FileQueryIncludesText = true

	req := &models.AskRequest{
		Text: "특히 멤버 변수",
		File: &models.UploadedFile{Name: "Sample.java", Content: []byte("int a;")},
	}
	if _, err := svc.Ask(context.Background(), req); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if !strings.Contains(rules.lastText, "특히 멤버 변수") {
		t.Errorf("retrieval intent = %q, want it to include the note", rules.lastText)
	}
}

func TestAskSearchFailureDegrades(t *testing.T) {
	// the rules searcher degrades to nothing, as a failed backend call would
	rules := &stubSearcher{collection: models.CollectionRules}
	dictionary := &stubSearcher{collection: models.CollectionDictionary, snippets: []models.ContextSnippet{
		snippet(models.CollectionDictionary, 1.5, "[Context: 용어사전] (score: 1.50) **한국어**: 주문 **영문**: Order **약어**: ORD **설명**: N/A"),
	}}
	qa := &stubSearcher{collection: models.CollectionQA, snippets: []models.ContextSnippet{
		snippet(models.CollectionQA, 0.8, "[Context: QA-Database] (score: 0.80) **질문**: 테이블명 규칙은? **답변**: snake_case"),
	}}

	llm := &scriptedLLM{replies: []scriptedReply{
		{text: "주문, Database"},
		{text: "ORD_MASTER를 제안합니다."},
	}}

	svc, hist := newTestService(llm, rules, dictionary, qa)

	record, err := svc.Ask(context.Background(), &models.AskRequest{Text: "주문 테이블명을 추천해줘"})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if len(record.RulesContext) != 0 {
		t.Errorf("RulesContext = %v, want empty", record.RulesContext)
	}
	if len(record.DictionaryContext) != 1 || len(record.QAContext) != 1 {
		t.Errorf("surviving contexts = %d/%d, want 1/1",
			len(record.DictionaryContext), len(record.QAContext))
	}
	if record.Answer != "ORD_MASTER를 제안합니다." {
		t.Errorf("Answer = %q", record.Answer)
	}
	if hist.Count() != 1 {
		t.Errorf("history has %d records, want 1", hist.Count())
	}
}

func TestAskRejectsInvalidRequests(t *testing.T) {
	llm := &scriptedLLM{}
	svc, hist := newTestService(llm, &stubSearcher{collection: models.CollectionRules})

	cases := []struct {
		name string
		req  *models.AskRequest
	}{
		{"nil request", nil},
		{"empty request", &models.AskRequest{}},
		{"file without name", &models.AskRequest{File: &models.UploadedFile{Content: []byte("x")}}},
		{"file without content", &models.AskRequest{File: &models.UploadedFile{Name: "a.java"}}},
	}
	for _, tc := range cases {
		if _, err := svc.Ask(context.Background(), tc.req); err == nil {
			t.Errorf("%s: Ask() succeeded, want error", tc.name)
		}
	}

	if hist.Count() != 0 {
		t.Errorf("history has %d records after failed requests, want 0", hist.Count())
	}
	if llm.callCount() != 0 {
		t.Errorf("completion called %d times for invalid requests, want 0", llm.callCount())
	}
}

func TestAskCancelledContext(t *testing.T) {
	llm := &scriptedLLM{}
	svc, hist := newTestService(llm, &stubSearcher{collection: models.CollectionRules})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Ask(ctx, &models.AskRequest{Text: "질문"}); err == nil {
		t.Error("Ask() succeeded with a cancelled context, want error")
	}
	if hist.Count() != 0 {
		t.Errorf("history has %d records after a cancelled request, want 0", hist.Count())
	}
}

func TestAbbreviateGroundsOnDictionary(t *testing.T) {
	dictionary := &stubSearcher{collection: models.CollectionDictionary, snippets: []models.ContextSnippet{
		snippet(models.CollectionDictionary, 1.9, "[Context: 용어사전] (score: 1.90) **한국어**: 재고 **영문**: Inventory **약어**: INV **설명**: N/A"),
	}}

	llm := &scriptedLLM{replies: []scriptedReply{{text: "추천 약어: INV"}}}
	svc, _ := newTestService(llm, dictionary)

	answer, err := svc.Abbreviate(context.Background(), "재고")
	if err != nil {
		t.Fatalf("Abbreviate() error: %v", err)
	}
	if answer != "추천 약어: INV" {
		t.Errorf("answer = %q", answer)
	}

	call := llm.call(0)
	if !strings.Contains(call.messages[0].Content, "INV") {
		t.Error("system prompt is missing the dictionary grounding")
	}
	want := "'재고'에 대한 짧고 표준화된 약어를 생성하고 설명도 포함해 주세요."
	if call.messages[1].Content != want {
		t.Errorf("user message = %q, want %q", call.messages[1].Content, want)
	}

	if dictionary.lastText != "재고" || dictionary.lastQuery != "재고" {
		t.Errorf("dictionary searched with %q/%q, want the full name for both legs",
			dictionary.lastText, dictionary.lastQuery)
	}
}

func TestAbbreviateWithoutDictionaryMatch(t *testing.T) {
	dictionary := &stubSearcher{collection: models.CollectionDictionary}

	llm := &scriptedLLM{replies: []scriptedReply{{text: "추천 약어: TMS"}}}
	svc, _ := newTestService(llm, dictionary)

	answer, err := svc.Abbreviate(context.Background(), "운송 관리 시스템")
	if err != nil {
		t.Fatalf("Abbreviate() error: %v", err)
	}
	if answer != "추천 약어: TMS" {
		t.Errorf("answer = %q", answer)
	}

	// no grounding available: the minimal role prompt is used instead
	if got := llm.call(0).messages[0].Content; got != abbreviatorSystemPrompt {
		t.Errorf("system prompt = %q, want the bare abbreviator role", got)
	}
}

func TestAbbreviateRequiresName(t *testing.T) {
	llm := &scriptedLLM{}
	svc, _ := newTestService(llm)

	for _, name := range []string{"", "   "} {
		if _, err := svc.Abbreviate(context.Background(), name); err == nil {
			t.Errorf("Abbreviate(%q) succeeded, want error", name)
		}
	}
	if llm.callCount() != 0 {
		t.Errorf("completion called %d times, want 0", llm.callCount())
	}
}

func TestAbbreviatePropagatesCompletionError(t *testing.T) {
	llm := &scriptedLLM{replies: []scriptedReply{{err: fmt.Errorf("unavailable")}}}
	svc, _ := newTestService(llm, &stubSearcher{collection: models.CollectionDictionary})

	if _, err := svc.Abbreviate(context.Background(), "재고"); err == nil {
		t.Error("Abbreviate() succeeded, want error")
	}
}
