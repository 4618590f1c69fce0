package assistant

import (
	"fmt"
	"strings"
)

// ExtractorSystemPrompt frames the keyword extraction call. Deliberately
// minimal: the instruction template carries the real contract.
const ExtractorSystemPrompt = "You are a helpful assistant for keyword extraction."

// NoContextMessage is the fixed answer when every collection came back
// empty. Returning constant text keeps the empty-retrieval path
// deterministic and spends no completion call.
const NoContextMessage = "관련 문서를 찾을 수 없습니다."

// keywordExtractionTemplate asks for comma-separated key terms plus the rule
// category the indexes are tagged with. The trailing arrow anchors the model
// onto completing the list instead of chatting.
const keywordExtractionTemplate = `다음 사용자 요청에서 명명 규칙 및 용어 검색에 필요한 핵심 키워드(Key Term)와 카테고리(Java, Database, WebUI)를
최대 %d개까지 쉼표로 구분하여 추출하세요.

요청: %s ->`

// generatorSystemTemplate grounds the answer on the retrieved context. The
// numbered rules mirror the order the context is fused in: rules first,
// then dictionary terms, then Q&A precedents.
const generatorSystemTemplate = `당신은 코딩 명명 규칙을 준수하는 전문가입니다. 사용자의 요청에 따라 새로운 변수명이나 함수명을 생성하고,
명명 규칙 또는 용어에 대한 질문에 답변해야 합니다.

**반드시 지켜야 할 사항:**
1. 아래 '검색된 규칙', '용어사전', 'Q&A'를 참고하여 답변을 생성합니다.
2. 새로운 명명을 생성할 경우, 해당되는 규칙(예: camelCase, PascalCase, 동사 시작 등)을 간결하게 설명합니다.
3. 용어사전에서 찾은 영문 대안이나 약어를 활용하여 생성된 용어의 명확성을 높입니다.
4. Q&A 컨텍스트에서 직접적인 답변을 찾았다면, 해당 내용을 중심으로 답변의 정확도를 높입니다.

**검색된 규칙 및 용어 (Context):**
---
%s
---`

// analyzerSystemTemplate drives the file-review mode. The fixed table shape
// keeps analysis output machine-scannable across requests.
const analyzerSystemTemplate = `당신은 코딩 명명 규칙을 준수하는 전문가입니다. 아래 소스 코드에 선언된 변수명, 함수명, 클래스명 등
모든 식별자를 검토하고, 검색된 규칙과 용어사전에 어긋나는 명명을 찾아야 합니다.

**반드시 지켜야 할 사항:**
1. 아래 '검색된 규칙', '용어사전', 'Q&A'를 근거로만 위반 여부를 판단합니다.
2. 응답 첫 부분에 요약을 작성합니다: 검토한 식별자 수, 위반 건수.
3. 요약 다음에 Markdown 표를 작성합니다. 열 순서는 | 위반 명칭 | 라인 | 규칙 분류 | 문제점 | 수정 제안 | 을 그대로 사용합니다.
4. 라인 번호는 코드 각 줄 앞에 붙은 번호를 그대로 인용합니다.
5. 위반이 없으면 표 대신 위반이 없다고 명시합니다.

**검색된 규칙 및 용어 (Context):**
---
%s
---`

// abbreviatorSystemPrompt is the fallback role statement when the term
// dictionary has no entry to ground the proposal on.
const abbreviatorSystemPrompt = `당신은 코딩 명명 규칙을 준수하는 전문가입니다. 용어에 대한 짧고 표준화된 약어를 제안합니다.`

func buildExtractionPrompt(request string, maxKeywords int) string {
	return fmt.Sprintf(keywordExtractionTemplate, maxKeywords, request)
}

func buildGeneratorSystemPrompt(contextStr string) string {
	return fmt.Sprintf(generatorSystemTemplate, contextStr)
}

func buildAnalyzerSystemPrompt(contextStr string) string {
	return fmt.Sprintf(analyzerSystemTemplate, contextStr)
}

// buildAnalysisRequest assembles the user message for file review: the file
// name, the submitter's note when present, and the numbered listing.
func buildAnalysisRequest(fileName, note, numberedCode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "다음 파일의 명명 규칙 위반을 분석해 주세요.\n\n파일명: %s\n", fileName)
	if note != "" {
		fmt.Fprintf(&b, "요청 사항: %s\n", note)
	}
	b.WriteString("\n```\n")
	b.WriteString(numberedCode)
	b.WriteString("\n```")
	return b.String()
}

func buildAbbreviationPrompt(fullName string) string {
	return fmt.Sprintf("'%s'에 대한 짧고 표준화된 약어를 생성하고 설명도 포함해 주세요.", fullName)
}
