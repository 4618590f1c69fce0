// -----------------------------------------------------------------------
// Shared mock upstream for API and integration tests
// -----------------------------------------------------------------------

package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockUpstream stands in for both external services the application talks
// to: the OpenAI-compatible completion/embedding API and the search
// service. One server answers both; requests are routed by path shape, so
// pointing openai.endpoint and search.endpoint at the same URL works.
type MockUpstream struct {
	server *httptest.Server

	mu              sync.Mutex
	keywords        string
	answer          string
	dimension       int
	searchHits      map[string][]map[string]interface{}
	searchDown      map[string]bool
	completionsDown bool
	embeddingsDown  bool
	completionCalls int
	embeddingCalls  int
	completionSeen  []CompletionRequest
	searchCalls     map[string]int
	searchSeen      map[string][]SearchRequest
	uploads         map[string][]map[string]interface{}
}

// SearchRequest captures the interesting parts of one search call.
type SearchRequest struct {
	Query     string
	Top       int
	HasVector bool
}

// CompletionRequest captures the prompts of one completion call.
type CompletionRequest struct {
	System string
	User   string
}

// NewMockUpstream starts a mock upstream with canned responses for the
// default index names. Callers must Close it.
func NewMockUpstream() *MockUpstream {
	m := &MockUpstream{
		keywords:  "재고, 수량, 변수",
		answer:    "재고 수량은 stockQty 를 권장합니다. 규칙: camelCase, Qty 접미사.",
		dimension: 8,
		searchHits: map[string][]map[string]interface{}{
			"coding-convention-index": {
				{
					"@search.score": 1.8,
					"category":      "Java",
					"type":          "변수",
					"rule_kr":       "변수명은 camelCase로 작성한다",
					"rule_en":       "Variable names use camelCase",
					"example":       []string{"stockQty", "orderCnt"},
				},
			},
			"dictionary-index": {
				{
					"@search.score": 1.5,
					"korean":        "재고",
					"english":       "stock",
					"abbreviation":  "stk",
					"description":   "창고에 보관 중인 상품 수량",
				},
			},
			"qna-convention-index": {
				{
					"@search.score": 1.2,
					"category":      "Java",
					"question":      "수량 변수는 어떻게 짓나요?",
					"answer":        "Qty 접미사를 사용합니다",
				},
			},
		},
		searchDown:  map[string]bool{},
		searchCalls: map[string]int{},
		searchSeen:  map[string][]SearchRequest{},
		uploads:     map[string][]map[string]interface{}{},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.route))
	return m
}

// URL returns the base URL for both the OpenAI and search endpoints.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts the mock server down.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// SetKeywords sets the completion returned for keyword extraction calls.
func (m *MockUpstream) SetKeywords(keywords string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = keywords
}

// SetAnswer sets the completion returned for generation, analysis, and
// abbreviation calls.
func (m *MockUpstream) SetAnswer(answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answer = answer
}

// SetSearchHits replaces the canned hits for one index.
func (m *MockUpstream) SetSearchHits(index string, hits []map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchHits[index] = hits
}

// SetSearchDown makes one index return HTTP 500.
func (m *MockUpstream) SetSearchDown(index string, down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchDown[index] = down
}

// SetCompletionsDown makes all completion calls return HTTP 500.
func (m *MockUpstream) SetCompletionsDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionsDown = down
}

// SetEmbeddingsDown makes all embedding calls return HTTP 500.
func (m *MockUpstream) SetEmbeddingsDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddingsDown = down
}

// CompletionCalls returns how many completion requests were served.
func (m *MockUpstream) CompletionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completionCalls
}

// CompletionRequests returns the prompts of every completion call, in order.
func (m *MockUpstream) CompletionRequests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completionSeen
}

// EmbeddingCalls returns how many embedding requests were served.
func (m *MockUpstream) EmbeddingCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embeddingCalls
}

// SearchCalls returns how many search requests one index served.
func (m *MockUpstream) SearchCalls(index string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls[index]
}

// SearchRequests returns the search calls one index received, in order.
func (m *MockUpstream) SearchRequests(index string) []SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchSeen[index]
}

// UploadedDocs returns the documents uploaded to one index, in order.
func (m *MockUpstream) UploadedDocs(index string) []map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads[index]
}

func (m *MockUpstream) route(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.HasSuffix(path, "/chat/completions"):
		m.handleCompletion(w, r)
	case strings.HasSuffix(path, "/embeddings"):
		m.handleEmbedding(w, r)
	case strings.Contains(path, "/docs/search"):
		m.handleSearch(w, r)
	case strings.Contains(path, "/docs/index"):
		m.handleUpload(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCompletion answers chat completion calls. Extraction calls are
// told apart by their system prompt so one mock serves the whole pipeline.
func (m *MockUpstream) handleCompletion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var seen CompletionRequest
	for _, msg := range body.Messages {
		switch msg.Role {
		case "system":
			seen.System = msg.Content
		case "user":
			seen.User = msg.Content
		}
	}

	m.mu.Lock()
	m.completionCalls++
	m.completionSeen = append(m.completionSeen, seen)
	down := m.completionsDown
	content := m.answer
	if strings.Contains(seen.System, "keyword extraction") {
		content = m.keywords
	}
	m.mu.Unlock()

	if down {
		http.Error(w, `{"error": {"message": "mock completions down"}}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   body.Model,
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
}

func (m *MockUpstream) handleEmbedding(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.embeddingCalls++
	down := m.embeddingsDown
	dim := m.dimension
	m.mu.Unlock()

	if down {
		http.Error(w, `{"error": {"message": "mock embeddings down"}}`, http.StatusInternalServerError)
		return
	}

	vector := make([]float32, dim)
	for i := range vector {
		vector[i] = 0.1
	}

	writeJSON(w, map[string]interface{}{
		"object": "list",
		"model":  "text-embedding-3-small",
		"data": []map[string]interface{}{
			{"object": "embedding", "index": 0, "embedding": vector},
		},
	})
}

func (m *MockUpstream) handleSearch(w http.ResponseWriter, r *http.Request) {
	index := indexFromPath(r.URL.Path)

	var body struct {
		Search        string `json:"search"`
		Top           int    `json:"top"`
		VectorQueries []struct {
			Vector []float32 `json:"vector"`
		} `json:"vectorQueries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.searchCalls[index]++
	m.searchSeen[index] = append(m.searchSeen[index], SearchRequest{
		Query:     body.Search,
		Top:       body.Top,
		HasVector: len(body.VectorQueries) > 0,
	})
	down := m.searchDown[index]
	hits := m.searchHits[index]
	m.mu.Unlock()

	if down {
		http.Error(w, `{"error": {"message": "mock index down"}}`, http.StatusInternalServerError)
		return
	}

	if hits == nil {
		hits = []map[string]interface{}{}
	}
	writeJSON(w, map[string]interface{}{"value": hits})
}

// handleUpload records the batch and reports every document accepted.
func (m *MockUpstream) handleUpload(w http.ResponseWriter, r *http.Request) {
	index := indexFromPath(r.URL.Path)

	var body struct {
		Value []map[string]interface{} `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	statuses := make([]map[string]interface{}, 0, len(body.Value))
	m.mu.Lock()
	for _, doc := range body.Value {
		m.uploads[index] = append(m.uploads[index], doc)
		key, _ := doc["id"].(string)
		statuses = append(statuses, map[string]interface{}{
			"key":        key,
			"status":     true,
			"statusCode": 200,
		})
	}
	m.mu.Unlock()

	writeJSON(w, map[string]interface{}{"value": statuses})
}

// indexFromPath extracts the index name from /indexes/{index}/docs/...
func indexFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "indexes" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
