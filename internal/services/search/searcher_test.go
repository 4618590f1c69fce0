package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/aisearch"
	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/models"
)

type stubEmbedder struct {
	vector []float32
	err    error
	dim    int
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

func (s *stubEmbedder) ModelName() string                    { return "stub" }
func (s *stubEmbedder) Dimension() int                       { return s.dim }
func (s *stubEmbedder) IsAvailable(ctx context.Context) bool { return true }

func rulesSearcher(t *testing.T, serverURL string, embedder *stubEmbedder) *Searcher {
	t.Helper()
	cfg := common.NewDefaultConfig()
	client := aisearch.NewClient(serverURL, "test-key")
	return NewSearcher(RulesSchema(cfg), client, embedder, arbor.NewLogger())
}

func TestSearchHybridRequest(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"value":[{"@search.score":2.5,"category":"Java","type":"Variable","rule_kr":"camelCase","example":["userName"]}]}`))
	}))
	defer server.Close()

	embedder := &stubEmbedder{vector: []float32{0.1, 0.2, 0.3}, dim: 3}
	searcher := rulesSearcher(t, server.URL, embedder)

	snippets := searcher.Search(context.Background(), "재고 변수명", "inventory OR 재고")

	if gotBody["search"] != "inventory OR 재고" {
		t.Errorf("lexical query = %v", gotBody["search"])
	}
	if _, present := gotBody["vectorQueries"]; !present {
		t.Error("expected vectorQueries in hybrid request")
	}

	if len(snippets) != 1 {
		t.Fatalf("got %d snippets, want 1", len(snippets))
	}
	if snippets[0].Collection != models.CollectionRules {
		t.Errorf("collection = %q", snippets[0].Collection)
	}
	if snippets[0].Score != 2.5 {
		t.Errorf("score = %f", snippets[0].Score)
	}
}

func TestSearchEmbeddingFailureFallsBackToLexical(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"value":[{"@search.score":1.0,"category":"Java","type":"Variable","rule_kr":"camelCase"}]}`))
	}))
	defer server.Close()

	embedder := &stubEmbedder{err: errors.New("embedding provider down")}
	searcher := rulesSearcher(t, server.URL, embedder)

	snippets := searcher.Search(context.Background(), "재고 변수명", "inventory")

	if _, present := gotBody["vectorQueries"]; present {
		t.Error("vectorQueries must be absent when embedding fails")
	}
	if len(snippets) != 1 {
		t.Errorf("lexical-only search must still return results, got %d", len(snippets))
	}
}

func TestSearchDimensionMismatchFallsBackToLexical(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"value":[]}`))
	}))
	defer server.Close()

	// Embedder reports 1536 but returns a 3-dim vector
	embedder := &stubEmbedder{vector: []float32{1, 2, 3}, dim: 1536}
	searcher := rulesSearcher(t, server.URL, embedder)

	searcher.Search(context.Background(), "text", "query")

	if _, present := gotBody["vectorQueries"]; present {
		t.Error("vectorQueries must be absent on dimension mismatch")
	}
}

func TestSearchServiceErrorContributesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"index unavailable"}}`))
	}))
	defer server.Close()

	embedder := &stubEmbedder{vector: []float32{1}, dim: 1}
	searcher := rulesSearcher(t, server.URL, embedder)

	snippets := searcher.Search(context.Background(), "text", "query")
	if len(snippets) != 0 {
		t.Errorf("failed search must contribute zero snippets, got %d", len(snippets))
	}
}

func TestSearchMissingFieldsRenderPlaceholders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"@search.score":0.7,"category":"Database"}]}`))
	}))
	defer server.Close()

	embedder := &stubEmbedder{vector: []float32{1}, dim: 1}
	searcher := rulesSearcher(t, server.URL, embedder)

	snippets := searcher.Search(context.Background(), "text", "query")
	if len(snippets) != 1 {
		t.Fatalf("got %d snippets, want 1", len(snippets))
	}

	want := "[Context: Database N/A Rule] (score: 0.70) **규칙**: N/A **예시**: N/A"
	if snippets[0].Text != want {
		t.Errorf("snippet = %q, want %q", snippets[0].Text, want)
	}
}

func TestCollectionName(t *testing.T) {
	cfg := common.NewDefaultConfig()
	client := aisearch.NewClient("http://unused", "key")
	embedder := &stubEmbedder{}

	searchers := NewCollectionSearchers(cfg, client, embedder, arbor.NewLogger())
	if len(searchers) != 3 {
		t.Fatalf("got %d searchers, want 3", len(searchers))
	}

	want := []string{models.CollectionRules, models.CollectionDictionary, models.CollectionQA}
	for i, s := range searchers {
		if s.Collection() != want[i] {
			t.Errorf("searcher %d = %q, want %q", i, s.Collection(), want[i])
		}
	}
}
