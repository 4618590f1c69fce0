package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
	"github.com/ternarybob/nomen/internal/services/history"
)

type completionCall struct {
	messages []interfaces.Message
	opts     interfaces.CompletionOptions
}

type scriptedReply struct {
	text string
	err  error
}

// scriptedLLM replays canned replies in call order and records every call.
// A call past the end of the script returns an error, so tests that expect
// no completion can script nothing.
type scriptedLLM struct {
	mu      sync.Mutex
	calls   []completionCall
	replies []scriptedReply
}

func (l *scriptedLLM) Complete(ctx context.Context, messages []interfaces.Message, opts interfaces.CompletionOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, completionCall{messages: messages, opts: opts})
	if len(l.replies) == 0 {
		return "", fmt.Errorf("unscripted completion call %d", len(l.calls))
	}
	reply := l.replies[0]
	l.replies = l.replies[1:]
	return reply.text, reply.err
}

func (l *scriptedLLM) HealthCheck(ctx context.Context) error { return nil }
func (l *scriptedLLM) ModelName() string                     { return "scripted-model" }
func (l *scriptedLLM) Close() error                          { return nil }

func (l *scriptedLLM) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *scriptedLLM) call(i int) completionCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[i]
}

// stubSearcher returns fixed snippets and records the last query it saw.
// Each instance is written by at most one search goroutine and read after
// the fan-out joins.
type stubSearcher struct {
	collection string
	snippets   []models.ContextSnippet
	lastText   string
	lastQuery  string
}

func (s *stubSearcher) Search(ctx context.Context, requestText, lexicalQuery string) []models.ContextSnippet {
	s.lastText = requestText
	s.lastQuery = lexicalQuery
	return s.snippets
}

func (s *stubSearcher) Collection() string { return s.collection }

func snippet(collection string, score float64, text string) models.ContextSnippet {
	return models.ContextSnippet{Collection: collection, Score: score, Text: text}
}

func newTestService(llm *scriptedLLM, searchers ...interfaces.CollectionSearcher) (*Service, *history.Service) {
	cfg := common.NewDefaultConfig()
	hist := history.NewService(nil)
	return NewService(cfg, llm, searchers, hist, nil), hist
}
