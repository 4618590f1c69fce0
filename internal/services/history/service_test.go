package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ternarybob/nomen/internal/models"
)

func testRecord(id, question string) *models.ResultRecord {
	return &models.ResultRecord{
		ID:           id,
		Question:     question,
		Answer:       "answer for " + question,
		Mode:         models.ModeQuestion,
		Keywords:     []string{"재고", "Java"},
		SearchQuery:  "재고 OR Java",
		RulesContext: []string{"rule snippet"},
		ContextCount: 1,
		CreatedAt:    time.Now(),
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	svc := NewService(nil)

	for i := 0; i < 5; i++ {
		svc.Append(testRecord(fmt.Sprintf("id-%d", i), fmt.Sprintf("question %d", i)))
	}

	if svc.Count() != 5 {
		t.Fatalf("Count() = %d, want 5", svc.Count())
	}

	records := svc.List()
	if len(records) != 5 {
		t.Fatalf("List() returned %d records, want 5", len(records))
	}
	for i, record := range records {
		want := fmt.Sprintf("id-%d", i)
		if record.ID != want {
			t.Errorf("record %d has ID %q, want %q", i, record.ID, want)
		}
	}
}

func TestGet(t *testing.T) {
	svc := NewService(nil)
	svc.Append(testRecord("known", "a question"))

	record, ok := svc.Get("known")
	if !ok {
		t.Fatal("Get(known) reported missing")
	}
	if record.Question != "a question" {
		t.Errorf("Question = %q, want %q", record.Question, "a question")
	}

	if _, ok := svc.Get("missing"); ok {
		t.Error("Get(missing) reported found")
	}
}

func TestReadersCannotMutateStore(t *testing.T) {
	svc := NewService(nil)
	svc.Append(testRecord("r1", "original"))

	fromList := svc.List()[0]
	fromList.Answer = "tampered"
	fromList.Keywords[0] = "tampered"

	fromGet, _ := svc.Get("r1")
	fromGet.RulesContext[0] = "tampered"

	stored, _ := svc.Get("r1")
	if stored.Answer != "answer for original" {
		t.Errorf("stored answer mutated through List copy: %q", stored.Answer)
	}
	if stored.Keywords[0] != "재고" {
		t.Errorf("stored keywords mutated through List copy: %q", stored.Keywords[0])
	}
	if stored.RulesContext[0] != "rule snippet" {
		t.Errorf("stored context mutated through Get copy: %q", stored.RulesContext[0])
	}
}

func TestAppendIgnoresUnidentifiedRecords(t *testing.T) {
	svc := NewService(nil)
	svc.Append(nil)
	svc.Append(&models.ResultRecord{Question: "no id"})

	if svc.Count() != 0 {
		t.Errorf("Count() = %d after invalid appends, want 0", svc.Count())
	}
}

func TestConcurrentAppendLosesNothing(t *testing.T) {
	svc := NewService(nil)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				svc.Append(testRecord(id, id))
			}
		}(w)
	}
	wg.Wait()

	if svc.Count() != writers*perWriter {
		t.Fatalf("Count() = %d, want %d", svc.Count(), writers*perWriter)
	}
	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			id := fmt.Sprintf("w%d-%d", w, i)
			if _, ok := svc.Get(id); !ok {
				t.Fatalf("record %s lost during concurrent append", id)
			}
		}
	}
}
