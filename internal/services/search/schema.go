package search

import (
	"fmt"
	"strings"

	"github.com/ternarybob/nomen/internal/aisearch"
	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/models"
)

// Schema describes one retrieval collection: its index name, field
// projection, retrieval depth, and snippet formatter.
type Schema struct {
	Collection string
	Index      string
	Select     []string
	Top        int
	KNN        int
	Format     func(doc aisearch.Document) string
}

// RulesSchema builds the naming-rules collection descriptor.
func RulesSchema(cfg *common.Config) Schema {
	return Schema{
		Collection: models.CollectionRules,
		Index:      cfg.Search.RulesIndex,
		Select:     []string{"category", "type", "rule_kr", "rule_en", "example"},
		Top:        cfg.Search.Rules.Top,
		KNN:        cfg.Search.Rules.KNN,
		Format:     formatRule,
	}
}

// DictionarySchema builds the term-dictionary collection descriptor.
func DictionarySchema(cfg *common.Config) Schema {
	return Schema{
		Collection: models.CollectionDictionary,
		Index:      cfg.Search.DictionaryIndex,
		Select:     []string{"korean", "english", "abbreviation", "description"},
		Top:        cfg.Search.Dictionary.Top,
		KNN:        cfg.Search.Dictionary.KNN,
		Format:     formatDictionaryEntry,
	}
}

// QASchema builds the Q&A collection descriptor.
func QASchema(cfg *common.Config) Schema {
	return Schema{
		Collection: models.CollectionQA,
		Index:      cfg.Search.QAIndex,
		Select:     []string{"category", "question", "answer"},
		Top:        cfg.Search.QA.Top,
		KNN:        cfg.Search.QA.KNN,
		Format:     formatQAPair,
	}
}

// fieldOr returns a document field or "N/A" when missing. Missing fields
// always render an explicit placeholder, never blank.
func fieldOr(doc aisearch.Document, field string) string {
	if v := doc.GetString(field); v != "" {
		return v
	}
	return "N/A"
}

func formatRule(doc aisearch.Document) string {
	examples := "N/A"
	if list := doc.GetStrings("example"); len(list) > 0 {
		examples = strings.Join(list, ", ")
	}
	return fmt.Sprintf("[Context: %s %s Rule] (score: %.2f) **규칙**: %s **예시**: %s",
		fieldOr(doc, "category"), fieldOr(doc, "type"), doc.Score(),
		fieldOr(doc, "rule_kr"), examples)
}

func formatDictionaryEntry(doc aisearch.Document) string {
	return fmt.Sprintf("[Context: 용어사전] (score: %.2f) **한국어**: %s **영문**: %s **약어**: %s **설명**: %s",
		doc.Score(), fieldOr(doc, "korean"), fieldOr(doc, "english"),
		fieldOr(doc, "abbreviation"), fieldOr(doc, "description"))
}

func formatQAPair(doc aisearch.Document) string {
	return fmt.Sprintf("[Context: QA-%s] (score: %.2f) **질문**: %s **답변**: %s",
		fieldOr(doc, "category"), doc.Score(),
		fieldOr(doc, "question"), fieldOr(doc, "answer"))
}
