package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexID is a document key that accepts both JSON strings and numbers.
// Seed files carry numeric IDs while the search index requires string
// keys, so coercion happens at decode time.
type FlexID string

// UnmarshalJSON implements custom JSON unmarshaling for FlexID.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", string(data))
	}
	*f = FlexID(n.String())
	return nil
}

// RuleDocument is one naming rule as stored in the rules collection.
type RuleDocument struct {
	ID       FlexID   `json:"id"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	RuleEN   string   `json:"rule_en"`
	RuleKR   string   `json:"rule_kr"`
	Example  []string `json:"example"`
}

// EmbedText builds the text embedded at ingestion time. All three rule
// facets go in so lexical paraphrases in either language still land near
// the rule vector.
func (d *RuleDocument) EmbedText() string {
	return fmt.Sprintf("%s %s %s", d.RuleKR, d.RuleEN, strings.Join(d.Example, " "))
}

// DictionaryEntry is one bilingual term mapping in the dictionary collection.
type DictionaryEntry struct {
	ID           FlexID `json:"id"`
	Korean       string `json:"korean"`
	English      string `json:"english"`
	Abbreviation string `json:"abbreviation"`
	Description  string `json:"description"`
}

// EmbedText builds the ingestion embedding text for a dictionary entry.
func (d *DictionaryEntry) EmbedText() string {
	return fmt.Sprintf("%s %s %s %s", d.Korean, d.English, d.Abbreviation, d.Description)
}

// QAPair is one curated question/answer in the Q&A collection.
type QAPair struct {
	ID       FlexID `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EmbedText builds the ingestion embedding text for a Q&A pair. The labels
// match the corpus language so questions embed close to their stored form.
func (q *QAPair) EmbedText() string {
	return fmt.Sprintf("질문: %s. 답변: %s. 카테고리: %s", q.Question, q.Answer, q.Category)
}
