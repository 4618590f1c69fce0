package models

import "time"

// ResultRecord is one completed assistant exchange. Records are immutable
// once appended to history; readers receive copies.
type ResultRecord struct {
	ID                string    `json:"id"`
	Question          string    `json:"question"`
	Answer            string    `json:"answer"`
	Mode              string    `json:"mode"`
	FileName          string    `json:"file_name,omitempty"`
	Keywords          []string  `json:"keywords"`
	SearchQuery       string    `json:"search_query"`
	RulesContext      []string  `json:"rules_context"`
	DictionaryContext []string  `json:"dictionary_context"`
	QAContext         []string  `json:"qa_context"`
	ContextCount      int       `json:"context_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// Clone returns a deep copy so history readers cannot mutate stored records.
func (r *ResultRecord) Clone() *ResultRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Keywords = append([]string(nil), r.Keywords...)
	out.RulesContext = append([]string(nil), r.RulesContext...)
	out.DictionaryContext = append([]string(nil), r.DictionaryContext...)
	out.QAContext = append([]string(nil), r.QAContext...)
	return &out
}
