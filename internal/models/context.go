// -----------------------------------------------------------------------
// Context Models - Retrieved snippets and the per-collection bundle
// -----------------------------------------------------------------------

package models

// Collection identifiers for the three knowledge sources.
const (
	CollectionRules      = "rules"
	CollectionDictionary = "dictionary"
	CollectionQA         = "qa"
)

// ContextSnippet is one retrieved hit, already formatted for prompt
// inclusion. Text carries the source tag, score, and schema fields; missing
// fields are rendered as "N/A" at formatting time, so consumers never see
// partial snippets.
type ContextSnippet struct {
	Collection string  `json:"collection"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// ContextBundle holds the per-collection retrieval results. Order within
// each slice is the search service's relevance order and is preserved
// through fusion.
type ContextBundle struct {
	Rules      []ContextSnippet `json:"rules"`
	Dictionary []ContextSnippet `json:"dictionary"`
	QA         []ContextSnippet `json:"qa"`
}

// Fused returns all snippets as one ordered list: rules, then dictionary,
// then Q&A. No deduplication and no cross-collection score comparison.
func (b *ContextBundle) Fused() []ContextSnippet {
	out := make([]ContextSnippet, 0, b.Count())
	out = append(out, b.Rules...)
	out = append(out, b.Dictionary...)
	out = append(out, b.QA...)
	return out
}

// Texts returns the fused snippet texts, one string per snippet.
func (b *ContextBundle) Texts() []string {
	fused := b.Fused()
	out := make([]string, 0, len(fused))
	for _, s := range fused {
		out = append(out, s.Text)
	}
	return out
}

// Count returns the total snippet count across all collections.
func (b *ContextBundle) Count() int {
	return len(b.Rules) + len(b.Dictionary) + len(b.QA)
}

// IsEmpty reports whether every collection came back empty.
func (b *ContextBundle) IsEmpty() bool {
	return b.Count() == 0
}

// CollectionTexts returns the snippet texts for one collection.
func (b *ContextBundle) CollectionTexts(collection string) []string {
	var snippets []ContextSnippet
	switch collection {
	case CollectionRules:
		snippets = b.Rules
	case CollectionDictionary:
		snippets = b.Dictionary
	case CollectionQA:
		snippets = b.QA
	}
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, s.Text)
	}
	return out
}
