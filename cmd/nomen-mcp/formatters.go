package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/nomen/internal/models"
)

// formatRecord formats a completed assistant exchange as markdown
func formatRecord(record *models.ResultRecord) string {
	var sb strings.Builder
	sb.WriteString("## Answer\n\n")
	sb.WriteString(record.Answer)
	sb.WriteString("\n\n---\n\n")

	sb.WriteString("### Retrieval Details\n\n")
	sb.WriteString(fmt.Sprintf("**Mode:** %s\n", record.Mode))
	if record.FileName != "" {
		sb.WriteString(fmt.Sprintf("**File:** %s\n", record.FileName))
	}
	if len(record.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("**Keywords:** %s\n", strings.Join(record.Keywords, ", ")))
	}
	if record.SearchQuery != "" {
		sb.WriteString(fmt.Sprintf("**Search Query:** %s\n", record.SearchQuery))
	}
	sb.WriteString(fmt.Sprintf("**Context:** %d snippets (rules: %d, dictionary: %d, qa: %d)\n",
		record.ContextCount, len(record.RulesContext), len(record.DictionaryContext), len(record.QAContext)))
	sb.WriteString(fmt.Sprintf("**Record ID:** %s\n", record.ID))

	return sb.String()
}

// formatAbbreviation formats an abbreviation proposal as markdown
func formatAbbreviation(fullName, abbreviation string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Abbreviation for \"%s\"\n\n", fullName))
	sb.WriteString(abbreviation)
	sb.WriteString("\n")
	return sb.String()
}

// formatSearchResults formats per-collection search hits as markdown
func formatSearchResults(query string, order []string, results map[string][]models.ContextSnippet) string {
	total := 0
	for _, collection := range order {
		total += len(results[collection])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for \"%s\" (%d results)\n\n", query, total))

	if total == 0 {
		sb.WriteString("No results found.\n")
		return sb.String()
	}

	for _, collection := range order {
		snippets := results[collection]
		sb.WriteString(fmt.Sprintf("### %s (%d)\n\n", collection, len(snippets)))
		if len(snippets) == 0 {
			sb.WriteString("No results.\n\n")
			continue
		}
		for i, snippet := range snippets {
			sb.WriteString(fmt.Sprintf("%d. (score %.4f) %s\n", i+1, snippet.Score, snippet.Text))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
