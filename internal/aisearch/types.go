// Package aisearch provides a client for an Azure-AI-Search-compatible
// REST service. This package centralizes all search service interactions
// for the application.
package aisearch

import (
	"encoding/json"
	"fmt"
)

// DefaultAPIVersion is the search REST API version used when none is
// configured.
const DefaultAPIVersion = "2023-11-01"

// Query describes one hybrid search call. Vector is optional; when nil
// the query runs lexical-only.
type Query struct {
	// Text is the full-text query string (Lucene full syntax)
	Text string

	// Select lists the fields to project into each hit
	Select []string

	// Top caps the number of hits returned
	Top int

	// Vector is the embedding for the kNN leg, nil to disable
	Vector []float32

	// KNN is the nearest-neighbor count for the vector leg
	KNN int

	// VectorField is the index field holding document embeddings
	VectorField string
}

// Document is one search hit with its projected fields.
type Document map[string]interface{}

// Score returns the service relevance score for the hit.
func (d Document) Score() float64 {
	if v, ok := d["@search.score"].(float64); ok {
		return v
	}
	return 0
}

// GetString returns a field as a string, or "" when absent or non-string.
func (d Document) GetString(field string) string {
	if v, ok := d[field].(string); ok {
		return v
	}
	return ""
}

// GetStrings returns a field as a string slice. JSON arrays decode as
// []interface{}, so elements are filtered to strings.
func (d Document) GetStrings(field string) []string {
	raw, ok := d[field].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// UploadResult reports the outcome of one document in a batch upload.
type UploadResult struct {
	Key        string `json:"key"`
	Status     bool   `json:"status"`
	Message    string `json:"errorMessage"`
	StatusCode int    `json:"statusCode"`
}

// APIError represents an error response from the search service.
type APIError struct {
	StatusCode int
	Message    string
	Index      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API error: %s (status: %d, index: %s)", e.Message, e.StatusCode, e.Index)
}

// searchRequest is the wire format for a docs/search call.
type searchRequest struct {
	Search        string        `json:"search"`
	QueryType     string        `json:"queryType"`
	Select        string        `json:"select,omitempty"`
	Top           int           `json:"top,omitempty"`
	VectorQueries []vectorQuery `json:"vectorQueries,omitempty"`
}

type vectorQuery struct {
	Kind       string    `json:"kind"`
	Vector     []float32 `json:"vector"`
	K          int       `json:"k"`
	Fields     string    `json:"fields"`
	Exhaustive bool      `json:"exhaustive"`
}

// searchResponse is the wire format for a docs/search result.
type searchResponse struct {
	Value []Document `json:"value"`
}

// uploadRequest is the wire format for a docs/index call. Each action
// carries the document fields plus the @search.action directive.
type uploadRequest struct {
	Value []json.RawMessage `json:"value"`
}

// uploadResponse is the wire format for a docs/index result.
type uploadResponse struct {
	Value []UploadResult `json:"value"`
}
