package models

import "time"

// Audit operation names
const (
	AuditOpComplete = "complete"
	AuditOpEmbed    = "embed"
)

// AuditRecord is one logged LLM operation. Records persist across restarts
// so provider usage can be reviewed after the fact.
type AuditRecord struct {
	ID         uint64    `json:"id" badgerhold:"key"`
	Timestamp  time.Time `json:"timestamp"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Operation  string    `json:"operation"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	QueryText  string    `json:"query_text,omitempty"`
}
