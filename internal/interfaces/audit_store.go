package interfaces

import (
	"io"

	"github.com/ternarybob/nomen/internal/models"
)

// AuditStore persists LLM operation records for after-the-fact review.
// Implementations must be safe for concurrent writers.
type AuditStore interface {
	// Record stores one audit entry
	Record(record *models.AuditRecord) error

	// Recent returns up to limit entries, newest first
	Recent(limit int) ([]models.AuditRecord, error)

	// ExportToJSON writes all entries as a JSON array
	ExportToJSON(w io.Writer) error

	// Close releases the underlying store
	Close() error
}
