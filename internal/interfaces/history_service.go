package interfaces

import (
	"github.com/ternarybob/nomen/internal/models"
)

// HistoryService is the process-scoped store of completed exchanges.
// Append-only: records are never mutated or removed while the process
// lives, and nothing is persisted across restarts.
type HistoryService interface {
	// Append stores a completed record
	Append(record *models.ResultRecord)

	// List returns all records in append order as copies
	List() []*models.ResultRecord

	// Get returns one record by ID
	Get(id string) (*models.ResultRecord, bool)

	// Count returns the number of stored records
	Count() int
}
