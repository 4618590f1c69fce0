package history

import (
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

// Service is the process-scoped store of completed exchanges. Append-only:
// records are never mutated or removed while the process lives, and nothing
// survives a restart. A single mutex serializes writes; readers get clones
// so callers can never reach into stored state.
type Service struct {
	mu      sync.RWMutex
	records []*models.ResultRecord
	byID    map[string]*models.ResultRecord
	logger  arbor.ILogger
}

// NewService creates an empty history store.
func NewService(logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		byID:   make(map[string]*models.ResultRecord),
		logger: logger,
	}
}

// Append stores a completed record. Records without an ID are dropped with
// a warning rather than stored unreachable.
func (s *Service) Append(record *models.ResultRecord) {
	if record == nil || record.ID == "" {
		s.logger.Warn().Msg("Dropping history record without an ID")
		return
	}

	stored := record.Clone()

	s.mu.Lock()
	s.records = append(s.records, stored)
	s.byID[stored.ID] = stored
	count := len(s.records)
	s.mu.Unlock()

	s.logger.Debug().
		Str("id", stored.ID).
		Str("mode", stored.Mode).
		Int("total", count).
		Msg("History record appended")
}

// List returns all records in append order as copies.
func (s *Service) List() []*models.ResultRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ResultRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.Clone())
	}
	return out
}

// Get returns one record by ID.
func (s *Service) Get(id string) (*models.ResultRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// Count returns the number of stored records.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ensure Service implements HistoryService interface
var _ interfaces.HistoryService = (*Service)(nil)
