package badger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

// AuditStorage implements the AuditStore interface for Badger
type AuditStorage struct {
	db     *BadgerDB
	seq    *badgerdb.Sequence
	logger arbor.ILogger
}

// NewAuditStorage creates a new AuditStorage instance
func NewAuditStorage(db *BadgerDB, logger arbor.ILogger) (interfaces.AuditStore, error) {
	seq, err := db.Sequence("audit_seq", 64)
	if err != nil {
		return nil, err
	}

	return &AuditStorage{
		db:     db,
		seq:    seq,
		logger: logger,
	}, nil
}

// Record stores one audit entry with a sequence-allocated key
func (s *AuditStorage) Record(record *models.AuditRecord) error {
	next, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate audit id: %w", err)
	}
	// Sequence starts at 0; shift so IDs start at 1
	record.ID = next + 1

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *AuditStorage) Recent(limit int) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	query := badgerhold.Where("Timestamp").Ne(time.Time{}).SortBy("Timestamp").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	return records, nil
}

// ExportToJSON writes all entries as a JSON array, oldest first
func (s *AuditStorage) ExportToJSON(w io.Writer) error {
	var records []models.AuditRecord
	query := badgerhold.Where("Timestamp").Ne(time.Time{}).SortBy("Timestamp")

	if err := s.db.Store().Find(&records, query); err != nil {
		return fmt.Errorf("failed to query audit records for export: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode audit records: %w", err)
	}
	return nil
}

// Close releases the sequence. The shared database connection is closed
// by its owner.
func (s *AuditStorage) Close() error {
	if s.seq != nil {
		return s.seq.Release()
	}
	return nil
}
