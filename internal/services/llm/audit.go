package llm

import (
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

// Auditor writes provider call records to the audit store. A nil store
// disables persistence; records are still logged at debug level.
type Auditor struct {
	store      interfaces.AuditStore
	enabled    bool
	logQueries bool
	logger     arbor.ILogger
}

// NewAuditor creates an auditor. store may be nil when auditing is
// disabled in configuration.
func NewAuditor(store interfaces.AuditStore, enabled, logQueries bool, logger arbor.ILogger) *Auditor {
	return &Auditor{
		store:      store,
		enabled:    enabled,
		logQueries: logQueries,
		logger:     logger,
	}
}

// Record persists one provider call outcome. Failures to persist are
// logged and swallowed so auditing never breaks the calling pipeline.
func (a *Auditor) Record(provider, model, operation string, start time.Time, opErr error, queryText string) {
	if a == nil || !a.enabled {
		return
	}

	record := models.AuditRecord{
		Timestamp:  start,
		Provider:   provider,
		Model:      model,
		Operation:  operation,
		Success:    opErr == nil,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if opErr != nil {
		record.Error = opErr.Error()
	}
	if a.logQueries {
		record.QueryText = queryText
	}

	if a.store == nil {
		a.logger.Debug().
			Str("provider", provider).
			Str("operation", operation).
			Bool("success", record.Success).
			Msg("Audit record (no store configured)")
		return
	}

	if err := a.store.Record(&record); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to persist audit record")
	}
}
