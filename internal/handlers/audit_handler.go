// -----------------------------------------------------------------------
// Audit Handler - Read and export endpoints for the LLM audit trail
// -----------------------------------------------------------------------

package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/interfaces"
)

// defaultAuditLimit caps the recent-records view when the caller does not
// ask for a specific window.
const defaultAuditLimit = 50

// AuditHandler exposes the persistent LLM audit trail.
type AuditHandler struct {
	store  interfaces.AuditStore
	logger arbor.ILogger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(store interfaces.AuditStore, logger arbor.ILogger) *AuditHandler {
	return &AuditHandler{
		store:  store,
		logger: logger,
	}
}

// RecentHandler handles GET /api/audit requests, newest first.
func (h *AuditHandler) RecentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := defaultAuditLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	records, err := h.store.Recent(limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read audit records")
		WriteError(w, http.StatusInternalServerError, "Failed to read audit records")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(records),
		"records": records,
	})
}

// ExportHandler handles GET /api/audit/export requests, streaming the full
// trail as a JSON download.
func (h *AuditHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="llm-audit.json"`)

	if err := h.store.ExportToJSON(w); err != nil {
		// Headers are already written; the truncated body is the best signal left
		h.logger.Error().Err(err).Msg("Audit export failed mid-stream")
	}
}
