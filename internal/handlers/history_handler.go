package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/interfaces"
)

// HistoryHandler serves the request history: every completed exchange with
// its raw per-collection context, the audit view for retrieval quality.
type HistoryHandler struct {
	history interfaces.HistoryService
	logger  arbor.ILogger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history interfaces.HistoryService, logger arbor.ILogger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// ListHandler handles GET /api/history. Without pagination parameters the
// full history returns in append order; page/pageSize trim it down.
func (h *HistoryHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	records := h.history.List()

	page, pageSize, requested := GetPaginationParams(r)
	if !requested {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   len(records),
			"records": records,
		})
		return
	}

	pageRecords, pagination := PaginateRecords(records, page, pageSize)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"count":      len(pageRecords),
		"records":    pageRecords,
		"pagination": pagination,
	})
}

// GetHandler handles GET /api/history/{id}
func (h *HistoryHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Record not found")
		return
	}

	record, ok := h.history.Get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "Record not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"record":  record,
	})
}
