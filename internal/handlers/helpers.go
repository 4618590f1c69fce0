package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/ternarybob/nomen/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// PaginationResponse contains pagination metadata for API responses.
type PaginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// GetPaginationParams extracts pagination parameters from the query string.
// Returns page (0-indexed), pageSize (default 10, max 100), and whether the
// caller asked for pagination at all.
func GetPaginationParams(r *http.Request) (page, pageSize int, requested bool) {
	page = 0
	pageSize = 10

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		requested = true
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 0 {
			page = p
		}
	}

	if pageSizeStr := r.URL.Query().Get("pageSize"); pageSizeStr != "" {
		requested = true
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}

	return page, pageSize, requested
}

// PaginateRecords applies pagination to a slice of result records.
func PaginateRecords(records []*models.ResultRecord, page, pageSize int) ([]*models.ResultRecord, PaginationResponse) {
	totalItems := len(records)
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	pagination := PaginationResponse{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}

	start := page * pageSize
	if start >= totalItems {
		return []*models.ResultRecord{}, pagination
	}

	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}

	return records[start:end], pagination
}
