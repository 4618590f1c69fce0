package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

// maxUploadBytes bounds uploaded source files. Convention reviews target
// single files, not archives.
const maxUploadBytes = 10 << 20

var (
	errInvalidBody  = errors.New("invalid request body")
	errFileTooLarge = fmt.Errorf("uploaded file exceeds %d bytes", maxUploadBytes)
)

// AskHandler handles assistant HTTP requests
type AskHandler struct {
	assistant interfaces.AssistantService
	llm       interfaces.LLMService
	logger    arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(assistant interfaces.AssistantService, llm interfaces.LLMService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		assistant: assistant,
		llm:       llm,
		logger:    logger,
	}
}

// AskHandler handles POST /api/ask requests. The body is either JSON
// {"text": ...} or multipart/form-data with a "text" field and an optional
// "file" upload, which switches the pipeline into file-analysis mode.
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, err := h.parseAskRequest(r)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Rejected malformed ask request")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.assistant.Ask(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to process ask request")
		WriteError(w, http.StatusInternalServerError, "Failed to process request: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"record":  record,
	})
}

// AbbreviateHandler handles POST /api/abbreviate requests
func (h *AskHandler) AbbreviateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		WriteError(w, http.StatusBadRequest, "full_name field is required")
		return
	}

	abbreviation, err := h.assistant.Abbreviate(r.Context(), req.FullName)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate abbreviation")
		WriteError(w, http.StatusInternalServerError, "Failed to generate abbreviation: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"full_name":    strings.TrimSpace(req.FullName),
		"abbreviation": abbreviation,
	})
}

// HealthHandler handles GET /api/ask/health requests. Unlike the liveness
// probe it verifies the completion provider end to end.
func (h *AskHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if err := h.llm.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Assistant health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"healthy": false,
			"model":   h.llm.ModelName(),
			"error":   err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"healthy": true,
		"model":   h.llm.ModelName(),
	})
}

// parseAskRequest reads either encoding of the ask body into one request
// shape.
func (h *AskHandler) parseAskRequest(r *http.Request) (*models.AskRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.parseMultipart(r)
	}

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errInvalidBody
	}
	return &req, nil
}

func (h *AskHandler) parseMultipart(r *http.Request) (*models.AskRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errInvalidBody
	}

	req := &models.AskRequest{Text: r.FormValue("text")}

	file, header, err := r.FormFile("file")
	switch err {
	case nil:
	case http.ErrMissingFile:
		return req, nil
	default:
		return nil, errInvalidBody
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return nil, errFileTooLarge
	}
	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, errInvalidBody
	}
	if len(content) > maxUploadBytes {
		return nil, errFileTooLarge
	}

	req.File = &models.UploadedFile{
		Name:    header.Filename,
		Content: content,
	}
	return req, nil
}
