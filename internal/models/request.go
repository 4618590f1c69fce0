package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Assistant modes
const (
	// ModeQuestion answers a free-text naming question
	ModeQuestion = "question"
	// ModeFileAnalysis reviews an uploaded source file for convention violations
	ModeFileAnalysis = "file_analysis"
)

// UploadedFile is a source file submitted for convention review.
type UploadedFile struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// Ext returns the lowercase file extension including the dot, or "" if none.
func (f *UploadedFile) Ext() string {
	if f == nil {
		return ""
	}
	return strings.ToLower(filepath.Ext(f.Name))
}

// AskRequest is a single assistant invocation. At least one of Text or File
// must be present; when File is set the request runs in file-analysis mode.
type AskRequest struct {
	Text string        `json:"text"`
	File *UploadedFile `json:"file,omitempty"`
}

// Mode derives the pipeline mode from the request shape.
func (r *AskRequest) Mode() string {
	if r.File != nil {
		return ModeFileAnalysis
	}
	return ModeQuestion
}

// Validate checks that the request carries something to work with.
func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" && r.File == nil {
		return fmt.Errorf("request requires text or an uploaded file")
	}
	if r.File != nil && strings.TrimSpace(r.File.Name) == "" {
		return fmt.Errorf("uploaded file requires a name")
	}
	if r.File != nil && len(r.File.Content) == 0 {
		return fmt.Errorf("uploaded file %s is empty", r.File.Name)
	}
	return nil
}
