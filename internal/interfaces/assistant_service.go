package interfaces

import (
	"context"

	"github.com/ternarybob/nomen/internal/models"
)

// AssistantService runs the full naming-convention pipeline: keyword
// extraction, parallel collection search, context fusion, and response
// generation or code analysis depending on the request shape.
type AssistantService interface {
	// Ask processes one request end to end and returns the completed
	// record. The record is appended to history before Ask returns.
	// An error means the pipeline itself failed; degraded upstream calls
	// (search, extraction) surface as reduced context, not errors.
	Ask(ctx context.Context, req *models.AskRequest) (*models.ResultRecord, error)

	// Abbreviate proposes a standardized abbreviation for a full name,
	// grounded on the term dictionary.
	Abbreviate(ctx context.Context, fullName string) (string, error)
}
