// -----------------------------------------------------------------------
// Collection Searcher Interface - Hybrid retrieval over one knowledge collection
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/nomen/internal/models"
)

// CollectionSearcher runs one hybrid query against a single knowledge
// collection and returns formatted context snippets.
//
// Failures never propagate: an unreachable index, a bad response, or a
// failed embedding degrade to fewer (possibly zero) snippets so sibling
// collections still contribute. Callers that need to know about failures
// watch the logs, not the return value.
type CollectionSearcher interface {
	// Search runs a hybrid lexical+vector query. requestText is embedded
	// for the vector leg; lexicalQuery is the OR-joined keyword query for
	// the lexical leg.
	Search(ctx context.Context, requestText string, lexicalQuery string) []models.ContextSnippet

	// Collection returns the collection identifier this searcher serves.
	Collection() string
}
