package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// SearchRepository ranks published content against a query
type SearchRepository interface {
	// Search returns one page of hits ordered by score desc, title asc, and
	// the total number of hits matching the same predicate.
	// opts must already be defaulted and non-blank.
	Search(ctx context.Context, opts *content.SearchOptions) ([]content.SearchHit, int, error)
}
