package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// RevisionRepository is the append-only log of publish snapshots
type RevisionRepository interface {
	// Create appends a revision. A second revision with the same
	// (article, version) is a ConflictError.
	Create(ctx context.Context, revision *content.Revision) error

	// ListByArticle returns revisions ordered by version ascending, without
	// snapshot bodies
	ListByArticle(ctx context.Context, articleID string) ([]content.Revision, error)

	// Get retrieves one revision with its snapshot
	Get(ctx context.Context, articleID string, version int) (*content.Revision, error)
}
