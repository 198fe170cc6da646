package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// ArticleRepository defines data access operations for articles and their
// child collections
type ArticleRepository interface {
	// Create inserts the article row and links its Tags (which must already exist)
	Create(ctx context.Context, article *content.Article) error

	// GetSummary retrieves article metadata and tags, without chapters
	GetSummary(ctx context.Context, id string) (*content.Article, error)

	// GetDetailed retrieves the article with its full chapter/section tree.
	// Children are never partially loaded.
	GetDetailed(ctx context.Context, id string) (*content.Article, error)

	// GetBySlug retrieves any article (summary depth) holding the slug
	GetBySlug(ctx context.Context, slug string) (*content.Article, error)

	// GetPublishedBySlug retrieves a published article (detailed depth)
	GetPublishedBySlug(ctx context.Context, slug string) (*content.Article, error)

	// ExistsPublishedWithSlug reports whether an article other than excludeID
	// is published under slug
	ExistsPublishedWithSlug(ctx context.Context, slug, excludeID string) (bool, error)

	// LockByID retrieves the article (summary depth) and locks its row until
	// the surrounding transaction ends
	LockByID(ctx context.Context, id string) (*content.Article, error)

	// Update persists title, slug, summary, cover, status and version.
	// It only succeeds if the stored version still equals expectedVersion;
	// otherwise it returns a ConflictError.
	Update(ctx context.Context, article *content.Article, expectedVersion int) error

	// Delete removes the article and everything it owns
	Delete(ctx context.Context, id string) error

	// List returns one page of articles (summary depth) matching the filter
	List(ctx context.Context, filter *content.ArticleFilter) (*content.ArticlePage, error)

	// ApplyTreeDiff atomically reconciles the article's chapters, sections
	// and tag links
	ApplyTreeDiff(ctx context.Context, diff *content.TreeDiff) error
}
