package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// TagRepository defines data access operations for tags
type TagRepository interface {
	// Upsert returns the tag stored under tag.Slug, creating it with tag.Name
	// on first reference. tag.ID and tag.Name are overwritten with the
	// stored values.
	Upsert(ctx context.Context, tag *content.Tag) error

	// GetBySlug retrieves a tag by slug
	GetBySlug(ctx context.Context, slug string) (*content.Tag, error)
}
