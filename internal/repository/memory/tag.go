package memory

import (
	"context"
	"fmt"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"

	"github.com/google/uuid"
)

// TagRepository implements the TagRepository interface over a Store
type TagRepository struct {
	store *Store
}

// NewTagRepository creates a new in-memory tag repository
func NewTagRepository(store *Store) contentRepo.TagRepository {
	return &TagRepository{store: store}
}

func (r *TagRepository) Upsert(ctx context.Context, tag *models.Tag) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	if id, ok := d.tagBySlug[tag.Slug]; ok {
		*tag = d.tags[id]
		return nil
	}
	tag.ID = uuid.NewString()
	d.tags[tag.ID] = *tag
	d.tagBySlug[tag.Slug] = tag.ID
	return nil
}

func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	defer r.store.lock(ctx)()
	d := r.store.data
	id, ok := d.tagBySlug[slug]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", slug, domain.ErrNotFound)
	}
	t := d.tags[id]
	return &t, nil
}
