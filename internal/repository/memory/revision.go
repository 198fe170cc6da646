package memory

import (
	"context"
	"fmt"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
)

// RevisionRepository implements the RevisionRepository interface over a Store
type RevisionRepository struct {
	store *Store
}

// NewRevisionRepository creates a new in-memory revision repository
func NewRevisionRepository(store *Store) contentRepo.RevisionRepository {
	return &RevisionRepository{store: store}
}

func (r *RevisionRepository) Create(ctx context.Context, revision *models.Revision) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	if _, ok := d.articles[revision.ArticleID]; !ok {
		return fmt.Errorf("article %s: %w", revision.ArticleID, domain.ErrNotFound)
	}
	for _, existing := range d.revisions[revision.ArticleID] {
		if existing.Version == revision.Version {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("revision %d of article already exists", revision.Version),
				ResourceType: "revision",
				ResourceID:   revision.ArticleID,
			}
		}
	}

	row := *revision
	row.Snapshot = append([]byte(nil), revision.Snapshot...)
	d.revisions[revision.ArticleID] = append(d.revisions[revision.ArticleID], row)
	return nil
}

func (r *RevisionRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error) {
	defer r.store.lock(ctx)()

	revisions := []models.Revision{}
	for _, rev := range r.store.data.revisions[articleID] {
		rev.Snapshot = nil
		revisions = append(revisions, rev)
	}
	// appended in publish order, which is version order
	return revisions, nil
}

func (r *RevisionRepository) Get(ctx context.Context, articleID string, version int) (*models.Revision, error) {
	defer r.store.lock(ctx)()

	for _, rev := range r.store.data.revisions[articleID] {
		if rev.Version == version {
			rev.Snapshot = append([]byte(nil), rev.Snapshot...)
			return &rev, nil
		}
	}
	return nil, fmt.Errorf("revision %d of article %s: %w", version, articleID, domain.ErrNotFound)
}
