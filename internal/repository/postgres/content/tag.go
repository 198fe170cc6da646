package content

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
	"folio/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *postgres.RepositoryConfig) contentRepo.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Upsert returns the stored tag for tag.Slug, creating it on first reference.
// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
func (r *PostgresTagRepository) Upsert(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, uuid.NewString(), tag.Name, tag.Slug).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		return fmt.Errorf("upsert tag %s: %w", tag.Slug, err)
	}
	return nil
}

// GetBySlug retrieves a tag by slug
func (r *PostgresTagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var t models.Tag
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, `SELECT id, name, slug FROM tags WHERE slug = $1`, slug).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}
