package content

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
	"folio/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRevisionRepository implements the RevisionRepository interface.
// It never updates or deletes rows; revisions only go away with their article.
type PostgresRevisionRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(config *postgres.RepositoryConfig) contentRepo.RevisionRepository {
	return &PostgresRevisionRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Create appends a revision
func (r *PostgresRevisionRepository) Create(ctx context.Context, revision *models.Revision) error {
	query := `
		INSERT INTO revisions (id, article_id, version, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		revision.ID,
		revision.ArticleID,
		revision.Version,
		[]byte(revision.Snapshot),
		revision.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("revision %d of article already exists", revision.Version),
				ResourceType: "revision",
				ResourceID:   revision.ArticleID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("article %s: %w", revision.ArticleID, domain.ErrNotFound)
		}
		return fmt.Errorf("create revision: %w", err)
	}
	return nil
}

// ListByArticle returns revision metadata in version order
func (r *PostgresRevisionRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error) {
	query := `
		SELECT id, article_id, version, created_at
		FROM revisions
		WHERE article_id = $1
		ORDER BY version ASC
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.Revision{}
	for rows.Next() {
		var rev models.Revision
		if err := rows.Scan(&rev.ID, &rev.ArticleID, &rev.Version, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return revisions, nil
}

// Get retrieves one revision with its snapshot
func (r *PostgresRevisionRepository) Get(ctx context.Context, articleID string, version int) (*models.Revision, error) {
	query := `
		SELECT id, article_id, version, snapshot, created_at
		FROM revisions
		WHERE article_id = $1 AND version = $2
	`
	var rev models.Revision
	var snapshot []byte
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, articleID, version).Scan(
		&rev.ID,
		&rev.ArticleID,
		&rev.Version,
		&snapshot,
		&rev.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("revision %d of article %s: %w", version, articleID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get revision: %w", err)
	}
	rev.Snapshot = snapshot
	return &rev, nil
}
