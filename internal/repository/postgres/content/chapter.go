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

// PostgresChapterRepository implements the ChapterRepository interface
type PostgresChapterRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewChapterRepository creates a new chapter repository
func NewChapterRepository(config *postgres.RepositoryConfig) contentRepo.ChapterRepository {
	return &PostgresChapterRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Create inserts a chapter
func (r *PostgresChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	query := `
		INSERT INTO chapters (id, article_id, title, order_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		chapter.ID,
		chapter.ArticleID,
		chapter.Title,
		chapter.OrderIndex,
		chapter.CreatedAt,
		chapter.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return orderConflict("chapter", chapter.OrderIndex)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("article %s: %w", chapter.ArticleID, domain.ErrNotFound)
		}
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

// GetByID retrieves a chapter without its sections
func (r *PostgresChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	query := `
		SELECT id, article_id, title, order_index, created_at, updated_at
		FROM chapters
		WHERE id = $1
	`
	var ch models.Chapter
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&ch.ID,
		&ch.ArticleID,
		&ch.Title,
		&ch.OrderIndex,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	ch.Sections = []models.Section{}
	return &ch, nil
}

// Update persists title and order index
func (r *PostgresChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	query := `
		UPDATE chapters
		SET title = $2, order_index = $3, updated_at = $4
		WHERE id = $1
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, chapter.ID, chapter.Title, chapter.OrderIndex, chapter.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return orderConflict("chapter", chapter.OrderIndex)
		}
		return fmt.Errorf("update chapter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the chapter; its sections cascade
func (r *PostgresChapterRepository) Delete(ctx context.Context, id string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// NextOrderIndex returns one past the highest chapter order index of the article
func (r *PostgresChapterRepository) NextOrderIndex(ctx context.Context, articleID string) (int, error) {
	var next int
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx,
		`SELECT COALESCE(MAX(order_index) + 1, 0) FROM chapters WHERE article_id = $1`, articleID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next chapter order index: %w", err)
	}
	return next, nil
}

func orderConflict(resource string, orderIndex int) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("%s order index %d is already taken", resource, orderIndex),
		ResourceType: resource,
	}
}
