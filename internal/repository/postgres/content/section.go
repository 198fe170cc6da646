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

// PostgresSectionRepository implements the SectionRepository interface
type PostgresSectionRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(config *postgres.RepositoryConfig) contentRepo.SectionRepository {
	return &PostgresSectionRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Create inserts a section
func (r *PostgresSectionRepository) Create(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (id, chapter_id, title, order_index, markdown, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		section.ID,
		section.ChapterID,
		section.Title,
		section.OrderIndex,
		section.Markdown,
		section.CreatedAt,
		section.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return orderConflict("section", section.OrderIndex)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("chapter %s: %w", section.ChapterID, domain.ErrNotFound)
		}
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// GetByID retrieves a section
func (r *PostgresSectionRepository) GetByID(ctx context.Context, id string) (*models.Section, error) {
	query := `
		SELECT id, chapter_id, title, order_index, markdown, created_at, updated_at
		FROM sections
		WHERE id = $1
	`
	var sec models.Section
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&sec.ID,
		&sec.ChapterID,
		&sec.Title,
		&sec.OrderIndex,
		&sec.Markdown,
		&sec.CreatedAt,
		&sec.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	return &sec, nil
}

// Update persists title, order index and markdown
func (r *PostgresSectionRepository) Update(ctx context.Context, section *models.Section) error {
	query := `
		UPDATE sections
		SET title = $2, order_index = $3, markdown = $4, updated_at = $5
		WHERE id = $1
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		section.ID,
		section.Title,
		section.OrderIndex,
		section.Markdown,
		section.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return orderConflict("section", section.OrderIndex)
		}
		return fmt.Errorf("update section: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", section.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a section
func (r *PostgresSectionRepository) Delete(ctx context.Context, id string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// NextOrderIndex returns one past the highest section order index of the chapter
func (r *PostgresSectionRepository) NextOrderIndex(ctx context.Context, chapterID string) (int, error) {
	var next int
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx,
		`SELECT COALESCE(MAX(order_index) + 1, 0) FROM sections WHERE chapter_id = $1`, chapterID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next section order index: %w", err)
	}
	return next, nil
}
