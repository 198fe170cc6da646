package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	"folio/internal/domain/repositories"
	contentRepo "folio/internal/domain/repositories/content"
	"folio/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = `a.id, a.title, a.slug, a.summary, a.cover_image_url, a.status, a.version, a.created_by, a.created_at, a.updated_at`

// PostgresArticleRepository implements the ArticleRepository interface
type PostgresArticleRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(config *postgres.RepositoryConfig) contentRepo.ArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Create inserts the article row and its tag links
func (r *PostgresArticleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.inTx(ctx, func(ctx context.Context, exec repositories.DBTX) error {
		query := `
			INSERT INTO articles (id, title, slug, summary, cover_image_url, status, version, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := exec.Exec(ctx, query,
			article.ID,
			article.Title,
			article.Slug,
			article.Summary,
			article.CoverImageURL,
			string(article.Status),
			article.Version,
			article.CreatedBy,
			article.CreatedAt,
			article.UpdatedAt,
		)
		if err != nil {
			if postgres.IsPgDuplicateError(err) {
				return duplicateConflict(err, article.Slug)
			}
			return fmt.Errorf("create article: %w", err)
		}

		tagIDs := make([]string, 0, len(article.Tags))
		for _, t := range article.Tags {
			tagIDs = append(tagIDs, t.ID)
		}
		return linkTags(ctx, exec, article.ID, tagIDs)
	})
}

// GetSummary retrieves article metadata and tags
func (r *PostgresArticleRepository) GetSummary(ctx context.Context, id string) (*models.Article, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	return r.getSummary(ctx, executor, `SELECT `+articleColumns+` FROM articles a WHERE a.id = $1`, id)
}

// GetBySlug retrieves any article holding the slug
func (r *PostgresArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	return r.getSummary(ctx, executor, `SELECT `+articleColumns+` FROM articles a WHERE a.slug = $1`, slug)
}

// LockByID retrieves the article and holds a row lock until the transaction ends
func (r *PostgresArticleRepository) LockByID(ctx context.Context, id string) (*models.Article, error) {
	if repositories.GetTx(ctx) == nil {
		return nil, fmt.Errorf("lock article %s: no transaction in context", id)
	}
	executor := postgres.GetExecutor(ctx, r.pool)
	return r.getSummary(ctx, executor, `SELECT `+articleColumns+` FROM articles a WHERE a.id = $1 FOR UPDATE`, id)
}

// GetDetailed retrieves the article with its whole tree from one snapshot
func (r *PostgresArticleRepository) GetDetailed(ctx context.Context, id string) (*models.Article, error) {
	var article *models.Article
	err := r.inReadTx(ctx, func(ctx context.Context, exec repositories.DBTX) error {
		a, err := r.getSummary(ctx, exec, `SELECT `+articleColumns+` FROM articles a WHERE a.id = $1`, id)
		if err != nil {
			return err
		}
		if err := loadTree(ctx, exec, a); err != nil {
			return err
		}
		article = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

// GetPublishedBySlug retrieves a published article with its whole tree
func (r *PostgresArticleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article *models.Article
	err := r.inReadTx(ctx, func(ctx context.Context, exec repositories.DBTX) error {
		a, err := r.getSummary(ctx, exec,
			`SELECT `+articleColumns+` FROM articles a WHERE a.slug = $1 AND a.status = 'PUBLISHED'`, slug)
		if err != nil {
			return err
		}
		if err := loadTree(ctx, exec, a); err != nil {
			return err
		}
		article = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

// ExistsPublishedWithSlug reports whether another article is published under slug
func (r *PostgresArticleRepository) ExistsPublishedWithSlug(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM articles
			WHERE slug = $1 AND status = 'PUBLISHED' AND id::text <> $2
		)
	`
	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check published slug: %w", err)
	}
	return exists, nil
}

// Update persists metadata, status and version guarded by compare-and-swap on version
func (r *PostgresArticleRepository) Update(ctx context.Context, article *models.Article, expectedVersion int) error {
	query := `
		UPDATE articles
		SET title = $2, slug = $3, summary = $4, cover_image_url = $5, status = $6, version = $7, updated_at = $8
		WHERE id = $1 AND version = $9
	`
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Summary,
		article.CoverImageURL,
		string(article.Status),
		article.Version,
		article.UpdatedAt,
		expectedVersion,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return duplicateConflict(err, article.Slug)
		}
		return fmt.Errorf("update article: %w", err)
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetSummary(ctx, article.ID); err != nil {
			return err
		}
		return &domain.ConflictError{
			Message:      fmt.Sprintf("article was modified concurrently (expected version %d)", expectedVersion),
			ResourceType: "article",
			ResourceID:   article.ID,
		}
	}

	return nil
}

// Delete removes the article; chapters, sections, tag links and revisions cascade
func (r *PostgresArticleRepository) Delete(ctx context.Context, id string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns one page of articles ordered by most recently updated
func (r *PostgresArticleRepository) List(ctx context.Context, filter *models.ArticleFilter) (*models.ArticlePage, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	pattern := ""
	if q := strings.TrimSpace(filter.TitleQuery); q != "" {
		pattern = "%" + escapeLike(q) + "%"
	}

	where := `WHERE ($1::text IS NULL OR a.status = $1) AND ($2 = '' OR a.title ILIKE $2)`

	executor := postgres.GetExecutor(ctx, r.pool)

	var total int
	if err := executor.QueryRow(ctx, `SELECT COUNT(*) FROM articles a `+where, status, pattern).Scan(&total); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	query := `SELECT ` + articleColumns + ` FROM articles a ` + where + `
		ORDER BY a.updated_at DESC, a.id ASC
		LIMIT $3 OFFSET $4`
	rows, err := executor.Query(ctx, query, status, pattern, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]models.Article, 0, filter.Limit)
	for rows.Next() {
		var a models.Article
		if err := scanArticle(rows, &a); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	ids := make([]string, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}
	tags, err := loadTags(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].Tags = tagsOrEmpty(tags[articles[i].ID])
	}

	return models.NewArticlePage(articles, total, filter), nil
}

// ApplyTreeDiff reconciles chapters, sections and tag links in one transaction.
// Sections are re-parented before chapters are deleted so that a moved
// section does not go down with its old chapter. Order indexes are checked
// at commit, so swaps inside one diff are allowed.
func (r *PostgresArticleRepository) ApplyTreeDiff(ctx context.Context, diff *models.TreeDiff) error {
	return r.inTx(ctx, func(ctx context.Context, exec repositories.DBTX) error {
		now := time.Now()

		for _, ch := range diff.ChapterUpdates {
			result, err := exec.Exec(ctx, `
				UPDATE chapters SET title = $3, order_index = $4, updated_at = $5
				WHERE id = $1 AND article_id = $2
			`, ch.ID, diff.ArticleID, ch.Title, ch.OrderIndex, now)
			if err != nil {
				return fmt.Errorf("update chapter %s: %w", ch.ID, err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("chapter %s: %w", ch.ID, domain.ErrNotFound)
			}
		}

		for _, ch := range diff.ChapterInserts {
			_, err := exec.Exec(ctx, `
				INSERT INTO chapters (id, article_id, title, order_index, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $5)
			`, ch.ID, diff.ArticleID, ch.Title, ch.OrderIndex, now)
			if err != nil {
				return fmt.Errorf("insert chapter: %w", err)
			}
		}

		for _, sec := range diff.SectionUpdates {
			result, err := exec.Exec(ctx, `
				UPDATE sections SET chapter_id = $2, title = $3, order_index = $4, markdown = $5, updated_at = $6
				WHERE id = $1
				  AND chapter_id IN (SELECT id FROM chapters WHERE article_id = $7)
			`, sec.ID, sec.ChapterID, sec.Title, sec.OrderIndex, sec.Markdown, now, diff.ArticleID)
			if err != nil {
				return fmt.Errorf("update section %s: %w", sec.ID, err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("section %s: %w", sec.ID, domain.ErrNotFound)
			}
		}

		for _, sec := range diff.SectionInserts {
			_, err := exec.Exec(ctx, `
				INSERT INTO sections (id, chapter_id, title, order_index, markdown, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $6)
			`, sec.ID, sec.ChapterID, sec.Title, sec.OrderIndex, sec.Markdown, now)
			if err != nil {
				if postgres.IsPgForeignKeyError(err) {
					return fmt.Errorf("chapter %s: %w", sec.ChapterID, domain.ErrNotFound)
				}
				return fmt.Errorf("insert section: %w", err)
			}
		}

		if len(diff.SectionDeletes) > 0 {
			_, err := exec.Exec(ctx, `
				DELETE FROM sections
				WHERE id = ANY($1::uuid[])
				  AND chapter_id IN (SELECT id FROM chapters WHERE article_id = $2)
			`, diff.SectionDeletes, diff.ArticleID)
			if err != nil {
				return fmt.Errorf("delete sections: %w", err)
			}
		}

		if len(diff.ChapterDeletes) > 0 {
			_, err := exec.Exec(ctx, `DELETE FROM chapters WHERE id = ANY($1::uuid[]) AND article_id = $2`,
				diff.ChapterDeletes, diff.ArticleID)
			if err != nil {
				return fmt.Errorf("delete chapters: %w", err)
			}
		}

		if len(diff.TagUnlinks) > 0 {
			_, err := exec.Exec(ctx, `DELETE FROM article_tags WHERE article_id = $1 AND tag_id = ANY($2::uuid[])`,
				diff.ArticleID, diff.TagUnlinks)
			if err != nil {
				return fmt.Errorf("unlink tags: %w", err)
			}
		}
		if err := linkTags(ctx, exec, diff.ArticleID, diff.TagLinks); err != nil {
			return err
		}

		if _, err := exec.Exec(ctx, `UPDATE articles SET updated_at = $2 WHERE id = $1`, diff.ArticleID, now); err != nil {
			return fmt.Errorf("touch article: %w", err)
		}

		r.logger.Debug("tree diff applied",
			"article_id", diff.ArticleID,
			"chapters_inserted", len(diff.ChapterInserts),
			"chapters_deleted", len(diff.ChapterDeletes),
			"sections_inserted", len(diff.SectionInserts),
			"sections_deleted", len(diff.SectionDeletes),
		)
		return nil
	})
}

func (r *PostgresArticleRepository) getSummary(ctx context.Context, exec repositories.DBTX, query string, arg string) (*models.Article, error) {
	var a models.Article
	if err := scanArticle(exec.QueryRow(ctx, query, arg), &a); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("article %s: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	tags, err := loadTags(ctx, exec, []string{a.ID})
	if err != nil {
		return nil, err
	}
	a.Tags = tagsOrEmpty(tags[a.ID])
	return &a, nil
}

// inTx runs fn in the context transaction, or in a fresh one when there is none
func (r *PostgresArticleRepository) inTx(ctx context.Context, fn func(ctx context.Context, exec repositories.DBTX) error) error {
	if tx := repositories.GetTx(ctx); tx != nil {
		return fn(ctx, tx)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return r.finish(ctx, tx, fn)
}

// inReadTx is inTx with a repeatable-read, read-only transaction so that
// multi-query reads see one consistent snapshot
func (r *PostgresArticleRepository) inReadTx(ctx context.Context, fn func(ctx context.Context, exec repositories.DBTX) error) error {
	if tx := repositories.GetTx(ctx); tx != nil {
		return fn(ctx, tx)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	return r.finish(ctx, tx, fn)
}

func (r *PostgresArticleRepository) finish(ctx context.Context, tx pgx.Tx, fn func(ctx context.Context, exec repositories.DBTX) error) error {
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(repositories.SetTx(ctx, tx), tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return duplicateConflict(err, "")
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanArticle(row pgx.Row, a *models.Article) error {
	var status string
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Summary,
		&a.CoverImageURL,
		&status,
		&a.Version,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	a.Status = models.ArticleStatus(status)
	return err
}

func slugConflict(slug string) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("slug '%s' is already taken", slug),
		ResourceType: "article",
	}
}

// duplicateConflict maps a unique violation to the rule it broke. Order
// index constraints are deferred, so they surface at commit.
func duplicateConflict(err error, slug string) *domain.ConflictError {
	switch postgres.PgConstraintName(err) {
	case "articles_slug_key":
		return slugConflict(slug)
	case "chapters_article_order_key":
		return &domain.ConflictError{Message: "chapter order index already taken", ResourceType: "chapter"}
	case "sections_chapter_order_key":
		return &domain.ConflictError{Message: "section order index already taken", ResourceType: "section"}
	default:
		return &domain.ConflictError{Message: "conflicting write, reload and retry", ResourceType: "article"}
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
