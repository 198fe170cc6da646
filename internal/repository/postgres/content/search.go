package content

import (
	"context"
	"fmt"
	"log/slog"

	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
	"folio/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// publishedHits is the shared predicate of the page and count queries.
// Article hits carry the summary (or title) as snippet source; section hits
// carry their markdown and the parent article's slug.
const publishedHits = `
	WITH search_query AS (SELECT plainto_tsquery('simple', $1) AS q)
	SELECT 'ARTICLE' AS kind, a.id, a.title, a.slug,
	       COALESCE(NULLIF(a.summary, ''), a.title) AS body,
	       ts_rank_cd(a.search_vector, sq.q) AS score
	FROM articles a, search_query sq
	WHERE a.status = 'PUBLISHED' AND a.search_vector @@ sq.q
	UNION ALL
	SELECT 'SECTION' AS kind, s.id, s.title, a.slug,
	       s.markdown AS body,
	       ts_rank_cd(s.search_vector, sq.q) AS score
	FROM sections s
	JOIN chapters c ON c.id = s.chapter_id
	JOIN articles a ON a.id = c.article_id, search_query sq
	WHERE a.status = 'PUBLISHED' AND s.search_vector @@ sq.q
`

// PostgresSearchRepository implements the SearchRepository interface using
// the generated tsvector columns
type PostgresSearchRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(config *postgres.RepositoryConfig) contentRepo.SearchRepository {
	return &PostgresSearchRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// Search returns one ranked page of hits and the total hit count
func (r *PostgresSearchRepository) Search(ctx context.Context, opts *models.SearchOptions) ([]models.SearchHit, int, error) {
	query := `SELECT kind, id, title, slug, body, score FROM (` + publishedHits + `) AS hits
		ORDER BY score DESC, title ASC, id ASC
		LIMIT $2 OFFSET $3`

	r.logger.Debug("executing search",
		"query", opts.Query,
		"page", opts.Page,
		"size", opts.Size,
	)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, opts.Query, opts.Size, opts.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	hits := []models.SearchHit{}
	for rows.Next() {
		var hit models.SearchHit
		var kind string
		var score float32
		if err := rows.Scan(&kind, &hit.ID, &hit.Title, &hit.Slug, &hit.Body, &score); err != nil {
			return nil, 0, fmt.Errorf("scan search result: %w", err)
		}
		hit.Kind = models.ResultKind(kind)
		hit.Score = float64(score)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate search results: %w", err)
	}

	total, err := r.countTotalMatches(ctx, opts)
	if err != nil {
		return nil, 0, err
	}

	return hits, total, nil
}

// countTotalMatches runs the same predicate without paging
func (r *PostgresSearchRepository) countTotalMatches(ctx context.Context, opts *models.SearchOptions) (int, error) {
	var total int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, `SELECT COUNT(*) FROM (`+publishedHits+`) AS hits`, opts.Query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count search results: %w", err)
	}
	return total, nil
}
