package content

import (
	"context"
	"fmt"

	models "folio/internal/domain/models/content"
	"folio/internal/domain/repositories"
)

// loadTree fills a.Chapters with ordered chapters, each with ordered sections
func loadTree(ctx context.Context, exec repositories.DBTX, a *models.Article) error {
	rows, err := exec.Query(ctx, `
		SELECT id, article_id, title, order_index, created_at, updated_at
		FROM chapters
		WHERE article_id = $1
		ORDER BY order_index ASC, id ASC
	`, a.ID)
	if err != nil {
		return fmt.Errorf("load chapters: %w", err)
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	index := make(map[string]int)
	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.ID, &ch.ArticleID, &ch.Title, &ch.OrderIndex, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return fmt.Errorf("scan chapter: %w", err)
		}
		ch.Sections = []models.Section{}
		index[ch.ID] = len(chapters)
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate chapters: %w", err)
	}

	secRows, err := exec.Query(ctx, `
		SELECT s.id, s.chapter_id, s.title, s.order_index, s.markdown, s.created_at, s.updated_at
		FROM sections s
		JOIN chapters c ON c.id = s.chapter_id
		WHERE c.article_id = $1
		ORDER BY s.order_index ASC, s.id ASC
	`, a.ID)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	defer secRows.Close()

	for secRows.Next() {
		var sec models.Section
		if err := secRows.Scan(&sec.ID, &sec.ChapterID, &sec.Title, &sec.OrderIndex, &sec.Markdown, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		i, ok := index[sec.ChapterID]
		if !ok {
			continue
		}
		chapters[i].Sections = append(chapters[i].Sections, sec)
	}
	if err := secRows.Err(); err != nil {
		return fmt.Errorf("iterate sections: %w", err)
	}

	a.Chapters = chapters
	return nil
}

// loadTags returns the tags of each article keyed by article id, in link order
func loadTags(ctx context.Context, exec repositories.DBTX, articleIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	rows, err := exec.Query(ctx, `
		SELECT at.article_id, t.id, t.name, t.slug
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id = ANY($1::uuid[])
		ORDER BY at.article_id, at.position ASC, t.slug ASC
	`, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		var t models.Tag
		if err := rows.Scan(&articleID, &t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		result[articleID] = append(result[articleID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return result, nil
}

// linkTags appends tag links after the article's existing ones
func linkTags(ctx context.Context, exec repositories.DBTX, articleID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	var next int
	err := exec.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM article_tags WHERE article_id = $1`, articleID).Scan(&next)
	if err != nil {
		return fmt.Errorf("next tag position: %w", err)
	}

	for i, tagID := range tagIDs {
		_, err := exec.Exec(ctx, `
			INSERT INTO article_tags (article_id, tag_id, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (article_id, tag_id) DO NOTHING
		`, articleID, tagID, next+i)
		if err != nil {
			return fmt.Errorf("link tag %s: %w", tagID, err)
		}
	}
	return nil
}

func tagsOrEmpty(tags []models.Tag) []models.Tag {
	if tags == nil {
		return []models.Tag{}
	}
	return tags
}
