package memory

import (
	"context"
	"sort"
	"strings"
	"unicode"

	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
)

// Field weights mirror the A/B weights of the Postgres search vectors
const (
	titleWeight = 1.0
	bodyWeight  = 0.4
)

// SearchRepository ranks published content by token matches. Every query
// token must occur in the document, like plainto_tsquery.
type SearchRepository struct {
	store *Store
}

// NewSearchRepository creates a new in-memory search repository
func NewSearchRepository(store *Store) contentRepo.SearchRepository {
	return &SearchRepository{store: store}
}

func (r *SearchRepository) Search(ctx context.Context, opts *models.SearchOptions) ([]models.SearchHit, int, error) {
	defer r.store.lock(ctx)()
	d := r.store.data

	terms := tokenize(opts.Query)
	if len(terms) == 0 {
		return []models.SearchHit{}, 0, nil
	}

	var hits []models.SearchHit
	for _, a := range d.articles {
		if a.Status != models.StatusPublished {
			continue
		}
		summary := ""
		if a.Summary != nil {
			summary = *a.Summary
		}
		if score, ok := rank(terms, a.Title, summary); ok {
			body := summary
			if body == "" {
				body = a.Title
			}
			hits = append(hits, models.SearchHit{
				Kind:  models.ResultKindArticle,
				ID:    a.ID,
				Title: a.Title,
				Slug:  a.Slug,
				Body:  body,
				Score: score,
			})
		}
	}
	for _, sec := range d.sections {
		ch, ok := d.chapters[sec.ChapterID]
		if !ok {
			continue
		}
		a, ok := d.articles[ch.ArticleID]
		if !ok || a.Status != models.StatusPublished {
			continue
		}
		if score, ok := rank(terms, sec.Title, sec.Markdown); ok {
			hits = append(hits, models.SearchHit{
				Kind:  models.ResultKindSection,
				ID:    sec.ID,
				Title: sec.Title,
				Slug:  a.Slug,
				Body:  sec.Markdown,
				Score: score,
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Title != hits[j].Title {
			return hits[i].Title < hits[j].Title
		}
		return hits[i].ID < hits[j].ID
	})

	total := len(hits)
	start := opts.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := start + opts.Size
	if end > total {
		end = total
	}
	return append([]models.SearchHit{}, hits[start:end]...), total, nil
}

// rank scores a document; ok is false unless every term occurs in it
func rank(terms []string, title, body string) (float64, bool) {
	titleCounts := countTokens(title)
	bodyCounts := countTokens(body)

	score := 0.0
	for _, term := range terms {
		tc, bc := titleCounts[term], bodyCounts[term]
		if tc == 0 && bc == 0 {
			return 0, false
		}
		score += float64(tc)*titleWeight + float64(bc)*bodyWeight
	}
	return score, true
}

func countTokens(s string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenize(s) {
		counts[tok]++
	}
	return counts
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
