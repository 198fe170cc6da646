package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
)

// ArticleRepository implements the ArticleRepository interface over a Store
type ArticleRepository struct {
	store *Store
}

// NewArticleRepository creates a new in-memory article repository
func NewArticleRepository(store *Store) contentRepo.ArticleRepository {
	return &ArticleRepository{store: store}
}

func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	if _, exists := d.articles[article.ID]; exists {
		return &domain.ConflictError{Message: "article already exists", ResourceType: "article", ResourceID: article.ID}
	}
	if slugTaken(d, article.Slug, "") {
		return slugConflict(article.Slug)
	}
	tagIDs := make([]string, 0, len(article.Tags))
	for _, t := range article.Tags {
		if _, ok := d.tags[t.ID]; !ok {
			return fmt.Errorf("tag %s: %w", t.ID, domain.ErrNotFound)
		}
		tagIDs = append(tagIDs, t.ID)
	}

	row := *article
	row.Tags = nil
	row.Chapters = nil
	d.articles[article.ID] = row
	d.articleTags[article.ID] = appendUnique(nil, tagIDs)
	return nil
}

func (r *ArticleRepository) GetSummary(ctx context.Context, id string) (*models.Article, error) {
	defer r.store.lock(ctx)()
	return summary(r.store.data, id)
}

func (r *ArticleRepository) GetDetailed(ctx context.Context, id string) (*models.Article, error) {
	defer r.store.lock(ctx)()
	return detailed(r.store.data, id)
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	defer r.store.lock(ctx)()
	d := r.store.data
	for id, a := range d.articles {
		if a.Slug == slug {
			return summary(d, id)
		}
	}
	return nil, fmt.Errorf("article %s: %w", slug, domain.ErrNotFound)
}

func (r *ArticleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	defer r.store.lock(ctx)()
	d := r.store.data
	for id, a := range d.articles {
		if a.Slug == slug && a.Status == models.StatusPublished {
			return detailed(d, id)
		}
	}
	return nil, fmt.Errorf("article %s: %w", slug, domain.ErrNotFound)
}

func (r *ArticleRepository) ExistsPublishedWithSlug(ctx context.Context, slug, excludeID string) (bool, error) {
	defer r.store.lock(ctx)()
	for id, a := range r.store.data.articles {
		if id != excludeID && a.Slug == slug && a.Status == models.StatusPublished {
			return true, nil
		}
	}
	return false, nil
}

// LockByID is GetSummary; the transaction already holds the store mutex
func (r *ArticleRepository) LockByID(ctx context.Context, id string) (*models.Article, error) {
	if !r.store.inTx(ctx) {
		return nil, fmt.Errorf("lock article %s: no transaction in context", id)
	}
	return summary(r.store.data, id)
}

func (r *ArticleRepository) Update(ctx context.Context, article *models.Article, expectedVersion int) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	current, ok := d.articles[article.ID]
	if !ok {
		return fmt.Errorf("article %s: %w", article.ID, domain.ErrNotFound)
	}
	if current.Version != expectedVersion {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("article was modified concurrently (expected version %d)", expectedVersion),
			ResourceType: "article",
			ResourceID:   article.ID,
		}
	}
	if slugTaken(d, article.Slug, article.ID) {
		return slugConflict(article.Slug)
	}

	current.Title = article.Title
	current.Slug = article.Slug
	current.Summary = article.Summary
	current.CoverImageURL = article.CoverImageURL
	current.Status = article.Status
	current.Version = article.Version
	current.UpdatedAt = article.UpdatedAt
	d.articles[article.ID] = current
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	if _, ok := d.articles[id]; !ok {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	for chID, ch := range d.chapters {
		if ch.ArticleID == id {
			deleteChapter(d, chID)
		}
	}
	delete(d.articleTags, id)
	delete(d.revisions, id)
	delete(d.articles, id)
	return nil
}

func (r *ArticleRepository) List(ctx context.Context, filter *models.ArticleFilter) (*models.ArticlePage, error) {
	defer r.store.lock(ctx)()
	d := r.store.data

	q := strings.ToLower(strings.TrimSpace(filter.TitleQuery))
	matched := make([]models.Article, 0)
	for _, a := range d.articles {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Title), q) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	page := make([]models.Article, 0, filter.Limit)
	for i := filter.Offset; i < total && len(page) < filter.Limit; i++ {
		a := matched[i]
		a.Tags = tagsOf(d, a.ID)
		page = append(page, a)
	}
	return models.NewArticlePage(page, total, filter), nil
}

// ApplyTreeDiff applies the diff to a copy of the state and swaps it in
// only when every step and the final order check succeed
func (r *ArticleRepository) ApplyTreeDiff(ctx context.Context, diff *models.TreeDiff) error {
	defer r.store.lock(ctx)()

	d := r.store.data.clone()
	if _, ok := d.articles[diff.ArticleID]; !ok {
		return fmt.Errorf("article %s: %w", diff.ArticleID, domain.ErrNotFound)
	}
	now := time.Now()

	for _, ch := range diff.ChapterUpdates {
		current, ok := d.chapters[ch.ID]
		if !ok || current.ArticleID != diff.ArticleID {
			return fmt.Errorf("chapter %s: %w", ch.ID, domain.ErrNotFound)
		}
		current.Title = ch.Title
		current.OrderIndex = ch.OrderIndex
		current.UpdatedAt = now
		d.chapters[ch.ID] = current
	}
	for _, ch := range diff.ChapterInserts {
		row := ch
		row.ArticleID = diff.ArticleID
		row.Sections = nil
		row.CreatedAt, row.UpdatedAt = now, now
		d.chapters[ch.ID] = row
	}
	for _, sec := range diff.SectionUpdates {
		current, ok := d.sections[sec.ID]
		if !ok || !ownedBy(d, current.ChapterID, diff.ArticleID) {
			return fmt.Errorf("section %s: %w", sec.ID, domain.ErrNotFound)
		}
		if !ownedBy(d, sec.ChapterID, diff.ArticleID) {
			return fmt.Errorf("chapter %s: %w", sec.ChapterID, domain.ErrNotFound)
		}
		current.ChapterID = sec.ChapterID
		current.Title = sec.Title
		current.OrderIndex = sec.OrderIndex
		current.Markdown = sec.Markdown
		current.UpdatedAt = now
		d.sections[sec.ID] = current
	}
	for _, sec := range diff.SectionInserts {
		if !ownedBy(d, sec.ChapterID, diff.ArticleID) {
			return fmt.Errorf("chapter %s: %w", sec.ChapterID, domain.ErrNotFound)
		}
		row := sec
		row.HTML = ""
		row.CreatedAt, row.UpdatedAt = now, now
		d.sections[sec.ID] = row
	}

	for _, id := range diff.SectionDeletes {
		if sec, ok := d.sections[id]; ok && ownedBy(d, sec.ChapterID, diff.ArticleID) {
			delete(d.sections, id)
		}
	}
	for _, id := range diff.ChapterDeletes {
		if ch, ok := d.chapters[id]; ok && ch.ArticleID == diff.ArticleID {
			deleteChapter(d, id)
		}
	}
	if len(diff.TagUnlinks) > 0 {
		drop := make(map[string]bool, len(diff.TagUnlinks))
		for _, id := range diff.TagUnlinks {
			drop[id] = true
		}
		kept := d.articleTags[diff.ArticleID][:0:0]
		for _, id := range d.articleTags[diff.ArticleID] {
			if !drop[id] {
				kept = append(kept, id)
			}
		}
		d.articleTags[diff.ArticleID] = kept
	}
	for _, id := range diff.TagLinks {
		if _, ok := d.tags[id]; !ok {
			return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
	}
	d.articleTags[diff.ArticleID] = appendUnique(d.articleTags[diff.ArticleID], diff.TagLinks)

	if err := checkOrder(d, diff.ArticleID); err != nil {
		return err
	}

	a := d.articles[diff.ArticleID]
	a.UpdatedAt = now
	d.articles[diff.ArticleID] = a

	r.store.data = d
	return nil
}

func summary(d *state, id string) (*models.Article, error) {
	row, ok := d.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	a := row
	a.Tags = tagsOf(d, id)
	return &a, nil
}

func detailed(d *state, id string) (*models.Article, error) {
	a, err := summary(d, id)
	if err != nil {
		return nil, err
	}

	chapters := []models.Chapter{}
	for _, ch := range d.chapters {
		if ch.ArticleID == id {
			ch.Sections = sectionsOf(d, ch.ID)
			chapters = append(chapters, ch)
		}
	}
	sort.Slice(chapters, func(i, j int) bool {
		if chapters[i].OrderIndex != chapters[j].OrderIndex {
			return chapters[i].OrderIndex < chapters[j].OrderIndex
		}
		return chapters[i].ID < chapters[j].ID
	})
	a.Chapters = chapters
	return a, nil
}

func sectionsOf(d *state, chapterID string) []models.Section {
	sections := []models.Section{}
	for _, sec := range d.sections {
		if sec.ChapterID == chapterID {
			sections = append(sections, sec)
		}
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].OrderIndex != sections[j].OrderIndex {
			return sections[i].OrderIndex < sections[j].OrderIndex
		}
		return sections[i].ID < sections[j].ID
	})
	return sections
}

func tagsOf(d *state, articleID string) []models.Tag {
	tags := []models.Tag{}
	for _, id := range d.articleTags[articleID] {
		if t, ok := d.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags
}

func deleteChapter(d *state, chapterID string) {
	for secID, sec := range d.sections {
		if sec.ChapterID == chapterID {
			delete(d.sections, secID)
		}
	}
	delete(d.chapters, chapterID)
}

func ownedBy(d *state, chapterID, articleID string) bool {
	ch, ok := d.chapters[chapterID]
	return ok && ch.ArticleID == articleID
}

func slugTaken(d *state, slug, excludeID string) bool {
	for id, a := range d.articles {
		if id != excludeID && a.Slug == slug {
			return true
		}
	}
	return false
}

// checkOrder enforces unique order indexes among the article's chapters and
// within each of its chapters
func checkOrder(d *state, articleID string) error {
	seen := make(map[int]bool)
	for chID, ch := range d.chapters {
		if ch.ArticleID != articleID {
			continue
		}
		if seen[ch.OrderIndex] {
			return orderConflict("chapter", ch.OrderIndex)
		}
		seen[ch.OrderIndex] = true

		secSeen := make(map[int]bool)
		for _, sec := range d.sections {
			if sec.ChapterID != chID {
				continue
			}
			if secSeen[sec.OrderIndex] {
				return orderConflict("section", sec.OrderIndex)
			}
			secSeen[sec.OrderIndex] = true
		}
	}
	return nil
}

func appendUnique(dst []string, ids []string) []string {
	present := make(map[string]bool, len(dst)+len(ids))
	for _, id := range dst {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			present[id] = true
			dst = append(dst, id)
		}
	}
	return dst
}

func slugConflict(slug string) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("slug '%s' is already taken", slug),
		ResourceType: "article",
	}
}

func orderConflict(resource string, orderIndex int) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("%s order index %d is already taken", resource, orderIndex),
		ResourceType: resource,
	}
}
