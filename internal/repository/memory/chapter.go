package memory

import (
	"context"
	"fmt"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
)

// ChapterRepository implements the ChapterRepository interface over a Store
type ChapterRepository struct {
	store *Store
}

// NewChapterRepository creates a new in-memory chapter repository
func NewChapterRepository(store *Store) contentRepo.ChapterRepository {
	return &ChapterRepository{store: store}
}

func (r *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	if _, ok := d.articles[chapter.ArticleID]; !ok {
		return fmt.Errorf("article %s: %w", chapter.ArticleID, domain.ErrNotFound)
	}
	for _, ch := range d.chapters {
		if ch.ArticleID == chapter.ArticleID && ch.OrderIndex == chapter.OrderIndex {
			return orderConflict("chapter", chapter.OrderIndex)
		}
	}
	row := *chapter
	row.Sections = nil
	d.chapters[chapter.ID] = row
	return nil
}

func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	defer r.store.lock(ctx)()
	ch, ok := r.store.data.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	ch.Sections = []models.Section{}
	return &ch, nil
}

func (r *ChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	current, ok := d.chapters[chapter.ID]
	if !ok {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrNotFound)
	}
	for id, ch := range d.chapters {
		if id != chapter.ID && ch.ArticleID == current.ArticleID && ch.OrderIndex == chapter.OrderIndex {
			return orderConflict("chapter", chapter.OrderIndex)
		}
	}
	current.Title = chapter.Title
	current.OrderIndex = chapter.OrderIndex
	current.UpdatedAt = chapter.UpdatedAt
	d.chapters[chapter.ID] = current
	return nil
}

func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	d := r.store.data
	if _, ok := d.chapters[id]; !ok {
		return fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	deleteChapter(d, id)
	return nil
}

func (r *ChapterRepository) NextOrderIndex(ctx context.Context, articleID string) (int, error) {
	defer r.store.lock(ctx)()
	next := 0
	for _, ch := range r.store.data.chapters {
		if ch.ArticleID == articleID && ch.OrderIndex >= next {
			next = ch.OrderIndex + 1
		}
	}
	return next, nil
}

// SectionRepository implements the SectionRepository interface over a Store
type SectionRepository struct {
	store *Store
}

// NewSectionRepository creates a new in-memory section repository
func NewSectionRepository(store *Store) contentRepo.SectionRepository {
	return &SectionRepository{store: store}
}

func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	if _, ok := d.chapters[section.ChapterID]; !ok {
		return fmt.Errorf("chapter %s: %w", section.ChapterID, domain.ErrNotFound)
	}
	for _, sec := range d.sections {
		if sec.ChapterID == section.ChapterID && sec.OrderIndex == section.OrderIndex {
			return orderConflict("section", section.OrderIndex)
		}
	}
	row := *section
	row.HTML = ""
	d.sections[section.ID] = row
	return nil
}

func (r *SectionRepository) GetByID(ctx context.Context, id string) (*models.Section, error) {
	defer r.store.lock(ctx)()
	sec, ok := r.store.data.sections[id]
	if !ok {
		return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	return &sec, nil
}

func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	defer r.store.lock(ctx)()
	d := r.store.data

	current, ok := d.sections[section.ID]
	if !ok {
		return fmt.Errorf("section %s: %w", section.ID, domain.ErrNotFound)
	}
	for id, sec := range d.sections {
		if id != section.ID && sec.ChapterID == current.ChapterID && sec.OrderIndex == section.OrderIndex {
			return orderConflict("section", section.OrderIndex)
		}
	}
	current.Title = section.Title
	current.OrderIndex = section.OrderIndex
	current.Markdown = section.Markdown
	current.UpdatedAt = section.UpdatedAt
	d.sections[section.ID] = current
	return nil
}

func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.sections[id]; !ok {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.data.sections, id)
	return nil
}

func (r *SectionRepository) NextOrderIndex(ctx context.Context, chapterID string) (int, error) {
	defer r.store.lock(ctx)()
	next := 0
	for _, sec := range r.store.data.sections {
		if sec.ChapterID == chapterID && sec.OrderIndex >= next {
			next = sec.OrderIndex + 1
		}
	}
	return next, nil
}
