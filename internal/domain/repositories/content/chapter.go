package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// ChapterRepository defines data access operations for chapters
type ChapterRepository interface {
	Create(ctx context.Context, chapter *content.Chapter) error

	// GetByID retrieves a chapter without its sections
	GetByID(ctx context.Context, id string) (*content.Chapter, error)

	// Update persists title and order index
	Update(ctx context.Context, chapter *content.Chapter) error

	// Delete removes the chapter and its sections
	Delete(ctx context.Context, id string) error

	// NextOrderIndex returns one past the highest order index in the article
	NextOrderIndex(ctx context.Context, articleID string) (int, error)
}

// SectionRepository defines data access operations for sections
type SectionRepository interface {
	Create(ctx context.Context, section *content.Section) error

	GetByID(ctx context.Context, id string) (*content.Section, error)

	// Update persists title, order index and markdown
	Update(ctx context.Context, section *content.Section) error

	Delete(ctx context.Context, id string) error

	// NextOrderIndex returns one past the highest order index in the chapter
	NextOrderIndex(ctx context.Context, chapterID string) (int, error)
}
