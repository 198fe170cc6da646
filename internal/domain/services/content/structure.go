package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// ChapterService edits chapters of draft articles
type ChapterService interface {
	CreateChapter(ctx context.Context, articleID string, req *CreateChapterRequest) (*content.Chapter, error)
	UpdateChapter(ctx context.Context, chapterID string, req *UpdateChapterRequest) (*content.Chapter, error)
	DeleteChapter(ctx context.Context, chapterID string) error
}

// SectionService edits sections of draft articles
type SectionService interface {
	CreateSection(ctx context.Context, chapterID string, req *CreateSectionRequest) (*content.Section, error)
	UpdateSection(ctx context.Context, sectionID string, req *UpdateSectionRequest) (*content.Section, error)
	DeleteSection(ctx context.Context, sectionID string) error
}

// CreateChapterRequest appends a chapter unless OrderIndex is given
type CreateChapterRequest struct {
	Title      string `json:"title"`
	OrderIndex *int   `json:"order_index,omitempty"`
}

type UpdateChapterRequest struct {
	Title      *string `json:"title,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty"`
}

// CreateSectionRequest appends a section unless OrderIndex is given
type CreateSectionRequest struct {
	Title      string `json:"title"`
	Markdown   string `json:"markdown"`
	Format     string `json:"format,omitempty"` // "markdown" (default) or "html"
	OrderIndex *int   `json:"order_index,omitempty"`
}

type UpdateSectionRequest struct {
	Title      *string `json:"title,omitempty"`
	Markdown   *string `json:"markdown,omitempty"`
	Format     string  `json:"format,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty"`
}
