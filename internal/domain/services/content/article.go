package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// ArticleService handles article lifecycle and content editing
type ArticleService interface {
	// CreateArticle creates a DRAFT article at version 1 with a resolved slug
	CreateArticle(ctx context.Context, req *CreateArticleRequest) (*content.Article, error)

	// GetArticle retrieves an article with its full tree (admin view)
	GetArticle(ctx context.Context, articleID string) (*content.Article, error)

	// UpdateArticle changes draft metadata; rejected once published
	UpdateArticle(ctx context.Context, articleID string, req *UpdateArticleRequest) (*content.Article, error)

	// ReplaceContent reconciles the chapter/section tree and tags wholesale
	ReplaceContent(ctx context.Context, articleID string, req *ReplaceContentRequest) (*content.Article, error)

	// DeleteArticle removes the article, its tree and its revisions
	DeleteArticle(ctx context.Context, articleID string) error

	// ListArticles pages through articles (summary depth)
	ListArticles(ctx context.Context, req *ListArticlesRequest) (*content.ArticlePage, error)

	// GetPublishedBySlug is the public read of a published article
	GetPublishedBySlug(ctx context.Context, slug string) (*content.Article, error)

	// GetTableOfContents is the public outline of a published article
	GetTableOfContents(ctx context.Context, articleID string) (*content.TableOfContents, error)
}

// SlugResolver derives unique URL-safe article slugs
type SlugResolver interface {
	// Resolve uses provided when non-empty, title otherwise. excludeID is the
	// article being updated, or empty on create.
	Resolve(ctx context.Context, provided, title, excludeID string) (string, error)
}

// TagResolver turns free-text tag names into stored tags
type TagResolver interface {
	ResolveTags(ctx context.Context, names []string) ([]content.Tag, error)
}

// OptionalText tracks tri-state semantics for nullable fields (RFC 7396 PATCH).
// This is transport-agnostic - handlers map from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalText struct {
	Present bool
	Value   *string
}

// CreateArticleRequest represents an article creation request
type CreateArticleRequest struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug,omitempty"` // Derived from title when empty
	Summary       *string  `json:"summary,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CreatedBy     string   `json:"-"` // Set by handler from auth context, not from request body
}

// UpdateArticleRequest represents a partial metadata update
type UpdateArticleRequest struct {
	Title         *string
	Slug          *string
	Summary       OptionalText
	CoverImageURL OptionalText
	Tags          []string // nil = don't change, empty = clear
}

// ReplaceContentRequest is the desired article tree. Position in the slices
// is the order index. Children with an ID keep their identity; children
// without one are created.
type ReplaceContentRequest struct {
	Chapters []ChapterInput `json:"chapters"`
	Tags     []string       `json:"tags"`
}

type ChapterInput struct {
	ID       string         `json:"id,omitempty"`
	Title    string         `json:"title"`
	Sections []SectionInput `json:"sections"`
}

type SectionInput struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Format   string `json:"format,omitempty"` // "markdown" (default) or "html"
}

// ListArticlesRequest represents a paged listing request
type ListArticlesRequest struct {
	Status string // "", "DRAFT", "PUBLISHED" or "ALL"; public callers are forced to PUBLISHED
	Query  string // Case-insensitive title substring
	Limit  int
	Offset int
}
