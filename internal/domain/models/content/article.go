package content

import (
	"time"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusPublished ArticleStatus = "PUBLISHED"
)

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// InitialVersion is the version of a freshly created draft.
const InitialVersion = 1

type Article struct {
	ID            string        `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Slug          string        `json:"slug" db:"slug"`
	Summary       *string       `json:"summary,omitempty" db:"summary"`
	CoverImageURL *string       `json:"cover_image_url,omitempty" db:"cover_image_url"`
	Status        ArticleStatus `json:"status" db:"status"`
	Version       int           `json:"version" db:"version"`
	CreatedBy     string        `json:"created_by" db:"created_by"`
	Tags          []Tag         `json:"tags"`
	Chapters      []Chapter     `json:"chapters,omitempty"` // Only populated on detailed reads
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPublished reports whether the article structure is frozen.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

type Chapter struct {
	ID         string    `json:"id" db:"id"`
	ArticleID  string    `json:"article_id" db:"article_id"`
	Title      string    `json:"title" db:"title"`
	OrderIndex int       `json:"order_index" db:"order_index"`
	Sections   []Section `json:"sections"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Section struct {
	ID         string    `json:"id" db:"id"`
	ChapterID  string    `json:"chapter_id" db:"chapter_id"`
	Title      string    `json:"title" db:"title"`
	OrderIndex int       `json:"order_index" db:"order_index"`
	Markdown   string    `json:"markdown" db:"markdown"`
	HTML       string    `json:"html,omitempty"` // Rendered on public reads, never stored
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Tag struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	Status     *ArticleStatus // nil = any status
	TitleQuery string         // Case-insensitive substring match on title
	Limit      int
	Offset     int
}

// ArticlePage is one page of an article listing (summary depth).
type ArticlePage struct {
	Articles   []Article `json:"articles"`
	TotalCount int       `json:"total_count"`
	HasMore    bool      `json:"has_more"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

// NewArticlePage creates an ArticlePage with calculated HasMore flag
func NewArticlePage(articles []Article, totalCount int, filter *ArticleFilter) *ArticlePage {
	if articles == nil {
		articles = []Article{}
	}
	return &ArticlePage{
		Articles:   articles,
		TotalCount: totalCount,
		HasMore:    filter.Offset+len(articles) < totalCount,
		Offset:     filter.Offset,
		Limit:      filter.Limit,
	}
}
