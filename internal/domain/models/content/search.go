package content

import (
	"fmt"
	"math"
	"strings"
)

// ResultKind tells whether a hit matched article-level or section-level text.
type ResultKind string

const (
	ResultKindArticle ResultKind = "ARTICLE"
	ResultKindSection ResultKind = "SECTION"
)

// Default search configuration values
const (
	DefaultSearchPage = 0
	DefaultSearchSize = 20
	MaxSearchSize     = 100
)

// SearchOptions configures a search over published content
type SearchOptions struct {
	// Query is the raw user input; blank means "no input", not an error
	Query string

	// Pagination (zero-based page)
	Page int
	Size int
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	opts.Query = strings.TrimSpace(opts.Query)
	if opts.Size <= 0 {
		opts.Size = DefaultSearchSize
	}
	if opts.Page < 0 {
		opts.Page = DefaultSearchPage
	}
}

// Validate checks that paging values are reasonable
func (opts *SearchOptions) Validate() error {
	if opts.Size < 0 {
		return fmt.Errorf("size cannot be negative")
	}
	if opts.Size > MaxSearchSize {
		return fmt.Errorf("size cannot exceed %d (requested: %d)", MaxSearchSize, opts.Size)
	}
	if opts.Page < 0 {
		return fmt.Errorf("page cannot be negative")
	}
	if opts.Size > 0 && opts.Page > math.MaxInt32/opts.Size {
		return fmt.Errorf("page %d is out of range", opts.Page)
	}
	return nil
}

// Offset is the number of rows skipped before this page.
func (opts *SearchOptions) Offset() int {
	return opts.Page * opts.Size
}

// IsBlank reports whether there is nothing to search for.
func (opts *SearchOptions) IsBlank() bool {
	return strings.TrimSpace(opts.Query) == ""
}

// SearchHit is a raw ranked match as produced by the search storage.
// Body is the text the snippet is cut from.
type SearchHit struct {
	Kind  ResultKind
	ID    string
	Title string
	Slug  string // Always the parent article's slug
	Body  string
	Score float64
}

// SearchResult is a single ranked match returned to callers
type SearchResult struct {
	Kind    ResultKind `json:"kind"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Slug    string     `json:"slug"`
	Snippet string     `json:"snippet"`
	Score   float64    `json:"score"`
}

// SearchResults contains one page of results with pagination metadata
type SearchResults struct {
	Results []SearchResult `json:"results"`

	// TotalCount is the total number of matches regardless of paging
	TotalCount int `json:"total_count"`

	// HasMore indicates if there are more results beyond this page
	HasMore bool `json:"has_more"`

	Page int `json:"page"`
	Size int `json:"size"`
}

// NewSearchResults creates a SearchResults with calculated HasMore flag
func NewSearchResults(results []SearchResult, totalCount int, opts *SearchOptions) *SearchResults {
	if results == nil {
		results = []SearchResult{}
	}
	return &SearchResults{
		Results:    results,
		TotalCount: totalCount,
		HasMore:    opts.Offset()+len(results) < totalCount,
		Page:       opts.Page,
		Size:       opts.Size,
	}
}

// EmptySearchResults is the page returned for a blank query.
func EmptySearchResults(opts *SearchOptions) *SearchResults {
	return NewSearchResults(nil, 0, opts)
}
