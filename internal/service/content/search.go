package content

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"
)

// searchService implements the SearchService interface
type searchService struct {
	searchRepo contentRepo.SearchRepository
	logger     *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(searchRepo contentRepo.SearchRepository, logger *slog.Logger) contentSvc.SearchService {
	return &searchService{searchRepo: searchRepo, logger: logger}
}

// Search ranks published articles and sections. A blank query is "no input"
// and returns an empty page without touching storage.
func (s *searchService) Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	opts.ApplyDefaults()
	if opts.IsBlank() {
		return models.EmptySearchResults(opts), nil
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hits, total, err := s.searchRepo.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]models.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.SearchResult{
			Kind:    hit.Kind,
			ID:      hit.ID,
			Title:   hit.Title,
			Slug:    hit.Slug,
			Snippet: BuildSnippet(hit.Body, opts.Query),
			Score:   hit.Score,
		})
	}

	s.logger.Debug("search completed",
		"query", opts.Query,
		"results", len(results),
		"total", total,
	)

	return models.NewSearchResults(results, total, opts), nil
}
