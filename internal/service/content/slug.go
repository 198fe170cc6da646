package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"folio/internal/config"
	"folio/internal/domain"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"
)

// slugResolver implements the SlugResolver interface
type slugResolver struct {
	articleRepo contentRepo.ArticleRepository
	maxLength   int
	logger      *slog.Logger
}

// NewSlugResolver creates a resolver that checks candidates against stored articles
func NewSlugResolver(articleRepo contentRepo.ArticleRepository, logger *slog.Logger) contentSvc.SlugResolver {
	return &slugResolver{
		articleRepo: articleRepo,
		maxLength:   config.MaxSlugLength,
		logger:      logger,
	}
}

// Resolve returns the first free candidate among base, base-2, base-3, ...
// The base is shortened so that base plus suffix stays within the limit.
func (r *slugResolver) Resolve(ctx context.Context, provided, title, excludeID string) (string, error) {
	base, err := baseSlug(provided, title)
	if err != nil {
		return "", err
	}
	base = truncateSlug(base, r.maxLength)

	candidate := base
	for n := 2; ; n++ {
		existing, err := r.articleRepo.GetBySlug(ctx, candidate)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return candidate, nil
			}
			return "", fmt.Errorf("lookup slug %q: %w", candidate, err)
		}
		if excludeID != "" && existing.ID == excludeID {
			return candidate, nil
		}

		suffix := "-" + strconv.Itoa(n)
		candidate = truncateSlug(base, r.maxLength-len(suffix)) + suffix
		r.logger.Debug("slug taken, trying next", "taken", existing.Slug, "candidate", candidate)
	}
}

// baseSlug picks and validates the candidate before uniqueness is checked
func baseSlug(provided, title string) (string, error) {
	var base string
	switch {
	case strings.TrimSpace(provided) != "":
		base = strings.ToLower(strings.TrimSpace(provided))
	case strings.TrimSpace(title) != "":
		base = Slugify(title)
	default:
		return "", &domain.ValidationError{Field: "slug", Message: "slug or title must be provided"}
	}

	if !IsValidSlug(base) {
		return "", &domain.ValidationError{Field: "slug", Message: fmt.Sprintf("invalid slug %q", base)}
	}
	return base, nil
}
