package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"folio/internal/config"
	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"
)

// tagResolver implements the TagResolver interface
type tagResolver struct {
	tagRepo contentRepo.TagRepository
	logger  *slog.Logger
}

// NewTagResolver creates a new tag resolver
func NewTagResolver(tagRepo contentRepo.TagRepository, logger *slog.Logger) contentSvc.TagResolver {
	return &tagResolver{tagRepo: tagRepo, logger: logger}
}

// ResolveTags trims names, drops blanks, dedupes by slug keeping the first
// spelling, and looks up or creates each tag. Output order is first-seen order.
func (r *tagResolver) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	wanted := make([]models.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		slug := truncateSlug(Slugify(name), config.MaxSlugLength)
		if !IsValidSlug(slug) {
			return nil, &domain.ValidationError{Field: "tags", Message: fmt.Sprintf("tag %q has no usable characters", name)}
		}
		if seen[slug] {
			continue
		}
		seen[slug] = true
		wanted = append(wanted, models.Tag{Name: name, Slug: slug})
	}

	if len(wanted) > config.MaxTagsPerArticle {
		return nil, &domain.ValidationError{
			Field:   "tags",
			Message: fmt.Sprintf("at most %d tags allowed (got %d)", config.MaxTagsPerArticle, len(wanted)),
		}
	}

	for i := range wanted {
		if err := r.tagRepo.Upsert(ctx, &wanted[i]); err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", wanted[i].Slug, err)
		}
	}
	return wanted, nil
}
