package content

import (
	"fmt"
	"strings"

	"folio/internal/config"
	"folio/internal/domain"
	contentSvc "folio/internal/domain/services/content"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

var (
	titleRules   = []validation.Rule{validation.Required, validation.Length(1, config.MaxTitleLength)}
	summaryRules = []validation.Rule{validation.Length(0, config.MaxSummaryLength)}
	coverRules   = []validation.Rule{validation.Length(0, 2048), validation.By(coverLocation)}
	formatRules  = []validation.Rule{validation.In(formatMarkdown, formatHTML).Error("must be markdown or html")}
	bodyRules    = []validation.Rule{validation.Length(0, config.MaxMarkdownLength)}
	orderRules   = []validation.Rule{validation.Min(0)}
)

// coverLocation accepts absolute URLs and rooted paths, which is what the
// upload endpoint hands back
func coverLocation(value interface{}) error {
	v, isNil := validation.Indirect(value)
	s, ok := v.(string)
	if isNil || !ok || s == "" || strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return nil
	}
	return is.URL.Validate(s)
}

// invalid wraps an ozzo-validation error the way the rest of the service
// layer reports caller mistakes
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func validateCreateArticle(req *contentSvc.CreateArticleRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, titleRules...),
		validation.Field(&req.Slug, validation.Length(0, config.MaxSlugLength)),
		validation.Field(&req.Summary, summaryRules...),
		validation.Field(&req.CoverImageURL, coverRules...),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagsPerArticle)),
	))
}

func validateUpdateArticle(req *contentSvc.UpdateArticleRequest) error {
	if req.Title != nil {
		if err := validation.Validate(strings.TrimSpace(*req.Title), titleRules...); err != nil {
			return invalid(validation.Errors{"title": err})
		}
	}
	if req.Slug != nil {
		if err := validation.Validate(*req.Slug, validation.Length(0, config.MaxSlugLength)); err != nil {
			return invalid(validation.Errors{"slug": err})
		}
	}
	if req.Summary.Present && req.Summary.Value != nil {
		if err := validation.Validate(*req.Summary.Value, summaryRules...); err != nil {
			return invalid(validation.Errors{"summary": err})
		}
	}
	if req.CoverImageURL.Present && req.CoverImageURL.Value != nil {
		if err := validation.Validate(*req.CoverImageURL.Value, coverRules...); err != nil {
			return invalid(validation.Errors{"cover_image_url": err})
		}
	}
	return invalid(validation.Validate(req.Tags, validation.Length(0, config.MaxTagsPerArticle)))
}

func validateReplaceContent(req *contentSvc.ReplaceContentRequest) error {
	for ci := range req.Chapters {
		ch := &req.Chapters[ci]
		err := validation.ValidateStruct(ch,
			validation.Field(&ch.Title, titleRules...),
		)
		if err != nil {
			return invalid(fmt.Errorf("chapters[%d]: %w", ci, err))
		}
		for si := range ch.Sections {
			sec := &ch.Sections[si]
			err := validation.ValidateStruct(sec,
				validation.Field(&sec.Title, titleRules...),
				validation.Field(&sec.Markdown, bodyRules...),
				validation.Field(&sec.Format, formatRules...),
			)
			if err != nil {
				return invalid(fmt.Errorf("chapters[%d].sections[%d]: %w", ci, si, err))
			}
		}
	}
	return invalid(validation.Validate(req.Tags, validation.Length(0, config.MaxTagsPerArticle)))
}

func validateCreateChapter(req *contentSvc.CreateChapterRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, titleRules...),
		validation.Field(&req.OrderIndex, orderRules...),
	))
}

func validateUpdateChapter(req *contentSvc.UpdateChapterRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.OrderIndex, orderRules...),
	))
}

func validateCreateSection(req *contentSvc.CreateSectionRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, titleRules...),
		validation.Field(&req.Markdown, bodyRules...),
		validation.Field(&req.Format, formatRules...),
		validation.Field(&req.OrderIndex, orderRules...),
	))
}

func validateUpdateSection(req *contentSvc.UpdateSectionRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Markdown, bodyRules...),
		validation.Field(&req.Format, formatRules...),
		validation.Field(&req.OrderIndex, orderRules...),
	))
}
