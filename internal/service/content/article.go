package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	"folio/internal/domain/repositories"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"

	"github.com/google/uuid"
)

// articleService implements the ArticleService interface
type articleService struct {
	articleRepo  contentRepo.ArticleRepository
	txManager    repositories.TransactionManager
	slugResolver contentSvc.SlugResolver
	tagResolver  contentSvc.TagResolver
	importer     contentSvc.HTMLImporter
	renderer     contentSvc.Renderer
	logger       *slog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(
	articleRepo contentRepo.ArticleRepository,
	txManager repositories.TransactionManager,
	slugResolver contentSvc.SlugResolver,
	tagResolver contentSvc.TagResolver,
	importer contentSvc.HTMLImporter,
	renderer contentSvc.Renderer,
	logger *slog.Logger,
) contentSvc.ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		txManager:    txManager,
		slugResolver: slugResolver,
		tagResolver:  tagResolver,
		importer:     importer,
		renderer:     renderer,
		logger:       logger,
	}
}

// CreateArticle creates a DRAFT article at version 1
func (s *articleService) CreateArticle(ctx context.Context, req *contentSvc.CreateArticleRequest) (*models.Article, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateCreateArticle(req); err != nil {
		return nil, err
	}

	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		slug, err := s.slugResolver.Resolve(txCtx, req.Slug, req.Title, "")
		if err != nil {
			return err
		}
		tags, err := s.tagResolver.ResolveTags(txCtx, req.Tags)
		if err != nil {
			return err
		}

		now := time.Now()
		article = &models.Article{
			ID:            uuid.NewString(),
			Title:         req.Title,
			Slug:          slug,
			Summary:       trimmedOrNil(req.Summary),
			CoverImageURL: trimmedOrNil(req.CoverImageURL),
			Status:        models.StatusDraft,
			Version:       models.InitialVersion,
			CreatedBy:     req.CreatedBy,
			Tags:          tags,
			Chapters:      []models.Chapter{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return s.articleRepo.Create(txCtx, article)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		"id", article.ID,
		"slug", article.Slug,
		"created_by", article.CreatedBy,
	)
	return article, nil
}

// GetArticle retrieves an article with its full tree
func (s *articleService) GetArticle(ctx context.Context, articleID string) (*models.Article, error) {
	return s.articleRepo.GetDetailed(ctx, articleID)
}

// UpdateArticle changes metadata and tags of a draft. The slug only changes
// when one is supplied explicitly.
func (s *articleService) UpdateArticle(ctx context.Context, articleID string, req *contentSvc.UpdateArticleRequest) (*models.Article, error) {
	if err := validateUpdateArticle(req); err != nil {
		return nil, err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		article, err := lockDraft(txCtx, s.articleRepo, articleID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			article.Title = strings.TrimSpace(*req.Title)
		}
		if req.Slug != nil {
			slug, err := s.slugResolver.Resolve(txCtx, *req.Slug, article.Title, article.ID)
			if err != nil {
				return err
			}
			article.Slug = slug
		}
		if req.Summary.Present {
			article.Summary = trimmedOrNil(req.Summary.Value)
		}
		if req.CoverImageURL.Present {
			article.CoverImageURL = trimmedOrNil(req.CoverImageURL.Value)
		}
		article.UpdatedAt = time.Now()

		if err := s.articleRepo.Update(txCtx, article, article.Version); err != nil {
			return err
		}

		if req.Tags != nil {
			tags, err := s.tagResolver.ResolveTags(txCtx, req.Tags)
			if err != nil {
				return err
			}
			links, unlinks := diffTags(article.Tags, tags)
			if len(links) > 0 || len(unlinks) > 0 {
				diff := &models.TreeDiff{ArticleID: article.ID, TagLinks: links, TagUnlinks: unlinks}
				if err := s.articleRepo.ApplyTreeDiff(txCtx, diff); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article updated", "id", articleID)
	return s.articleRepo.GetDetailed(ctx, articleID)
}

// ReplaceContent reconciles the chapter/section tree (and tags, when given)
// with the request. Children keep their ids when referenced.
func (s *articleService) ReplaceContent(ctx context.Context, articleID string, req *contentSvc.ReplaceContentRequest) (*models.Article, error) {
	if err := validateReplaceContent(req); err != nil {
		return nil, err
	}

	desired := make([]desiredChapter, 0, len(req.Chapters))
	for _, ch := range req.Chapters {
		dc := desiredChapter{ID: ch.ID, Title: strings.TrimSpace(ch.Title)}
		for _, sec := range ch.Sections {
			markdown, err := bodyToMarkdown(s.importer, sec.Format, sec.Markdown)
			if err != nil {
				return nil, err
			}
			dc.Sections = append(dc.Sections, desiredSection{
				ID:       sec.ID,
				Title:    strings.TrimSpace(sec.Title),
				Markdown: markdown,
			})
		}
		desired = append(desired, dc)
	}

	var diff *models.TreeDiff
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := lockDraft(txCtx, s.articleRepo, articleID); err != nil {
			return err
		}
		current, err := s.articleRepo.GetDetailed(txCtx, articleID)
		if err != nil {
			return err
		}

		var tags []models.Tag
		if req.Tags != nil {
			if tags, err = s.tagResolver.ResolveTags(txCtx, req.Tags); err != nil {
				return err
			}
		}

		diff, err = buildTreeDiff(current, desired, tags, uuid.NewString)
		if err != nil {
			return err
		}
		if diff.IsEmpty() {
			return nil
		}
		return s.articleRepo.ApplyTreeDiff(txCtx, diff)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article content replaced",
		"id", articleID,
		"chapters_inserted", len(diff.ChapterInserts),
		"chapters_updated", len(diff.ChapterUpdates),
		"chapters_deleted", len(diff.ChapterDeletes),
		"sections_inserted", len(diff.SectionInserts),
		"sections_updated", len(diff.SectionUpdates),
		"sections_deleted", len(diff.SectionDeletes),
	)
	return s.articleRepo.GetDetailed(ctx, articleID)
}

// DeleteArticle removes the article with its tree and revisions
func (s *articleService) DeleteArticle(ctx context.Context, articleID string) error {
	if err := s.articleRepo.Delete(ctx, articleID); err != nil {
		return err
	}
	s.logger.Info("article deleted", "id", articleID)
	return nil
}

// ListArticles pages through articles; status defaults to PUBLISHED
func (s *articleService) ListArticles(ctx context.Context, req *contentSvc.ListArticlesRequest) (*models.ArticlePage, error) {
	filter := &models.ArticleFilter{
		TitleQuery: strings.TrimSpace(req.Query),
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	switch status := strings.ToUpper(strings.TrimSpace(req.Status)); status {
	case "":
		published := models.StatusPublished
		filter.Status = &published
	case "ALL":
		filter.Status = nil
	default:
		st := models.ArticleStatus(status)
		if !st.Valid() {
			return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", req.Status)}
		}
		filter.Status = &st
	}

	if filter.Limit <= 0 {
		filter.Limit = config.DefaultPageSize
	}
	if filter.Limit > config.MaxPageSize {
		return nil, &domain.ValidationError{Field: "limit", Message: fmt.Sprintf("limit cannot exceed %d", config.MaxPageSize)}
	}
	if filter.Offset < 0 {
		return nil, &domain.ValidationError{Field: "offset", Message: "offset cannot be negative"}
	}

	return s.articleRepo.List(ctx, filter)
}

// GetPublishedBySlug returns a published article with rendered section HTML
func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !IsValidSlug(slug) {
		return nil, fmt.Errorf("article %s: %w", slug, domain.ErrNotFound)
	}

	article, err := s.articleRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	for ci := range article.Chapters {
		sections := article.Chapters[ci].Sections
		for si := range sections {
			html, err := s.renderer.RenderMarkdown(sections[si].Markdown)
			if err != nil {
				return nil, &domain.InternalError{Message: "render section", Err: err}
			}
			sections[si].HTML = html
		}
	}
	return article, nil
}

// GetTableOfContents returns the outline of a published article
func (s *articleService) GetTableOfContents(ctx context.Context, articleID string) (*models.TableOfContents, error) {
	article, err := s.articleRepo.GetDetailed(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished() {
		return nil, fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	return models.BuildTableOfContents(article), nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
