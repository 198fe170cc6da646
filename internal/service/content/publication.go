package content

import (
	"context"
	"log/slog"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	"folio/internal/domain/repositories"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"

	"github.com/google/uuid"
)

// publicationService implements the PublicationService interface
type publicationService struct {
	articleRepo  contentRepo.ArticleRepository
	revisionRepo contentRepo.RevisionRepository
	txManager    repositories.TransactionManager
	codec        contentSvc.SnapshotCodec
	logger       *slog.Logger
}

// NewPublicationService creates a new publication service
func NewPublicationService(
	articleRepo contentRepo.ArticleRepository,
	revisionRepo contentRepo.RevisionRepository,
	txManager repositories.TransactionManager,
	codec contentSvc.SnapshotCodec,
	logger *slog.Logger,
) contentSvc.PublicationService {
	return &publicationService{
		articleRepo:  articleRepo,
		revisionRepo: revisionRepo,
		txManager:    txManager,
		codec:        codec,
		logger:       logger,
	}
}

// Publish moves a DRAFT article to PUBLISHED. Only drafts can be published;
// re-publishing goes through Unpublish first and yields a new revision.
//
// The row lock serializes publishes of the same article, and the version
// compare-and-swap plus the unique (article, version) revision key turn any
// race that slips through into a ConflictError. Nothing is visible unless
// both the revision and the article update commit.
func (s *publicationService) Publish(ctx context.Context, articleID string) (*models.Article, error) {
	var published *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.articleRepo.LockByID(txCtx, articleID); err != nil {
			return err
		}
		article, err := s.articleRepo.GetDetailed(txCtx, articleID)
		if err != nil {
			return err
		}
		if article.Status != models.StatusDraft {
			return &domain.ConflictError{
				Message:      "article is already published",
				ResourceType: "article",
				ResourceID:   article.ID,
			}
		}

		taken, err := s.articleRepo.ExistsPublishedWithSlug(txCtx, article.Slug, article.ID)
		if err != nil {
			return err
		}
		if taken {
			return &domain.ConflictError{
				Message:      "another published article uses slug '" + article.Slug + "'",
				ResourceType: "article",
				ResourceID:   article.ID,
			}
		}

		previousVersion := article.Version
		now := time.Now()
		article.Version = previousVersion + 1
		article.Status = models.StatusPublished
		article.UpdatedAt = now

		snapshot, err := s.codec.Encode(article)
		if err != nil {
			return err
		}

		revision := &models.Revision{
			ID:        uuid.NewString(),
			ArticleID: article.ID,
			Version:   article.Version,
			Snapshot:  snapshot,
			CreatedAt: now,
		}
		if err := s.revisionRepo.Create(txCtx, revision); err != nil {
			return err
		}
		if err := s.articleRepo.Update(txCtx, article, previousVersion); err != nil {
			return err
		}

		published = article
		return nil
	})
	if err != nil {
		s.logger.Warn("publish failed", "id", articleID, "error", err)
		return nil, err
	}

	s.logger.Info("article published",
		"id", published.ID,
		"slug", published.Slug,
		"version", published.Version,
	)
	return published, nil
}

// Unpublish moves the article back to DRAFT. Version and revisions are kept;
// unpublishing a draft changes nothing.
func (s *publicationService) Unpublish(ctx context.Context, articleID string) (*models.Article, error) {
	changed := false
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		article, err := s.articleRepo.LockByID(txCtx, articleID)
		if err != nil {
			return err
		}
		if article.Status == models.StatusDraft {
			return nil
		}

		article.Status = models.StatusDraft
		article.UpdatedAt = time.Now()
		if err := s.articleRepo.Update(txCtx, article, article.Version); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("article unpublished", "id", articleID)
	}
	return s.articleRepo.GetDetailed(ctx, articleID)
}

// ListRevisions returns the article's revisions in version order
func (s *publicationService) ListRevisions(ctx context.Context, articleID string) ([]models.Revision, error) {
	if _, err := s.articleRepo.GetSummary(ctx, articleID); err != nil {
		return nil, err
	}
	return s.revisionRepo.ListByArticle(ctx, articleID)
}

// GetRevision returns one revision with its snapshot decoded
func (s *publicationService) GetRevision(ctx context.Context, articleID string, version int) (*models.RevisionDetail, error) {
	if version < 1 {
		return nil, &domain.ValidationError{Field: "version", Message: "version must be positive"}
	}

	rev, err := s.revisionRepo.Get(ctx, articleID, version)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.codec.Decode(rev.Snapshot)
	if err != nil {
		s.logger.Error("stored snapshot unreadable", "article_id", articleID, "version", version, "error", err)
		return nil, err
	}

	return &models.RevisionDetail{
		ID:        rev.ID,
		ArticleID: rev.ArticleID,
		Version:   rev.Version,
		CreatedAt: rev.CreatedAt,
		Snapshot:  snapshot,
	}, nil
}
