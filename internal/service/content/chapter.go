package content

import (
	"context"
	"log/slog"
	"strings"
	"time"

	models "folio/internal/domain/models/content"
	"folio/internal/domain/repositories"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"

	"github.com/google/uuid"
)

// chapterService implements the ChapterService interface
type chapterService struct {
	articleRepo contentRepo.ArticleRepository
	chapterRepo contentRepo.ChapterRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewChapterService creates a new chapter service
func NewChapterService(
	articleRepo contentRepo.ArticleRepository,
	chapterRepo contentRepo.ChapterRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) contentSvc.ChapterService {
	return &chapterService{
		articleRepo: articleRepo,
		chapterRepo: chapterRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateChapter appends a chapter to a draft article
func (s *chapterService) CreateChapter(ctx context.Context, articleID string, req *contentSvc.CreateChapterRequest) (*models.Chapter, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateCreateChapter(req); err != nil {
		return nil, err
	}

	var chapter *models.Chapter
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := lockDraft(txCtx, s.articleRepo, articleID); err != nil {
			return err
		}

		orderIndex, err := s.orderIndex(txCtx, articleID, req.OrderIndex)
		if err != nil {
			return err
		}

		now := time.Now()
		chapter = &models.Chapter{
			ID:         uuid.NewString(),
			ArticleID:  articleID,
			Title:      req.Title,
			OrderIndex: orderIndex,
			Sections:   []models.Section{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.chapterRepo.Create(txCtx, chapter)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chapter created",
		"id", chapter.ID,
		"article_id", articleID,
		"order_index", chapter.OrderIndex,
	)
	return chapter, nil
}

// UpdateChapter renames or moves a chapter of a draft article
func (s *chapterService) UpdateChapter(ctx context.Context, chapterID string, req *contentSvc.UpdateChapterRequest) (*models.Chapter, error) {
	if err := validateUpdateChapter(req); err != nil {
		return nil, err
	}

	var chapter *models.Chapter
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		ch, err := s.chapterRepo.GetByID(txCtx, chapterID)
		if err != nil {
			return err
		}
		if _, err := lockDraft(txCtx, s.articleRepo, ch.ArticleID); err != nil {
			return err
		}

		if req.Title != nil {
			ch.Title = strings.TrimSpace(*req.Title)
		}
		if req.OrderIndex != nil {
			ch.OrderIndex = *req.OrderIndex
		}
		ch.UpdatedAt = time.Now()
		if err := s.chapterRepo.Update(txCtx, ch); err != nil {
			return err
		}
		chapter = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chapter updated", "id", chapterID)
	return chapter, nil
}

// DeleteChapter removes a chapter and its sections from a draft article
func (s *chapterService) DeleteChapter(ctx context.Context, chapterID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		ch, err := s.chapterRepo.GetByID(txCtx, chapterID)
		if err != nil {
			return err
		}
		if _, err := lockDraft(txCtx, s.articleRepo, ch.ArticleID); err != nil {
			return err
		}
		return s.chapterRepo.Delete(txCtx, chapterID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("chapter deleted", "id", chapterID)
	return nil
}

func (s *chapterService) orderIndex(ctx context.Context, articleID string, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	return s.chapterRepo.NextOrderIndex(ctx, articleID)
}
