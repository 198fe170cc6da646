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

// sectionService implements the SectionService interface
type sectionService struct {
	articleRepo contentRepo.ArticleRepository
	chapterRepo contentRepo.ChapterRepository
	sectionRepo contentRepo.SectionRepository
	txManager   repositories.TransactionManager
	importer    contentSvc.HTMLImporter
	logger      *slog.Logger
}

// NewSectionService creates a new section service
func NewSectionService(
	articleRepo contentRepo.ArticleRepository,
	chapterRepo contentRepo.ChapterRepository,
	sectionRepo contentRepo.SectionRepository,
	txManager repositories.TransactionManager,
	importer contentSvc.HTMLImporter,
	logger *slog.Logger,
) contentSvc.SectionService {
	return &sectionService{
		articleRepo: articleRepo,
		chapterRepo: chapterRepo,
		sectionRepo: sectionRepo,
		txManager:   txManager,
		importer:    importer,
		logger:      logger,
	}
}

// CreateSection appends a section to a chapter of a draft article
func (s *sectionService) CreateSection(ctx context.Context, chapterID string, req *contentSvc.CreateSectionRequest) (*models.Section, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateCreateSection(req); err != nil {
		return nil, err
	}
	markdown, err := bodyToMarkdown(s.importer, req.Format, req.Markdown)
	if err != nil {
		return nil, err
	}

	var section *models.Section
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lockChapter(txCtx, chapterID); err != nil {
			return err
		}

		orderIndex := 0
		if req.OrderIndex != nil {
			orderIndex = *req.OrderIndex
		} else if orderIndex, err = s.sectionRepo.NextOrderIndex(txCtx, chapterID); err != nil {
			return err
		}

		now := time.Now()
		section = &models.Section{
			ID:         uuid.NewString(),
			ChapterID:  chapterID,
			Title:      req.Title,
			OrderIndex: orderIndex,
			Markdown:   markdown,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.sectionRepo.Create(txCtx, section)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("section created",
		"id", section.ID,
		"chapter_id", chapterID,
		"order_index", section.OrderIndex,
	)
	return section, nil
}

// UpdateSection edits a section of a draft article
func (s *sectionService) UpdateSection(ctx context.Context, sectionID string, req *contentSvc.UpdateSectionRequest) (*models.Section, error) {
	if err := validateUpdateSection(req); err != nil {
		return nil, err
	}
	var markdown *string
	if req.Markdown != nil {
		converted, err := bodyToMarkdown(s.importer, req.Format, *req.Markdown)
		if err != nil {
			return nil, err
		}
		markdown = &converted
	}

	var section *models.Section
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		sec, err := s.sectionRepo.GetByID(txCtx, sectionID)
		if err != nil {
			return err
		}
		if _, err := s.lockChapter(txCtx, sec.ChapterID); err != nil {
			return err
		}

		if req.Title != nil {
			sec.Title = strings.TrimSpace(*req.Title)
		}
		if req.OrderIndex != nil {
			sec.OrderIndex = *req.OrderIndex
		}
		if markdown != nil {
			sec.Markdown = *markdown
		}
		sec.UpdatedAt = time.Now()
		if err := s.sectionRepo.Update(txCtx, sec); err != nil {
			return err
		}
		section = sec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("section updated", "id", sectionID)
	return section, nil
}

// DeleteSection removes a section from a draft article
func (s *sectionService) DeleteSection(ctx context.Context, sectionID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		sec, err := s.sectionRepo.GetByID(txCtx, sectionID)
		if err != nil {
			return err
		}
		if _, err := s.lockChapter(txCtx, sec.ChapterID); err != nil {
			return err
		}
		return s.sectionRepo.Delete(txCtx, sectionID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("section deleted", "id", sectionID)
	return nil
}

// lockChapter resolves the owning article of a chapter and locks it as a draft
func (s *sectionService) lockChapter(ctx context.Context, chapterID string) (*models.Chapter, error) {
	ch, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := lockDraft(ctx, s.articleRepo, ch.ArticleID); err != nil {
		return nil, err
	}
	return ch, nil
}
