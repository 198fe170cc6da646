package content

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"folio/internal/domain/repositories"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"
	"folio/internal/repository/memory"
	"folio/internal/service/content/converter"
	"folio/internal/service/content/render"

	"github.com/stretchr/testify/require"
)

// testEnv wires the content services over a fresh in-memory store
type testEnv struct {
	articleRepo  contentRepo.ArticleRepository
	revisionRepo contentRepo.RevisionRepository
	txManager    repositories.TransactionManager

	articles    contentSvc.ArticleService
	chapters    contentSvc.ChapterService
	sections    contentSvc.SectionService
	publication contentSvc.PublicationService
	search      contentSvc.SearchService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCodec(t, NewSnapshotCodec())
}

func newTestEnvWithCodec(t *testing.T, codec contentSvc.SnapshotCodec) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)

	articleRepo := memory.NewArticleRepository(store)
	chapterRepo := memory.NewChapterRepository(store)
	sectionRepo := memory.NewSectionRepository(store)
	revisionRepo := memory.NewRevisionRepository(store)
	txManager := memory.NewTransactionManager(store)
	importer := converter.NewHTMLConverter()

	return &testEnv{
		articleRepo:  articleRepo,
		revisionRepo: revisionRepo,
		txManager:    txManager,
		articles: NewArticleService(
			articleRepo,
			txManager,
			NewSlugResolver(articleRepo, logger),
			NewTagResolver(memory.NewTagRepository(store), logger),
			importer,
			render.NewMarkdownRenderer(),
			logger,
		),
		chapters:    NewChapterService(articleRepo, chapterRepo, txManager, logger),
		sections:    NewSectionService(articleRepo, chapterRepo, sectionRepo, txManager, importer, logger),
		publication: NewPublicationService(articleRepo, revisionRepo, txManager, codec, logger),
		search:      NewSearchService(memory.NewSearchRepository(store), logger),
	}
}

// createArticle creates a draft with one chapter holding the given sections
func (e *testEnv) createArticle(t *testing.T, title string, sections ...contentSvc.SectionInput) string {
	t.Helper()
	ctx := context.Background()

	article, err := e.articles.CreateArticle(ctx, &contentSvc.CreateArticleRequest{Title: title, CreatedBy: "author-1"})
	require.NoError(t, err)

	if len(sections) > 0 {
		_, err = e.articles.ReplaceContent(ctx, article.ID, &contentSvc.ReplaceContentRequest{
			Chapters: []contentSvc.ChapterInput{{Title: "Chapter One", Sections: sections}},
		})
		require.NoError(t, err)
	}
	return article.ID
}
