package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	contentSvc "folio/internal/domain/services/content"
	"folio/internal/repository/memory"
	"folio/internal/service/content"
	"folio/internal/service/content/converter"
	"folio/internal/service/content/render"

	"github.com/stretchr/testify/require"
)

func newTestSeeder(t *testing.T) (*Seeder, contentSvc.ArticleService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)
	articleRepo := memory.NewArticleRepository(store)
	txManager := memory.NewTransactionManager(store)

	articles := content.NewArticleService(
		articleRepo, txManager,
		content.NewSlugResolver(articleRepo, logger),
		content.NewTagResolver(memory.NewTagRepository(store), logger),
		converter.NewHTMLConverter(), render.NewMarkdownRenderer(), logger,
	)
	publication := content.NewPublicationService(articleRepo, memory.NewRevisionRepository(store), txManager, content.NewSnapshotCodec(), logger)
	return NewSeeder(articles, publication, logger), articles
}

func TestParseFixtures(t *testing.T) {
	fixtures, err := ParseFixtures(nil)
	require.NoError(t, err)
	require.Len(t, fixtures, 3)
	require.Equal(t, "HTML Basics", fixtures[0].Title)
	require.Len(t, fixtures[0].Chapters, 2)

	custom, err := ParseFixtures([]byte("- title: One\n  chapters:\n    - title: C\n      sections:\n        - title: S\n          markdown: body\n"))
	require.NoError(t, err)
	require.Equal(t, "body", custom[0].Chapters[0].Sections[0].Markdown)

	_, err = ParseFixtures([]byte("title: [unclosed"))
	require.Error(t, err)
}

func TestRunSeedsOnce(t *testing.T) {
	ctx := context.Background()
	seeder, articles := newTestSeeder(t)
	fixtures, err := ParseFixtures(nil)
	require.NoError(t, err)

	result, err := seeder.Run(ctx, fixtures, "seed", true, false)
	require.NoError(t, err)
	require.Equal(t, &Result{Created: 3, Published: 3}, result)

	article, err := articles.GetPublishedBySlug(ctx, "privet-mir")
	require.NoError(t, err)
	require.Equal(t, "Введение", article.Chapters[0].Sections[0].Title)

	result, err = seeder.Run(ctx, fixtures, "seed", true, false)
	require.NoError(t, err)
	require.True(t, result.Skipped)

	// forced runs add copies under fresh slugs
	result, err = seeder.Run(ctx, fixtures[:1], "seed", false, true)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	page, err := articles.ListArticles(ctx, &contentSvc.ListArticlesRequest{Status: "DRAFT"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, "html-basics-2", page.Articles[0].Slug)
}
