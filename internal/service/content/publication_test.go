package content

import (
	"context"
	"errors"
	"sync"
	"testing"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentSvc "folio/internal/domain/services/content"

	"github.com/stretchr/testify/require"
)

// failingCodec rejects every article so publish aborts after state changes
// were staged
type failingCodec struct {
	contentSvc.SnapshotCodec
}

func (failingCodec) Encode(*models.Article) ([]byte, error) {
	return nil, &domain.InternalError{Message: "serialize article snapshot"}
}

func TestHTMLBasicsEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	article, err := env.articles.CreateArticle(ctx, &contentSvc.CreateArticleRequest{Title: "HTML Basics", CreatedBy: "author-1"})
	require.NoError(t, err)
	require.Equal(t, "html-basics", article.Slug)
	require.Equal(t, 1, article.Version)
	require.Equal(t, models.StatusDraft, article.Status)

	chapter, err := env.chapters.CreateChapter(ctx, article.ID, &contentSvc.CreateChapterRequest{Title: "Storage"})
	require.NoError(t, err)
	_, err = env.sections.CreateSection(ctx, chapter.ID, &contentSvc.CreateSectionRequest{
		Title:    "Databases",
		Markdown: "Pages can be served from postgres as well.",
	})
	require.NoError(t, err)

	published, err := env.publication.Publish(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, 2, published.Version)
	require.Equal(t, models.StatusPublished, published.Status)

	revisions, err := env.publication.ListRevisions(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	require.Equal(t, 2, revisions[0].Version)

	results, err := env.search.Search(ctx, &models.SearchOptions{Query: "postgres"})
	require.NoError(t, err)

	found := false
	for _, r := range results.Results {
		if r.Kind == models.ResultKindSection && r.Slug == "html-basics" {
			found = true
		}
	}
	require.True(t, found, "expected a SECTION hit for html-basics, got %+v", results.Results)
}

func TestPublishVersionMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Cycles", contentSvc.SectionInput{Title: "S", Markdown: "m"})

	for want := 2; want <= 4; want++ {
		published, err := env.publication.Publish(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, published.Version)

		rev, err := env.publication.GetRevision(ctx, id, want)
		require.NoError(t, err)
		require.Equal(t, want, rev.Snapshot.Version)

		_, err = env.publication.Unpublish(ctx, id)
		require.NoError(t, err)
	}

	revisions, err := env.publication.ListRevisions(ctx, id)
	require.NoError(t, err)
	require.Len(t, revisions, 3)
	for i, rev := range revisions {
		require.Equal(t, i+2, rev.Version)
	}
}

func TestPublishTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Once")

	_, err := env.publication.Publish(ctx, id)
	require.NoError(t, err)

	_, err = env.publication.Publish(ctx, id)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	require.Equal(t, id, conflict.ResourceID)

	article, err := env.articles.GetArticle(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, article.Version)
}

func TestConcurrentPublishSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Race")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.publication.Publish(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, conflicts)

	revisions, err := env.publication.ListRevisions(ctx, id)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
}

func TestFailedPublishLeavesStateUnchanged(t *testing.T) {
	env := newTestEnvWithCodec(t, failingCodec{})
	ctx := context.Background()
	id := env.createArticle(t, "Fragile")

	_, err := env.publication.Publish(ctx, id)
	require.True(t, errors.Is(err, domain.ErrInternal), "got %v", err)

	article, err := env.articles.GetArticle(ctx, id)
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, article.Status)
	require.Equal(t, 1, article.Version)

	revisions, err := env.publication.ListRevisions(ctx, id)
	require.NoError(t, err)
	require.Empty(t, revisions)
}

func TestExplicitSlugUpdateAvoidsTakenSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createArticle(t, "Shared")
	second := env.createArticle(t, "Other")

	wanted := "shared"
	updated, err := env.articles.UpdateArticle(ctx, second, &contentSvc.UpdateArticleRequest{Slug: &wanted})
	require.NoError(t, err)
	require.Equal(t, "shared-2", updated.Slug)
}

func TestRevisionImmutability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Immutable", contentSvc.SectionInput{Title: "Original", Markdown: "first words"})

	_, err := env.publication.Publish(ctx, id)
	require.NoError(t, err)
	before, err := env.publication.GetRevision(ctx, id, 2)
	require.NoError(t, err)

	_, err = env.publication.Unpublish(ctx, id)
	require.NoError(t, err)
	_, err = env.articles.ReplaceContent(ctx, id, &contentSvc.ReplaceContentRequest{
		Chapters: []contentSvc.ChapterInput{{Title: "Rewritten", Sections: []contentSvc.SectionInput{{Title: "New", Markdown: "other words"}}}},
	})
	require.NoError(t, err)

	after, err := env.publication.GetRevision(ctx, id, 2)
	require.NoError(t, err)
	require.Equal(t, before.Snapshot, after.Snapshot)
	require.Equal(t, "Original", after.Snapshot.Chapters[0].Sections[0].Title)

	// a duplicate (article, version) row is refused
	err = env.revisionRepo.Create(ctx, &models.Revision{ID: "dup", ArticleID: id, Version: 2, Snapshot: []byte(`{}`)})
	require.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
}

func TestPublishedStructureIsImmutableUntilUnpublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Locked")

	_, err := env.publication.Publish(ctx, id)
	require.NoError(t, err)

	_, err = env.chapters.CreateChapter(ctx, id, &contentSvc.CreateChapterRequest{Title: "Late"})
	require.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)

	title := "Renamed"
	_, err = env.articles.UpdateArticle(ctx, id, &contentSvc.UpdateArticleRequest{Title: &title})
	require.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)

	_, err = env.publication.Unpublish(ctx, id)
	require.NoError(t, err)

	chapter, err := env.chapters.CreateChapter(ctx, id, &contentSvc.CreateChapterRequest{Title: "Late"})
	require.NoError(t, err)
	require.Equal(t, 0, chapter.OrderIndex)
}

func TestUnpublishIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Draft Only")

	article, err := env.publication.Unpublish(ctx, id)
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, article.Status)
	require.Equal(t, 1, article.Version)
}

func TestRevisionLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Lookups")

	_, err := env.publication.GetRevision(ctx, id, 0)
	require.True(t, errors.Is(err, domain.ErrValidation))

	_, err = env.publication.GetRevision(ctx, id, 2)
	require.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = env.publication.ListRevisions(ctx, "00000000-0000-0000-0000-000000000000")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	err = env.articles.DeleteArticle(ctx, id)
	require.NoError(t, err)
	_, err = env.publication.Publish(ctx, id)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
