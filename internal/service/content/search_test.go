package content

import (
	"context"
	"errors"
	"math"
	"testing"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentSvc "folio/internal/domain/services/content"

	"github.com/stretchr/testify/require"
)

func TestSearchScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Hidden Gems", contentSvc.SectionInput{Title: "Secret", Markdown: "the word zanzibar appears here"})

	results, err := env.search.Search(ctx, &models.SearchOptions{Query: "zanzibar"})
	require.NoError(t, err)
	require.Empty(t, results.Results, "draft content must not be searchable")
	require.Equal(t, 0, results.TotalCount)

	_, err = env.publication.Publish(ctx, id)
	require.NoError(t, err)

	results, err = env.search.Search(ctx, &models.SearchOptions{Query: "zanzibar"})
	require.NoError(t, err)
	require.Equal(t, 1, results.TotalCount)
	require.Equal(t, models.ResultKindSection, results.Results[0].Kind)
	require.Equal(t, "hidden-gems", results.Results[0].Slug)
	require.Contains(t, results.Results[0].Snippet, "zanzibar")

	_, err = env.publication.Unpublish(ctx, id)
	require.NoError(t, err)
	results, err = env.search.Search(ctx, &models.SearchOptions{Query: "zanzibar"})
	require.NoError(t, err)
	require.Empty(t, results.Results)
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.createArticle(t, "Testing in Go", contentSvc.SectionInput{Title: "Tables", Markdown: "table driven tests"})
	b := env.createArticle(t, "Cooking", contentSvc.SectionInput{Title: "Recipes", Markdown: "we go to the market"})
	for _, id := range []string{a, b} {
		_, err := env.publication.Publish(ctx, id)
		require.NoError(t, err)
	}

	results, err := env.search.Search(ctx, &models.SearchOptions{Query: "go"})
	require.NoError(t, err)
	require.Equal(t, 2, results.TotalCount)
	require.Equal(t, models.ResultKindArticle, results.Results[0].Kind)
	require.Equal(t, "Testing in Go", results.Results[0].Title)
	require.GreaterOrEqual(t, results.Results[0].Score, results.Results[1].Score)
}

func TestSearchPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		id := env.createArticle(t, title, contentSvc.SectionInput{Title: title + " notes", Markdown: "shared keyword"})
		_, err := env.publication.Publish(ctx, id)
		require.NoError(t, err)
	}

	page0, err := env.search.Search(ctx, &models.SearchOptions{Query: "keyword", Size: 2})
	require.NoError(t, err)
	require.Len(t, page0.Results, 2)
	require.Equal(t, 3, page0.TotalCount)
	require.True(t, page0.HasMore)

	page1, err := env.search.Search(ctx, &models.SearchOptions{Query: "keyword", Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, page1.Results, 1)
	require.False(t, page1.HasMore)

	// equal scores fall back to title order
	require.Equal(t, "Alpha notes", page0.Results[0].Title)
	require.Equal(t, "Charlie notes", page1.Results[0].Title)
}

func TestSearchBlankAndInvalidQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	results, err := env.search.Search(ctx, &models.SearchOptions{Query: "   "})
	require.NoError(t, err)
	require.Empty(t, results.Results)
	require.Equal(t, models.DefaultSearchSize, results.Size)

	results, err = env.search.Search(ctx, &models.SearchOptions{Query: "  ", Size: 500})
	require.NoError(t, err, "a blank query is no input, whatever the paging")
	require.Empty(t, results.Results)

	_, err = env.search.Search(ctx, &models.SearchOptions{Query: "x", Size: models.MaxSearchSize + 1})
	require.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSearchRejectsOverflowingPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createArticle(t, "Guide", contentSvc.SectionInput{Title: "Intro", Markdown: "postgres here"})
	_, err := env.publication.Publish(ctx, id)
	require.NoError(t, err)

	_, err = env.search.Search(ctx, &models.SearchOptions{Query: "postgres", Page: math.MaxInt64 / 10, Size: 20})
	require.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
}
