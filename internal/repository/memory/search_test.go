package memory

import (
	"context"
	"math"
	"testing"

	models "folio/internal/domain/models/content"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	got := tokenize("Hello, World! pg_trgm v2")
	require.Equal(t, []string{"hello", "world", "pg", "trgm", "v2"}, got)
}

func TestRankRequiresEveryTerm(t *testing.T) {
	_, ok := rank([]string{"postgres", "index"}, "Postgres", "no second word")
	require.False(t, ok)

	score, ok := rank([]string{"postgres"}, "Postgres", "postgres postgres")
	require.True(t, ok)
	require.InDelta(t, titleWeight+2*bodyWeight, score, 1e-9)
}

func TestSearchSkipsDrafts(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	seedArticle(t, s, "a1", "draft", models.StatusDraft)
	seedArticle(t, s, "a2", "published", models.StatusPublished)

	hits, total, err := NewSearchRepository(s).Search(ctx, &models.SearchOptions{Query: "draft published", Size: 10})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, hits)

	hits, total, err = NewSearchRepository(s).Search(ctx, &models.SearchOptions{Query: "published", Size: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "a2", hits[0].ID)
	require.Equal(t, "published", hits[0].Body, "title stands in for a missing summary")
}

func TestSearchPastTheEndIsEmpty(t *testing.T) {
	s := NewStore(nil)
	seedArticle(t, s, "a1", "published", models.StatusPublished)
	repo := NewSearchRepository(s)

	for _, page := range []int{5, math.MaxInt64 / 10} {
		hits, total, err := repo.Search(context.Background(), &models.SearchOptions{Query: "published", Page: page, Size: 20})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Empty(t, hits)
	}
}
