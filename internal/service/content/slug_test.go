package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"folio/internal/config"
	"folio/internal/domain"
	contentSvc "folio/internal/domain/services/content"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "cyrillic", input: "Привет мир", want: "privet-mir"},
		{name: "plain title", input: "HTML Basics", want: "html-basics"},
		{name: "accents stripped", input: "Café Crème", want: "cafe-creme"},
		{name: "punctuation dropped", input: "Go: Tips & Tricks!", want: "go-tips-tricks"},
		{name: "whitespace collapsed", input: "  a \t b\n c  ", want: "a-b-c"},
		{name: "hyphens collapsed and trimmed", input: "--a -- b--", want: "a-b"},
		{name: "soft and hard signs vanish", input: "Объявление", want: "obyavlenie"},
		{name: "nothing survives", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Slugify("Привет мир"); got != "privet-mir" {
			t.Fatalf("run %d: got %q", i, got)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"html-basics", true},
		{"a1-b2", true},
		{"", false},
		{"Upper", false},
		{"with space", false},
		{"under_score", false},
	}
	for _, tt := range tests {
		if got := IsValidSlug(tt.slug); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestSlugResolverSuffixesCollisions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var slugs []string
	for i := 0; i < 3; i++ {
		article, err := env.articles.CreateArticle(ctx, &contentSvc.CreateArticleRequest{Title: "Guide"})
		require.NoError(t, err)
		slugs = append(slugs, article.Slug)
	}

	require.Equal(t, []string{"guide", "guide-2", "guide-3"}, slugs)
}

func TestSlugResolverKeepsOwnSlugOnUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	article, err := env.articles.CreateArticle(ctx, &contentSvc.CreateArticleRequest{Title: "Guide"})
	require.NoError(t, err)

	same := "guide"
	updated, err := env.articles.UpdateArticle(ctx, article.ID, &contentSvc.UpdateArticleRequest{Slug: &same})
	require.NoError(t, err)
	require.Equal(t, "guide", updated.Slug)
}

func TestSlugResolverTruncatesLongSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	title := strings.Repeat("word ", 60)

	first, err := env.articles.CreateArticle(ctx, &contentSvc.CreateArticleRequest{Title: title})
	require.NoError(t, err)
	second, err := env.articles.CreateArticle(ctx, &contentSvc.CreateArticleRequest{Title: title})
	require.NoError(t, err)

	require.LessOrEqual(t, len(first.Slug), config.MaxSlugLength)
	require.LessOrEqual(t, len(second.Slug), config.MaxSlugLength)
	require.False(t, strings.HasSuffix(first.Slug, "-"))
	require.True(t, strings.HasSuffix(second.Slug, "-2"))
	require.NotEqual(t, first.Slug, second.Slug)
}

func TestSlugResolverRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  contentSvc.CreateArticleRequest
	}{
		{name: "provided slug with spaces", req: contentSvc.CreateArticleRequest{Title: "Fine", Slug: "bad slug"}},
		{name: "title without slug characters", req: contentSvc.CreateArticleRequest{Title: "!!!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.articles.CreateArticle(ctx, &req)
			require.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}
