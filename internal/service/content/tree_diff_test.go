package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentSvc "folio/internal/domain/services/content"

	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func TestBuildTreeDiff(t *testing.T) {
	current := &models.Article{
		ID: "a1",
		Chapters: []models.Chapter{
			{ID: "c1", ArticleID: "a1", Title: "One", OrderIndex: 0, Sections: []models.Section{
				{ID: "s1", ChapterID: "c1", Title: "Keep", OrderIndex: 0, Markdown: "body"},
				{ID: "s2", ChapterID: "c1", Title: "Drop", OrderIndex: 1, Markdown: "gone"},
			}},
			{ID: "c2", ArticleID: "a1", Title: "Two", OrderIndex: 1, Sections: []models.Section{
				{ID: "s3", ChapterID: "c2", Title: "Moved", OrderIndex: 0, Markdown: "moving"},
			}},
		},
		Tags: []models.Tag{{ID: "t1"}, {ID: "t2"}},
	}

	desired := []desiredChapter{
		{ID: "c1", Title: "One", Sections: []desiredSection{
			{ID: "s1", Title: "Keep", Markdown: "body"},
			{ID: "s3", Title: "Moved", Markdown: "moving"},
			{Title: "Fresh", Markdown: "new"},
		}},
		{Title: "Three", Sections: []desiredSection{{Title: "Inside", Markdown: "x"}}},
	}
	tags := []models.Tag{{ID: "t2"}, {ID: "t3"}}

	diff, err := buildTreeDiff(current, desired, tags, sequentialIDs())
	require.NoError(t, err)

	require.Empty(t, diff.ChapterUpdates, "unchanged chapter must not be rewritten")
	require.Equal(t, []models.Chapter{{ID: "new-2", ArticleID: "a1", Title: "Three", OrderIndex: 1}}, diff.ChapterInserts)
	require.Equal(t, []string{"c2"}, diff.ChapterDeletes)

	require.Equal(t, []models.Section{{ID: "s3", ChapterID: "c1", Title: "Moved", OrderIndex: 1, Markdown: "moving"}}, diff.SectionUpdates)
	require.Len(t, diff.SectionInserts, 2)
	require.Equal(t, "c1", diff.SectionInserts[0].ChapterID)
	require.Equal(t, 2, diff.SectionInserts[0].OrderIndex)
	require.Equal(t, "new-1", diff.SectionInserts[0].ID, "ids are handed out in walk order")
	require.Equal(t, diff.ChapterInserts[0].ID, diff.SectionInserts[1].ChapterID)
	require.Equal(t, []string{"s2"}, diff.SectionDeletes)

	require.Equal(t, []string{"t3"}, diff.TagLinks)
	require.Equal(t, []string{"t1"}, diff.TagUnlinks)
}

func TestBuildTreeDiffRejectsForeignAndDuplicateIDs(t *testing.T) {
	current := &models.Article{
		ID: "a1",
		Chapters: []models.Chapter{
			{ID: "c1", ArticleID: "a1", Sections: []models.Section{{ID: "s1", ChapterID: "c1"}}},
		},
	}

	tests := []struct {
		name    string
		desired []desiredChapter
	}{
		{name: "unknown chapter", desired: []desiredChapter{{ID: "other", Title: "x"}}},
		{name: "unknown section", desired: []desiredChapter{{ID: "c1", Title: "x", Sections: []desiredSection{{ID: "other"}}}}},
		{name: "chapter twice", desired: []desiredChapter{{ID: "c1", Title: "x"}, {ID: "c1", Title: "y"}}},
		{name: "section twice", desired: []desiredChapter{{ID: "c1", Title: "x", Sections: []desiredSection{{ID: "s1"}, {ID: "s1"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildTreeDiff(current, tt.desired, nil, sequentialIDs())
			require.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestBuildTreeDiffNilTagsLeavesTagsAlone(t *testing.T) {
	current := &models.Article{ID: "a1", Tags: []models.Tag{{ID: "t1"}}}
	diff, err := buildTreeDiff(current, nil, nil, sequentialIDs())
	require.NoError(t, err)
	require.True(t, diff.IsEmpty())
}

func TestReplaceContentKeepsIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.createArticle(t, "Identity",
		contentSvc.SectionInput{Title: "First", Markdown: "one"},
		contentSvc.SectionInput{Title: "Second", Markdown: "two"},
	)
	before, err := env.articles.GetArticle(ctx, id)
	require.NoError(t, err)
	chapter := before.Chapters[0]
	first, second := chapter.Sections[0], chapter.Sections[1]

	// swap the sections, edit one and add a new chapter in front
	after, err := env.articles.ReplaceContent(ctx, id, &contentSvc.ReplaceContentRequest{
		Chapters: []contentSvc.ChapterInput{
			{Title: "Preface", Sections: []contentSvc.SectionInput{{Title: "Hello", Markdown: "<p>hi</p>", Format: "html"}}},
			{ID: chapter.ID, Title: chapter.Title, Sections: []contentSvc.SectionInput{
				{ID: second.ID, Title: "Second", Markdown: "two, edited"},
				{ID: first.ID, Title: "First", Markdown: "one"},
			}},
		},
		Tags: []string{"go", "Go", "testing"},
	})
	require.NoError(t, err)

	require.Len(t, after.Chapters, 2)
	require.Equal(t, "Preface", after.Chapters[0].Title)
	require.Equal(t, "hi", after.Chapters[0].Sections[0].Markdown)

	kept := after.Chapters[1]
	require.Equal(t, chapter.ID, kept.ID)
	require.Equal(t, 1, kept.OrderIndex)
	require.Equal(t, second.ID, kept.Sections[0].ID)
	require.Equal(t, "two, edited", kept.Sections[0].Markdown)
	require.Equal(t, first.ID, kept.Sections[1].ID)

	var tagSlugs []string
	for _, tag := range after.Tags {
		tagSlugs = append(tagSlugs, tag.Slug)
	}
	require.Equal(t, []string{"go", "testing"}, tagSlugs)
}

func TestReplaceContentRejectsPublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.createArticle(t, "Frozen", contentSvc.SectionInput{Title: "Only", Markdown: "text"})
	_, err := env.publication.Publish(ctx, id)
	require.NoError(t, err)

	_, err = env.articles.ReplaceContent(ctx, id, &contentSvc.ReplaceContentRequest{})
	require.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)

	article, err := env.articles.GetArticle(ctx, id)
	require.NoError(t, err)
	require.Len(t, article.Chapters, 1)
}
