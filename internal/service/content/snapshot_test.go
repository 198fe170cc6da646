package content

import (
	"errors"
	"testing"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	summary := "An intro"
	article := &models.Article{
		ID:        "a1",
		Title:     "HTML Basics",
		Slug:      "html-basics",
		Summary:   &summary,
		Status:    models.StatusPublished,
		Version:   2,
		CreatedBy: "author-1",
		Tags:      []models.Tag{{ID: "t1", Name: "HTML", Slug: "html"}, {ID: "t2", Name: "Web", Slug: "web"}},
		Chapters: []models.Chapter{
			{ID: "c1", Title: "Start", OrderIndex: 0, Sections: []models.Section{
				{ID: "s1", Title: "Intro", OrderIndex: 0, Markdown: "Learn about tags"},
				{ID: "s2", Title: "Elements", OrderIndex: 1, Markdown: "Open and close"},
			}},
			{ID: "c2", Title: "Next", OrderIndex: 1, Sections: []models.Section{}},
		},
	}

	codec := &jsonSnapshotCodec{now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }}
	data, err := codec.Encode(article)
	require.NoError(t, err)

	snap, err := codec.Decode(data)
	require.NoError(t, err)

	require.Equal(t, models.SnapshotSchemaVersion, snap.SchemaVersion)
	require.Equal(t, article.Title, snap.Title)
	require.Equal(t, article.Slug, snap.Slug)
	require.Equal(t, summary, *snap.Summary)
	require.Equal(t, []models.SnapshotTag{{Name: "HTML", Slug: "html"}, {Name: "Web", Slug: "web"}}, snap.Tags)
	require.Len(t, snap.Chapters, 2)
	require.Equal(t, "Start", snap.Chapters[0].Title)
	require.Equal(t, "Next", snap.Chapters[1].Title)
	require.Equal(t, []string{"Intro", "Elements"}, []string{snap.Chapters[0].Sections[0].Title, snap.Chapters[0].Sections[1].Title})
	require.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), snap.PublishedAt)
}

func TestSnapshotDecode(t *testing.T) {
	codec := NewSnapshotCodec()

	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, snap *models.Snapshot)
	}{
		{
			name: "legacy row without schema version",
			data: `{"title":"Old","slug":"old"}`,
			check: func(t *testing.T, snap *models.Snapshot) {
				require.Equal(t, 1, snap.SchemaVersion)
				require.NotNil(t, snap.Tags)
				require.NotNil(t, snap.Chapters)
			},
		},
		{name: "newer schema", data: `{"schema_version":99}`, wantErr: true},
		{name: "not json", data: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := codec.Decode([]byte(tt.data))
			if tt.wantErr {
				require.True(t, errors.Is(err, domain.ErrInternal), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, snap)
		})
	}
}
