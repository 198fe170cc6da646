package content

import (
	"encoding/json"
	"fmt"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentSvc "folio/internal/domain/services/content"
)

// jsonSnapshotCodec stores snapshots as JSON with an explicit schema version.
// Decoders accept every version up to the current one, so old revisions stay
// readable without migrating stored rows.
type jsonSnapshotCodec struct {
	now func() time.Time
}

// NewSnapshotCodec creates the JSON snapshot codec
func NewSnapshotCodec() contentSvc.SnapshotCodec {
	return &jsonSnapshotCodec{now: time.Now}
}

// Encode serializes a detailed article. Chapters and sections keep the order
// they have in the article.
func (c *jsonSnapshotCodec) Encode(article *models.Article) ([]byte, error) {
	snap := models.Snapshot{
		SchemaVersion: models.SnapshotSchemaVersion,
		ArticleID:     article.ID,
		Title:         article.Title,
		Slug:          article.Slug,
		Summary:       article.Summary,
		CoverImageURL: article.CoverImageURL,
		Status:        article.Status,
		Version:       article.Version,
		CreatedBy:     article.CreatedBy,
		Tags:          make([]models.SnapshotTag, 0, len(article.Tags)),
		Chapters:      make([]models.SnapshotChapter, 0, len(article.Chapters)),
		PublishedAt:   c.now().UTC(),
	}
	for _, t := range article.Tags {
		snap.Tags = append(snap.Tags, models.SnapshotTag{Name: t.Name, Slug: t.Slug})
	}
	for _, ch := range article.Chapters {
		sc := models.SnapshotChapter{
			ID:         ch.ID,
			Title:      ch.Title,
			OrderIndex: ch.OrderIndex,
			Sections:   make([]models.SnapshotSection, 0, len(ch.Sections)),
		}
		for _, sec := range ch.Sections {
			sc.Sections = append(sc.Sections, models.SnapshotSection{
				ID:         sec.ID,
				Title:      sec.Title,
				OrderIndex: sec.OrderIndex,
				Markdown:   sec.Markdown,
			})
		}
		snap.Chapters = append(snap.Chapters, sc)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, &domain.InternalError{Message: "serialize article snapshot", Err: err}
	}
	return data, nil
}

// Decode parses a stored snapshot
func (c *jsonSnapshotCodec) Decode(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &domain.InternalError{Message: "decode article snapshot", Err: err}
	}
	// rows written before the field existed carry no version
	if snap.SchemaVersion == 0 {
		snap.SchemaVersion = 1
	}
	if snap.SchemaVersion > models.SnapshotSchemaVersion {
		return nil, &domain.InternalError{
			Message: fmt.Sprintf("snapshot schema version %d is newer than supported %d", snap.SchemaVersion, models.SnapshotSchemaVersion),
		}
	}
	if snap.Tags == nil {
		snap.Tags = []models.SnapshotTag{}
	}
	if snap.Chapters == nil {
		snap.Chapters = []models.SnapshotChapter{}
	}
	return &snap, nil
}
