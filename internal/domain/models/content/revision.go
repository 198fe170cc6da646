package content

import (
	"encoding/json"
	"time"
)

// Revision is the immutable record of one publish event.
type Revision struct {
	ID        string          `json:"id" db:"id"`
	ArticleID string          `json:"article_id" db:"article_id"`
	Version   int             `json:"version" db:"version"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty" db:"snapshot"` // Empty on list reads
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// SnapshotSchemaVersion is bumped when the snapshot layout changes in a way
// old decoders cannot read.
const SnapshotSchemaVersion = 1

// Snapshot is the serialized form of an article tree at publish time.
type Snapshot struct {
	SchemaVersion int               `json:"schema_version" yaml:"schema_version"`
	ArticleID     string            `json:"article_id" yaml:"article_id"`
	Title         string            `json:"title" yaml:"title"`
	Slug          string            `json:"slug" yaml:"slug"`
	Summary       *string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	CoverImageURL *string           `json:"cover_image_url,omitempty" yaml:"cover_image_url,omitempty"`
	Status        ArticleStatus     `json:"status" yaml:"status"`
	Version       int               `json:"version" yaml:"version"`
	CreatedBy     string            `json:"created_by" yaml:"created_by"`
	Tags          []SnapshotTag     `json:"tags" yaml:"tags"`
	Chapters      []SnapshotChapter `json:"chapters" yaml:"chapters"`
	PublishedAt   time.Time         `json:"published_at" yaml:"published_at"`
}

type SnapshotTag struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

type SnapshotChapter struct {
	ID         string            `json:"id" yaml:"id"`
	Title      string            `json:"title" yaml:"title"`
	OrderIndex int               `json:"order_index" yaml:"order_index"`
	Sections   []SnapshotSection `json:"sections" yaml:"sections"`
}

type SnapshotSection struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	OrderIndex int    `json:"order_index" yaml:"order_index"`
	Markdown   string `json:"markdown" yaml:"markdown"`
}

// RevisionDetail is a revision with its snapshot decoded.
type RevisionDetail struct {
	ID        string    `json:"id" yaml:"id"`
	ArticleID string    `json:"article_id" yaml:"article_id"`
	Version   int       `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Snapshot  *Snapshot `json:"snapshot" yaml:"snapshot"`
}
