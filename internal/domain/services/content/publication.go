package content

import (
	"context"

	"folio/internal/domain/models/content"
)

// PublicationService drives the DRAFT/PUBLISHED state machine
type PublicationService interface {
	// Publish moves a DRAFT article to PUBLISHED, bumps its version and
	// appends a revision snapshot, all in one transaction
	Publish(ctx context.Context, articleID string) (*content.Article, error)

	// Unpublish moves the article back to DRAFT; version and revisions are kept
	Unpublish(ctx context.Context, articleID string) (*content.Article, error)

	// ListRevisions returns revision metadata in version order
	ListRevisions(ctx context.Context, articleID string) ([]content.Revision, error)

	// GetRevision returns one revision with its decoded snapshot
	GetRevision(ctx context.Context, articleID string, version int) (*content.RevisionDetail, error)
}

// SnapshotCodec serializes article trees for revisions
type SnapshotCodec interface {
	Encode(article *content.Article) ([]byte, error)
	Decode(data []byte) (*content.Snapshot, error)
}

// SearchService ranks published content
type SearchService interface {
	Search(ctx context.Context, opts *content.SearchOptions) (*content.SearchResults, error)
}

// Renderer turns stored markdown into sanitized HTML for public reads
type Renderer interface {
	RenderMarkdown(markdown string) (string, error)
}

// HTMLImporter converts submitted HTML bodies to markdown
type HTMLImporter interface {
	ConvertHTML(html string) (string, error)
}
