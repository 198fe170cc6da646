package config

import "time"

const (
	// MaxTitleLength is the maximum length for article, chapter and section titles.
	// Matches the VARCHAR(512) columns in the schema.
	MaxTitleLength = 512

	// MaxSlugLength bounds every slug (articles and tags), including any
	// numeric "-N" suffix added for disambiguation.
	MaxSlugLength = 120

	// MaxSummaryLength is the maximum length for an article summary.
	MaxSummaryLength = 2000

	// MaxMarkdownLength caps a single section body (2 MB).
	MaxMarkdownLength = 2_000_000

	// MaxTagsPerArticle limits how many tags one article can reference.
	MaxTagsPerArticle = 50

	// DefaultPageSize and MaxPageSize apply to listing and search endpoints.
	DefaultPageSize = 20
	MaxPageSize     = 100

	// DefaultUploadsPerWindow and UploadWindow configure the image upload limiter.
	DefaultUploadsPerWindow = 20
	UploadWindow            = time.Minute
)
