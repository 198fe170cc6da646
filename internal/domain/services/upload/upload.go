package upload

import (
	"context"
	"io"
)

// Service stores images attached to articles
type Service interface {
	// UploadImage rate-limits per caller, validates the image and stores it
	UploadImage(ctx context.Context, req *ImageUploadRequest) (*ImageUploadResult, error)
}

// BlobStore persists opaque binary objects under a relative key
type BlobStore interface {
	// Put writes r under key and returns the public URL of the object
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}

// RateLimiter admits a bounded number of events per key and window
type RateLimiter interface {
	Allow(key string) bool
}

// ImageUploadRequest carries one uploaded file
type ImageUploadRequest struct {
	UserID   string
	Filename string
	Size     int64
	Body     io.Reader
}

// ImageUploadResult is the public location of a stored image
type ImageUploadResult struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
