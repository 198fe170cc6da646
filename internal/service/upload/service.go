package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"folio/internal/domain"
	uploadSvc "folio/internal/domain/services/upload"

	"github.com/google/uuid"
)

// allowedImageTypes maps sniffed content types to stored extensions
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// service implements the upload Service interface
type service struct {
	store    uploadSvc.BlobStore
	limiter  uploadSvc.RateLimiter
	maxBytes int64
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates an image upload service
func NewService(store uploadSvc.BlobStore, limiter uploadSvc.RateLimiter, maxBytes int64, logger *slog.Logger) uploadSvc.Service {
	return &service{
		store:    store,
		limiter:  limiter,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger,
	}
}

// UploadImage stores an image under images/yyyy/mm/dd/<uuid>.<ext>. The type
// is sniffed from the content; the client filename is only logged.
func (s *service) UploadImage(ctx context.Context, req *uploadSvc.ImageUploadRequest) (*uploadSvc.ImageUploadResult, error) {
	if !s.limiter.Allow(req.UserID) {
		s.logger.Warn("upload rate limit exceeded", "user_id", req.UserID)
		return nil, fmt.Errorf("%w: image upload limit reached, try again later", domain.ErrTooManyRequests)
	}
	if req.Body == nil || req.Size == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "file must not be empty"}
	}
	if req.Size > s.maxBytes {
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("file exceeds %d bytes", s.maxBytes)}
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(req.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "file must not be empty"}
	}

	contentType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("unsupported image type %s", contentType)}
	}

	day := s.now().UTC()
	key := path.Join("images", day.Format("2006"), day.Format("01"), day.Format("02"), uuid.NewString()+ext)

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(req.Body, s.maxBytes-int64(n)))
	url, err := s.store.Put(ctx, key, body)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	s.logger.Info("image uploaded",
		"user_id", req.UserID,
		"filename", req.Filename,
		"url", url,
		"size", req.Size,
	)
	return &uploadSvc.ImageUploadResult{URL: url, ContentType: contentType, Size: req.Size}, nil
}
