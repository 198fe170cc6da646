package handler

import (
	"errors"
	"log/slog"
	"net/http"

	uploadSvc "folio/internal/domain/services/upload"
	"folio/internal/httputil"
)

// UploadHandler accepts image uploads for article covers and bodies
type UploadHandler struct {
	uploadService uploadSvc.Service
	maxBytes      int64
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService uploadSvc.Service, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// UploadImage stores the multipart "file" field
// POST /api/v1/admin/uploads/images
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.uploadService.UploadImage(r.Context(), &uploadSvc.ImageUploadRequest{
		UserID:   httputil.GetUserID(r),
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}
