package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	contentSvc "folio/internal/domain/services/content"
	"folio/internal/httputil"
)

// PublicationHandler handles publish transitions and revision reads
type PublicationHandler struct {
	publicationService contentSvc.PublicationService
	logger             *slog.Logger
}

// NewPublicationHandler creates a new publication handler
func NewPublicationHandler(publicationService contentSvc.PublicationService, logger *slog.Logger) *PublicationHandler {
	return &PublicationHandler{
		publicationService: publicationService,
		logger:             logger,
	}
}

// Publish moves a draft to published and records a revision
// POST /api/v1/admin/articles/{id}/publish
func (h *PublicationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.publicationService.Publish(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("article published",
		"article_id", article.ID,
		"version", article.Version,
		"user_id", httputil.GetUserID(r),
	)
	httputil.RespondJSON(w, http.StatusOK, article)
}

// Unpublish moves a published article back to draft
// POST /api/v1/admin/articles/{id}/unpublish
func (h *PublicationHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.publicationService.Unpublish(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// ListRevisions returns revision metadata for an article
// GET /api/v1/admin/articles/{id}/revisions
func (h *PublicationHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	revisions, err := h.publicationService.ListRevisions(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, revisions)
}

// GetRevision returns one revision with its snapshot, as YAML when the
// client asks for it
// GET /api/v1/admin/articles/{id}/revisions/{version}
func (h *PublicationHandler) GetRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil || version < 1 {
		httputil.RespondError(w, http.StatusBadRequest, "version must be a positive integer")
		return
	}

	revision, err := h.publicationService.GetRevision(r.Context(), id, version)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if wantsYAML(r) {
		httputil.RespondYAML(w, http.StatusOK, revision)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, revision)
}
