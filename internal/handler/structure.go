package handler

import (
	"log/slog"
	"net/http"

	contentSvc "folio/internal/domain/services/content"
	"folio/internal/httputil"
)

// StructureHandler handles chapter and section edits on draft articles
type StructureHandler struct {
	chapterService contentSvc.ChapterService
	sectionService contentSvc.SectionService
	logger         *slog.Logger
}

// NewStructureHandler creates a new chapter/section handler
func NewStructureHandler(chapterService contentSvc.ChapterService, sectionService contentSvc.SectionService, logger *slog.Logger) *StructureHandler {
	return &StructureHandler{
		chapterService: chapterService,
		sectionService: sectionService,
		logger:         logger,
	}
}

// CreateChapter adds a chapter to a draft article
// POST /api/v1/admin/articles/{id}/chapters
func (h *StructureHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	articleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req contentSvc.CreateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	chapter, err := h.chapterService.CreateChapter(r.Context(), articleID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chapter)
}

// UpdateChapter renames or moves a chapter
// PATCH /api/v1/admin/chapters/{id}
func (h *StructureHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req contentSvc.UpdateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	chapter, err := h.chapterService.UpdateChapter(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

// DeleteChapter removes a chapter and its sections
// DELETE /api/v1/admin/chapters/{id}
func (h *StructureHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.chapterService.DeleteChapter(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateSection adds a section to a chapter
// POST /api/v1/admin/chapters/{id}/sections
func (h *StructureHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req contentSvc.CreateSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	section, err := h.sectionService.CreateSection(r.Context(), chapterID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, section)
}

// UpdateSection edits a section's title, body or position
// PATCH /api/v1/admin/sections/{id}
func (h *StructureHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req contentSvc.UpdateSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	section, err := h.sectionService.UpdateSection(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// DeleteSection removes a section
// DELETE /api/v1/admin/sections/{id}
func (h *StructureHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sectionService.DeleteSection(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
