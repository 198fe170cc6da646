package handler

import (
	"log/slog"
	"net/http"

	models "folio/internal/domain/models/content"
	contentSvc "folio/internal/domain/services/content"
	"folio/internal/httputil"
)

// SearchHandler serves full-text search over published content
type SearchHandler struct {
	searchService contentSvc.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService contentSvc.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search ranks published articles and sections
// GET /api/v1/search?q=&page=&size=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.QueryInt(r, "page", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := httputil.QueryInt(r, "size", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.searchService.Search(r.Context(), &models.SearchOptions{
		Query: r.URL.Query().Get("q"),
		Page:  page,
		Size:  size,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
