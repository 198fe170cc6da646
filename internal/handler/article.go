package handler

import (
	"log/slog"
	"net/http"

	contentSvc "folio/internal/domain/services/content"
	"folio/internal/httputil"
)

// ArticleHandler handles article HTTP requests for both the admin and the
// public surface
type ArticleHandler struct {
	articleService contentSvc.ArticleService
	logger         *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService contentSvc.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// updateArticleRequest is the PATCH body; summary and cover_image_url may
// be sent as null to clear them
type updateArticleRequest struct {
	Title         *string                 `json:"title"`
	Slug          *string                 `json:"slug"`
	Summary       httputil.OptionalString `json:"summary"`
	CoverImageURL httputil.OptionalString `json:"cover_image_url"`
	Tags          []string                `json:"tags"`
}

// CreateArticle creates a draft article
// POST /api/v1/admin/articles
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req contentSvc.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.CreatedBy = httputil.GetUserID(r)

	article, err := h.articleService.CreateArticle(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// GetArticle returns an article with its full tree, whatever its status
// GET /api/v1/admin/articles/{id}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// UpdateArticle patches draft metadata
// PATCH /api/v1/admin/articles/{id}
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body updateArticleRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := contentSvc.UpdateArticleRequest{
		Title:         body.Title,
		Slug:          body.Slug,
		Summary:       contentSvc.OptionalText{Present: body.Summary.Present, Value: body.Summary.Value},
		CoverImageURL: contentSvc.OptionalText{Present: body.CoverImageURL.Present, Value: body.CoverImageURL.Value},
		Tags:          body.Tags,
	}

	article, err := h.articleService.UpdateArticle(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// ReplaceContent replaces the chapter/section tree and tags
// PUT /api/v1/admin/articles/{id}/content
func (h *ArticleHandler) ReplaceContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req contentSvc.ReplaceContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.ReplaceContent(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle removes an article with its tree and revisions
// DELETE /api/v1/admin/articles/{id}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListArticles pages through articles of any status
// GET /api/v1/admin/articles?status=&q=&limit=&offset=
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("status"))
}

// ListPublishedArticles pages through published articles
// GET /api/v1/articles?q=&limit=&offset=
func (h *ArticleHandler) ListPublishedArticles(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "PUBLISHED")
}

func (h *ArticleHandler) list(w http.ResponseWriter, r *http.Request, status string) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := httputil.QueryInt(r, "offset", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.articleService.ListArticles(r.Context(), &contentSvc.ListArticlesRequest{
		Status: status,
		Query:  r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetPublishedBySlug returns a published article with rendered sections
// GET /api/v1/articles/by-slug/{slug}
func (h *ArticleHandler) GetPublishedBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		httputil.RespondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	article, err := h.articleService.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// GetTableOfContents returns the outline of a published article
// GET /api/v1/articles/by-id/{id}/toc
func (h *ArticleHandler) GetTableOfContents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	toc, err := h.articleService.GetTableOfContents(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toc)
}
