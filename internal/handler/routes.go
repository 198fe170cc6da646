package handler

import "net/http"

// Handlers groups every HTTP handler the server exposes
type Handlers struct {
	Articles    *ArticleHandler
	Structure   *StructureHandler
	Publication *PublicationHandler
	Search      *SearchHandler
	Uploads     *UploadHandler
	Health      *HealthHandler
}

// NewRouter registers all routes (Go 1.22+ method patterns). Admin routes
// are wrapped with requireAdmin.
func NewRouter(h *Handlers, requireAdmin func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireAdmin(fn))
	}

	// Health check
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Public reads (published content only)
	mux.HandleFunc("GET /api/v1/articles", h.Articles.ListPublishedArticles)
	mux.HandleFunc("GET /api/v1/articles/by-slug/{slug}", h.Articles.GetPublishedBySlug)
	mux.HandleFunc("GET /api/v1/articles/by-id/{id}/toc", h.Articles.GetTableOfContents)
	mux.HandleFunc("GET /api/v1/search", h.Search.Search)

	// Article administration
	admin("POST /api/v1/admin/articles", h.Articles.CreateArticle)
	admin("GET /api/v1/admin/articles", h.Articles.ListArticles)
	admin("GET /api/v1/admin/articles/{id}", h.Articles.GetArticle)
	admin("PATCH /api/v1/admin/articles/{id}", h.Articles.UpdateArticle)
	admin("DELETE /api/v1/admin/articles/{id}", h.Articles.DeleteArticle)
	admin("PUT /api/v1/admin/articles/{id}/content", h.Articles.ReplaceContent)

	// Publication
	admin("POST /api/v1/admin/articles/{id}/publish", h.Publication.Publish)
	admin("POST /api/v1/admin/articles/{id}/unpublish", h.Publication.Unpublish)
	admin("GET /api/v1/admin/articles/{id}/revisions", h.Publication.ListRevisions)
	admin("GET /api/v1/admin/articles/{id}/revisions/{version}", h.Publication.GetRevision)

	// Structure
	admin("POST /api/v1/admin/articles/{id}/chapters", h.Structure.CreateChapter)
	admin("PATCH /api/v1/admin/chapters/{id}", h.Structure.UpdateChapter)
	admin("DELETE /api/v1/admin/chapters/{id}", h.Structure.DeleteChapter)
	admin("POST /api/v1/admin/chapters/{id}/sections", h.Structure.CreateSection)
	admin("PATCH /api/v1/admin/sections/{id}", h.Structure.UpdateSection)
	admin("DELETE /api/v1/admin/sections/{id}", h.Structure.DeleteSection)

	// Uploads
	admin("POST /api/v1/admin/uploads/images", h.Uploads.UploadImage)

	return mux
}
