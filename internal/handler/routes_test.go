package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"folio/internal/domain/models/content"
	"folio/internal/middleware"
	"folio/internal/repository/memory"
	serviceContent "folio/internal/service/content"
	"folio/internal/service/content/converter"
	"folio/internal/service/content/render"
	"folio/internal/service/upload"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newTestServer wires the full router over an in-memory store. Requests are
// authenticated as an admin unless anonymous is set.
func newTestServer(t *testing.T, anonymous bool) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)

	articleRepo := memory.NewArticleRepository(store)
	chapterRepo := memory.NewChapterRepository(store)
	txManager := memory.NewTransactionManager(store)
	importer := converter.NewHTMLConverter()

	articles := serviceContent.NewArticleService(
		articleRepo, txManager,
		serviceContent.NewSlugResolver(articleRepo, logger),
		serviceContent.NewTagResolver(memory.NewTagRepository(store), logger),
		importer, render.NewMarkdownRenderer(), logger,
	)
	chapters := serviceContent.NewChapterService(articleRepo, chapterRepo, txManager, logger)
	sections := serviceContent.NewSectionService(articleRepo, chapterRepo, memory.NewSectionRepository(store), txManager, importer, logger)
	publication := serviceContent.NewPublicationService(articleRepo, memory.NewRevisionRepository(store), txManager, serviceContent.NewSnapshotCodec(), logger)
	search := serviceContent.NewSearchService(memory.NewSearchRepository(store), logger)
	uploads := upload.NewService(upload.NewLocalBlobStore(t.TempDir(), "/uploads"), upload.NewSlidingWindowLimiter(1, time.Minute), 1<<20, logger)

	mux := NewRouter(&Handlers{
		Articles:    NewArticleHandler(articles, logger),
		Structure:   NewStructureHandler(chapters, sections, logger),
		Publication: NewPublicationHandler(publication, logger),
		Search:      NewSearchHandler(search, logger),
		Uploads:     NewUploadHandler(uploads, 1<<20, logger),
		Health:      NewHealthHandler(nil, logger),
	}, middleware.RequireRole("ADMIN"))

	if anonymous {
		return mux
	}
	return middleware.DevAuthMiddleware("admin-1", "ADMIN")(mux)
}

func do(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestArticleLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/articles", map[string]any{"title": "HTML Basics", "tags": []string{"web"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	article := decode[content.Article](t, rec)
	require.Equal(t, "html-basics", article.Slug)
	require.Equal(t, "admin-1", article.CreatedBy)

	rec = do(t, srv, http.MethodPut, "/api/v1/admin/articles/"+article.ID+"/content", map[string]any{
		"chapters": []map[string]any{{
			"title":    "Start",
			"sections": []map[string]any{{"title": "Intro", "markdown": "Learn about **tags** and postgres"}},
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/v1/articles/by-slug/html-basics", nil)
	require.Equal(t, http.StatusNotFound, rec.Code, "drafts are not public")

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/articles/"+article.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 2, decode[content.Article](t, rec).Version)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/articles/"+article.ID+"/publish", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decode[map[string]any](t, rec)
	require.Equal(t, article.ID, problem["resource_id"])

	rec = do(t, srv, http.MethodGet, "/api/v1/articles/by-slug/html-basics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	public := decode[content.Article](t, rec)
	require.Contains(t, public.Chapters[0].Sections[0].HTML, "<strong>tags</strong>")

	rec = do(t, srv, http.MethodGet, "/api/v1/articles/by-id/"+article.ID+"/toc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Intro", decode[content.TableOfContents](t, rec).Chapters[0].Sections[0].Title)

	rec = do(t, srv, http.MethodGet, "/api/v1/search?q=postgres", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[content.SearchResults](t, rec)
	require.Equal(t, 1, results.TotalCount)
	require.Equal(t, content.ResultKindSection, results.Results[0].Kind)

	rec = do(t, srv, http.MethodGet, "/api/v1/articles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decode[content.ArticlePage](t, rec).TotalCount)
}

func TestRevisionAsYAML(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/articles", map[string]any{"title": "Yaml Please"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[content.Article](t, rec).ID

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/articles/"+id+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/articles/"+id+"/revisions/2", nil, "Accept", "application/yaml")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var rev content.RevisionDetail
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &rev))
	require.Equal(t, 2, rev.Version)
	require.Equal(t, "yaml-please", rev.Snapshot.Slug)

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/articles/"+id+"/revisions/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "malformed id", method: http.MethodGet, path: "/api/v1/admin/articles/not-a-uuid", want: http.StatusBadRequest},
		{name: "unknown article", method: http.MethodGet, path: "/api/v1/admin/articles/00000000-0000-0000-0000-000000000000", want: http.StatusNotFound},
		{name: "missing title", method: http.MethodPost, path: "/api/v1/admin/articles", body: map[string]any{}, want: http.StatusBadRequest},
		{name: "bad status filter", method: http.MethodGet, path: "/api/v1/admin/articles?status=ARCHIVED", want: http.StatusBadRequest},
		{name: "bad limit", method: http.MethodGet, path: "/api/v1/articles?limit=ten", want: http.StatusBadRequest},
		{name: "search size too large", method: http.MethodGet, path: "/api/v1/search?q=x&size=1000", want: http.StatusBadRequest},
		{name: "health", method: http.MethodGet, path: "/health", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminRoutesNeedIdentity(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/articles", map[string]any{"title": "Nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/search?q=anything", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadImageOverHTTP(t *testing.T) {
	srv := newTestServer(t, false)

	send := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "cover.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads/images", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	rec := send()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, strings.HasPrefix(decode[map[string]any](t, rec)["url"].(string), "/uploads/images/"))

	// the test limiter admits one upload per minute
	rec = send()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
