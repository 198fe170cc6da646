package content

import (
	"errors"
	"strings"
	"testing"

	"folio/internal/domain"
	contentSvc "folio/internal/domain/services/content"
)

func TestValidateCreateArticle(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		req     contentSvc.CreateArticleRequest
		wantErr bool
	}{
		{name: "minimal", req: contentSvc.CreateArticleRequest{Title: "Go"}},
		{name: "missing title", req: contentSvc.CreateArticleRequest{}, wantErr: true},
		{name: "absolute cover", req: contentSvc.CreateArticleRequest{Title: "Go", CoverImageURL: str("https://cdn.example.com/a.png")}},
		{name: "uploaded cover", req: contentSvc.CreateArticleRequest{Title: "Go", CoverImageURL: str("/uploads/images/2024/03/09/a.png")}},
		{name: "garbage cover", req: contentSvc.CreateArticleRequest{Title: "Go", CoverImageURL: str("not a url")}, wantErr: true},
		{name: "protocol-relative cover", req: contentSvc.CreateArticleRequest{Title: "Go", CoverImageURL: str("//evil example")}, wantErr: true},
		{name: "long summary", req: contentSvc.CreateArticleRequest{Title: "Go", Summary: str(strings.Repeat("s", 2001))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreateArticle(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateCreateArticle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error %v should match ErrValidation", err)
			}
		})
	}
}
