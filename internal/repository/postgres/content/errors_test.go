package content

import (
	"errors"
	"fmt"
	"testing"

	"folio/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDuplicateConflict(t *testing.T) {
	tests := []struct {
		name         string
		constraint   string
		wantResource string
		wantMessage  string
	}{
		{name: "slug", constraint: "articles_slug_key", wantResource: "article", wantMessage: "slug 'guide' is already taken"},
		{name: "chapter order", constraint: "chapters_article_order_key", wantResource: "chapter", wantMessage: "chapter order index already taken"},
		{name: "section order", constraint: "sections_chapter_order_key", wantResource: "section", wantMessage: "section order index already taken"},
		{name: "primary key", constraint: "articles_pkey", wantResource: "article", wantMessage: "conflicting write, reload and retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			got := duplicateConflict(err, "guide")
			if got.ResourceType != tt.wantResource || got.Message != tt.wantMessage {
				t.Errorf("duplicateConflict() = %+v", got)
			}
			if !errors.Is(got, domain.ErrConflict) {
				t.Error("should match ErrConflict")
			}
		})
	}
}
