package content

import (
	"context"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
	contentRepo "folio/internal/domain/repositories/content"
	contentSvc "folio/internal/domain/services/content"
)

// lockDraft locks the article row for the rest of the transaction and
// rejects structural edits of published articles
func lockDraft(ctx context.Context, articleRepo contentRepo.ArticleRepository, articleID string) (*models.Article, error) {
	article, err := articleRepo.LockByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.IsPublished() {
		return nil, domain.ErrImmutablePublished(article.ID)
	}
	return article, nil
}

// bodyToMarkdown converts a submitted section body into stored markdown
func bodyToMarkdown(importer contentSvc.HTMLImporter, format, body string) (string, error) {
	if format != formatHTML {
		return body, nil
	}
	markdown, err := importer.ConvertHTML(body)
	if err != nil {
		return "", &domain.ValidationError{Field: "markdown", Message: err.Error()}
	}
	return markdown, nil
}
