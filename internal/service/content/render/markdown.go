package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	contentSvc "folio/internal/domain/services/content"
	"folio/internal/service/content/converter/sanitizer"
)

// markdownRenderer renders section markdown to HTML for public reads.
// goldmark escapes raw HTML by default; the sanitizer pass covers link and
// image URLs that the markdown itself may carry.
type markdownRenderer struct {
	md        goldmark.Markdown
	sanitizer *sanitizer.HTMLSanitizer
}

// NewMarkdownRenderer creates a renderer with GitHub-flavoured markdown.
// The goldmark instance is safe to share across goroutines.
func NewMarkdownRenderer() contentSvc.Renderer {
	return &markdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		sanitizer: sanitizer.NewHTMLSanitizer(),
	}
}

// RenderMarkdown converts markdown to sanitized HTML
func (r *markdownRenderer) RenderMarkdown(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
