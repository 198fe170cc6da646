package converter

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	contentSvc "folio/internal/domain/services/content"
	"folio/internal/service/content/converter/sanitizer"
)

// htmlConverter turns submitted HTML section bodies into markdown in two
// stages: sanitize, then convert.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to markdown converter.
func NewHTMLConverter() contentSvc.HTMLImporter {
	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, &md.Options{
			HeadingStyle:     "atx",
			CodeBlockStyle:   "fenced",
			BulletListMarker: "-",
		}),
	}
}

// ConvertHTML sanitizes html and converts the result to markdown
func (c *htmlConverter) ConvertHTML(html string) (string, error) {
	sanitized := c.sanitizer.Sanitize(html)

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}
