// Package seed loads sample articles for local development.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	contentSvc "folio/internal/domain/services/content"

	"gopkg.in/yaml.v3"
)

//go:embed articles.yaml
var defaultFixtures []byte

// Fixture is one sample article with its tree
type Fixture struct {
	Title    string           `yaml:"title"`
	Summary  string           `yaml:"summary"`
	Tags     []string         `yaml:"tags"`
	Chapters []FixtureChapter `yaml:"chapters"`
}

type FixtureChapter struct {
	Title    string           `yaml:"title"`
	Sections []FixtureSection `yaml:"sections"`
}

type FixtureSection struct {
	Title    string `yaml:"title"`
	Markdown string `yaml:"markdown"`
}

// ParseFixtures decodes a YAML list of fixtures; nil data selects the
// built-in sample set
func ParseFixtures(data []byte) ([]Fixture, error) {
	if data == nil {
		data = defaultFixtures
	}
	var fixtures []Fixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return fixtures, nil
}

// Seeder creates fixtures through the regular services so slugs, tags and
// revisions follow the same rules as API writes
type Seeder struct {
	articles    contentSvc.ArticleService
	publication contentSvc.PublicationService
	logger      *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(articles contentSvc.ArticleService, publication contentSvc.PublicationService, logger *slog.Logger) *Seeder {
	return &Seeder{articles: articles, publication: publication, logger: logger}
}

// Result counts what a seed run did
type Result struct {
	Created   int
	Published int
	Skipped   bool
}

// Run creates every fixture as a draft and optionally publishes it. It does
// nothing when articles already exist, unless force is set.
func (s *Seeder) Run(ctx context.Context, fixtures []Fixture, createdBy string, publish, force bool) (*Result, error) {
	if !force {
		existing, err := s.articles.ListArticles(ctx, &contentSvc.ListArticlesRequest{Status: "ALL", Limit: 1})
		if err != nil {
			return nil, fmt.Errorf("check existing articles: %w", err)
		}
		if existing.TotalCount > 0 {
			s.logger.Info("articles already present, skipping seed", "count", existing.TotalCount)
			return &Result{Skipped: true}, nil
		}
	}

	result := &Result{}
	for _, f := range fixtures {
		req := &contentSvc.CreateArticleRequest{
			Title:     f.Title,
			Tags:      f.Tags,
			CreatedBy: createdBy,
		}
		if f.Summary != "" {
			summary := f.Summary
			req.Summary = &summary
		}

		article, err := s.articles.CreateArticle(ctx, req)
		if err != nil {
			return result, fmt.Errorf("create %q: %w", f.Title, err)
		}

		content := &contentSvc.ReplaceContentRequest{Tags: f.Tags}
		for _, ch := range f.Chapters {
			in := contentSvc.ChapterInput{Title: ch.Title}
			for _, sec := range ch.Sections {
				in.Sections = append(in.Sections, contentSvc.SectionInput{Title: sec.Title, Markdown: sec.Markdown})
			}
			content.Chapters = append(content.Chapters, in)
		}
		if _, err := s.articles.ReplaceContent(ctx, article.ID, content); err != nil {
			return result, fmt.Errorf("fill %q: %w", f.Title, err)
		}
		result.Created++
		s.logger.Info("seeded article", "id", article.ID, "slug", article.Slug)

		if publish {
			if _, err := s.publication.Publish(ctx, article.ID); err != nil {
				return result, fmt.Errorf("publish %q: %w", f.Title, err)
			}
			result.Published++
		}
	}
	return result, nil
}
