package content

import "folio/internal/utils"

// TableOfContents is the navigation outline of a published article.
type TableOfContents struct {
	ArticleID      string       `json:"article_id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	WordCount      int          `json:"word_count"`
	ReadingMinutes int          `json:"reading_minutes"`
	Chapters       []TOCChapter `json:"chapters"`
}

type TOCChapter struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Sections []TOCSection `json:"sections"`
}

type TOCSection struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
}

// BuildTableOfContents strips bodies from a detailed article, keeping only
// their word counts.
func BuildTableOfContents(a *Article) *TableOfContents {
	toc := &TableOfContents{
		ArticleID: a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Chapters:  make([]TOCChapter, 0, len(a.Chapters)),
	}
	for _, ch := range a.Chapters {
		tc := TOCChapter{ID: ch.ID, Title: ch.Title, Sections: make([]TOCSection, 0, len(ch.Sections))}
		for _, sec := range ch.Sections {
			words := utils.CountWords(sec.Markdown)
			toc.WordCount += words
			tc.Sections = append(tc.Sections, TOCSection{ID: sec.ID, Title: sec.Title, WordCount: words})
		}
		toc.Chapters = append(toc.Chapters, tc)
	}
	toc.ReadingMinutes = utils.ReadingMinutes(toc.WordCount)
	return toc
}
