package content

import (
	"fmt"

	"folio/internal/domain"
	models "folio/internal/domain/models/content"
)

// desiredChapter is a normalized chapter of a ReplaceContent request;
// section markdown has already been converted.
type desiredChapter struct {
	ID       string
	Title    string
	Sections []desiredSection
}

type desiredSection struct {
	ID       string
	Title    string
	Markdown string
}

// buildTreeDiff compares the stored tree of current (detailed depth) with the
// desired tree and tag set. Children referenced by id keep their identity,
// new children get ids from newID, and anything not referenced is deleted.
// Order index is the position in the desired slices.
func buildTreeDiff(current *models.Article, desired []desiredChapter, tags []models.Tag, newID func() string) (*models.TreeDiff, error) {
	diff := &models.TreeDiff{ArticleID: current.ID}

	chapters := make(map[string]models.Chapter, len(current.Chapters))
	sections := make(map[string]models.Section)
	for _, ch := range current.Chapters {
		chapters[ch.ID] = ch
		for _, sec := range ch.Sections {
			sections[sec.ID] = sec
		}
	}

	keptChapters := make(map[string]bool, len(desired))
	keptSections := make(map[string]bool)

	for ci, dc := range desired {
		chapterID := dc.ID
		if chapterID == "" {
			chapterID = newID()
			diff.ChapterInserts = append(diff.ChapterInserts, models.Chapter{
				ID:         chapterID,
				ArticleID:  current.ID,
				Title:      dc.Title,
				OrderIndex: ci,
			})
		} else {
			existing, ok := chapters[chapterID]
			if !ok {
				return nil, &domain.ValidationError{Field: "chapters", Message: fmt.Sprintf("chapter %s does not belong to this article", chapterID)}
			}
			if keptChapters[chapterID] {
				return nil, &domain.ValidationError{Field: "chapters", Message: fmt.Sprintf("chapter %s listed twice", chapterID)}
			}
			if existing.Title != dc.Title || existing.OrderIndex != ci {
				diff.ChapterUpdates = append(diff.ChapterUpdates, models.Chapter{
					ID:         chapterID,
					ArticleID:  current.ID,
					Title:      dc.Title,
					OrderIndex: ci,
				})
			}
		}
		keptChapters[chapterID] = true

		for si, ds := range dc.Sections {
			if ds.ID == "" {
				diff.SectionInserts = append(diff.SectionInserts, models.Section{
					ID:         newID(),
					ChapterID:  chapterID,
					Title:      ds.Title,
					OrderIndex: si,
					Markdown:   ds.Markdown,
				})
				continue
			}

			existing, ok := sections[ds.ID]
			if !ok {
				return nil, &domain.ValidationError{Field: "sections", Message: fmt.Sprintf("section %s does not belong to this article", ds.ID)}
			}
			if keptSections[ds.ID] {
				return nil, &domain.ValidationError{Field: "sections", Message: fmt.Sprintf("section %s listed twice", ds.ID)}
			}
			keptSections[ds.ID] = true

			if existing.ChapterID != chapterID || existing.Title != ds.Title ||
				existing.OrderIndex != si || existing.Markdown != ds.Markdown {
				diff.SectionUpdates = append(diff.SectionUpdates, models.Section{
					ID:         ds.ID,
					ChapterID:  chapterID,
					Title:      ds.Title,
					OrderIndex: si,
					Markdown:   ds.Markdown,
				})
			}
		}
	}

	// walk the stored tree rather than the maps so the diff is deterministic
	for _, ch := range current.Chapters {
		for _, sec := range ch.Sections {
			if !keptSections[sec.ID] {
				diff.SectionDeletes = append(diff.SectionDeletes, sec.ID)
			}
		}
		if !keptChapters[ch.ID] {
			diff.ChapterDeletes = append(diff.ChapterDeletes, ch.ID)
		}
	}

	if tags != nil {
		diff.TagLinks, diff.TagUnlinks = diffTags(current.Tags, tags)
	}

	return diff, nil
}

// diffTags returns tag ids to link (in desired order) and to unlink
func diffTags(current, desired []models.Tag) (links, unlinks []string) {
	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t.ID] = true
	}
	want := make(map[string]bool, len(desired))
	for _, t := range desired {
		want[t.ID] = true
		if !have[t.ID] {
			links = append(links, t.ID)
		}
	}
	for _, t := range current {
		if !want[t.ID] {
			unlinks = append(unlinks, t.ID)
		}
	}
	return links, unlinks
}
