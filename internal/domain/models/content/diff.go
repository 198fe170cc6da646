package content

// TreeDiff is the reconciliation plan between an article's stored tree and a
// desired one. New children carry pre-assigned ids so that new sections can
// reference new chapters within the same diff.
type TreeDiff struct {
	ArticleID string

	ChapterDeletes []string
	ChapterUpdates []Chapter // Title and OrderIndex
	ChapterInserts []Chapter // Sections are ignored; they live in SectionInserts

	SectionDeletes []string
	SectionUpdates []Section // ChapterID, Title, OrderIndex, Markdown
	SectionInserts []Section

	TagLinks   []string // Tag ids to attach
	TagUnlinks []string // Tag ids to detach
}

// IsEmpty reports whether applying the diff would change nothing.
func (d *TreeDiff) IsEmpty() bool {
	return len(d.ChapterDeletes) == 0 && len(d.ChapterUpdates) == 0 && len(d.ChapterInserts) == 0 &&
		len(d.SectionDeletes) == 0 && len(d.SectionUpdates) == 0 && len(d.SectionInserts) == 0 &&
		len(d.TagLinks) == 0 && len(d.TagUnlinks) == 0
}
