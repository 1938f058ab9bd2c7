package preprocess

import "git.home.luguber.info/inful/bookbuilder/internal/toc"

// DefaultTemplate is used when a chapter has no template directive.
const DefaultTemplate = "page"

// NavEntry is one level-2 header in a chapter's section navigation.
type NavEntry struct {
	Index  int
	Text   string // HTML
	Anchor string
}

// Defects lists the code/prose drift found while interpreting a chapter.
type Defects struct {
	Undefined []int
	Reused    []int
	Unused    []int
}

// Count returns the total number of defects.
func (d Defects) Count() int {
	return len(d.Undefined) + len(d.Reused) + len(d.Unused)
}

// Page is everything the renderer and templates need for one page.
type Page struct {
	Title     string
	TitleHTML string
	Part      string
	Template  string
	// Markdown is the preprocessed chapter body, ready for the markdown renderer.
	Markdown      string
	Number        string
	Sections      []NavEntry
	Chapters      []toc.NumberedChapter
	DesignNote    string
	HasChallenges bool
	Prev          string
	Next          string
	SectionCount  int
	Defects       Defects
}
