package templates

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/preprocess"
	"git.home.luguber.info/inful/bookbuilder/internal/toc"
)

// NavItem links to one numbered section of the page.
type NavItem struct {
	Index  int
	Text   template.HTML
	Anchor string
}

// PageData is the value page templates execute against.
type PageData struct {
	BookTitle     string
	Title         string
	TitleHTML     template.HTML
	Part          string
	Number        string
	Body          template.HTML
	Sections      []NavItem
	Chapters      []toc.NumberedChapter
	DesignNote    string
	HasChallenges bool
	Prev          string
	Next          string
	TOC           []toc.Part
	Year          int
}

// NewPageData combines an interpreted page, its rendered body and the TOC.
func NewPageData(bookTitle string, page *preprocess.Page, body string, book *toc.TOC) PageData {
	nav := make([]NavItem, 0, len(page.Sections))
	for _, entry := range page.Sections {
		//nolint:gosec // header text from the book source
		nav = append(nav, NavItem{Index: entry.Index, Text: template.HTML(entry.Text), Anchor: entry.Anchor})
	}
	return PageData{
		BookTitle:     bookTitle,
		Title:         page.Title,
		TitleHTML:     template.HTML(page.TitleHTML), //nolint:gosec // authored in the book source
		Part:          page.Part,
		Number:        page.Number,
		Body:          template.HTML(body), //nolint:gosec // rendered from the book source
		Sections:      nav,
		Chapters:      page.Chapters,
		DesignNote:    page.DesignNote,
		HasChallenges: page.HasChallenges,
		Prev:          page.Prev,
		Next:          page.Next,
		TOC:           book.Parts(),
		Year:          time.Now().Year(),
	}
}
