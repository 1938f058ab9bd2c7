package toc

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

// Chapter is a single chapter page.
type Chapter struct {
	Name       string   `yaml:"name"`
	Topics     []string `yaml:"topics,omitempty"`
	DesignNote string   `yaml:"design_note,omitempty"`
}

// Part groups chapters. An empty Name marks front or back matter.
type Part struct {
	Name     string    `yaml:"name"`
	Chapters []Chapter `yaml:"chapters"`
}

// IsMatter reports whether the part holds unnumbered front or back matter.
func (p Part) IsMatter() bool { return p.Name == "" }

// NumberedChapter pairs a chapter with its book-global number.
type NumberedChapter struct {
	Number int
	Name   string
}

// TOC is the immutable table of contents with its derived tables.
type TOC struct {
	parts        []Part
	numbers      map[string]string
	chapterNums  map[string]int
	pages        []string
	pageIndex    map[string]int
	titlePage    string
	contentsPage string
}

// Option configures a TOC.
type Option func(*TOC)

// WithTitlePage names the page written to index.html.
func WithTitlePage(name string) Option {
	return func(t *TOC) { t.titlePage = name }
}

// WithContentsPage names the page written to contents.html.
func WithContentsPage(name string) Option {
	return func(t *TOC) { t.contentsPage = name }
}

// New builds a TOC and derives its numbering table and page sequence.
func New(parts []Part, opts ...Option) (*TOC, error) {
	t := &TOC{
		parts:       clone(parts),
		numbers:     make(map[string]string),
		chapterNums: make(map[string]int),
		pageIndex:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.number(); err != nil {
		return nil, err
	}
	t.flatten()
	return t, nil
}

// number assigns display numbers in a single left-to-right pass.
func (t *TOC) number() error {
	partNum := 1
	chapterNum := 1
	for _, part := range t.parts {
		if !part.IsMatter() {
			if _, dup := t.numbers[part.Name]; dup {
				return errors.TOCError("duplicate part name").WithContext("name", part.Name).Build()
			}
			numeral, err := Roman(partNum)
			if err != nil {
				return err
			}
			t.numbers[part.Name] = numeral
			partNum++
		}

		for _, chapter := range part.Chapters {
			if chapter.Name == "" {
				return errors.TOCError("chapter without a name").WithContext("part", part.Name).Build()
			}
			if _, dup := t.numbers[chapter.Name]; dup {
				return errors.TOCError("duplicate chapter name").WithContext("name", chapter.Name).Build()
			}
			if part.IsMatter() {
				t.numbers[chapter.Name] = ""
				continue
			}
			t.numbers[chapter.Name] = strconv.Itoa(chapterNum)
			t.chapterNums[chapter.Name] = chapterNum
			chapterNum++
		}
	}
	return nil
}

func (t *TOC) flatten() {
	for _, part := range t.parts {
		if !part.IsMatter() {
			t.addPage(part.Name)
		}
		for _, chapter := range part.Chapters {
			t.addPage(chapter.Name)
		}
	}
}

func (t *TOC) addPage(name string) {
	t.pageIndex[name] = len(t.pages)
	t.pages = append(t.pages, name)
}

// NumberOf returns the display number of a part or chapter. A name that is
// not declared in the TOC is a fatal authoring error.
func (t *TOC) NumberOf(name string) (string, error) {
	number, ok := t.numbers[name]
	if !ok {
		return "", errors.TOCError("page is not declared in the table of contents").
			WithContext("name", name).
			Build()
	}
	return number, nil
}

// ChaptersOfPart returns the chapters of the named part with their numbers,
// or nil when name is not a numbered part.
func (t *TOC) ChaptersOfPart(name string) []NumberedChapter {
	if name == "" {
		return nil
	}
	for _, part := range t.parts {
		if part.Name != name {
			continue
		}
		chapters := make([]NumberedChapter, 0, len(part.Chapters))
		for _, chapter := range part.Chapters {
			chapters = append(chapters, NumberedChapter{Number: t.chapterNums[chapter.Name], Name: chapter.Name})
		}
		return chapters
	}
	return nil
}

// AdjacentPage returns the page offset positions away from name in the page
// sequence. It reports false past either end or for unknown pages.
func (t *TOC) AdjacentPage(name string, offset int) (string, bool) {
	index, ok := t.pageIndex[name]
	if !ok {
		return "", false
	}
	index += offset
	if index < 0 || index >= len(t.pages) {
		return "", false
	}
	return t.pages[index], true
}

// Pages returns the linear page sequence.
func (t *TOC) Pages() []string {
	return slices.Clone(t.pages)
}

// Parts returns a copy of the part tree.
func (t *TOC) Parts() []Part {
	return clone(t.parts)
}

// Chapter looks up a chapter by name.
func (t *TOC) Chapter(name string) (Chapter, bool) {
	for _, part := range t.parts {
		for _, chapter := range part.Chapters {
			if chapter.Name == name {
				return chapter, true
			}
		}
	}
	return Chapter{}, false
}

// FileName maps a page title to its output file name (without extension).
// The title and contents pages get reserved names; everything else is slugged.
func (t *TOC) FileName(title string) string {
	if title != "" {
		switch title {
		case t.titlePage:
			return "index"
		case t.contentsPage:
			return "contents"
		}
	}
	return Slug(title)
}

var slugStrip = regexp.MustCompile(`[,.?!:/"]`)

// Slug lowercases title, turns spaces into hyphens and drops punctuation.
// Titles are NFC-normalized first, so composed and decomposed accents give
// the same file name.
func Slug(title string) string {
	slug := strings.ReplaceAll(strings.ToLower(norm.NFC.String(title)), " ", "-")
	return slugStrip.ReplaceAllString(slug, "")
}

// Roman converts 1 through 9 to roman numerals. A book never has more parts
// than that; anything else is a configuration error.
func Roman(n int) (string, error) {
	switch {
	case n >= 1 && n <= 3:
		return strings.Repeat("I", n), nil
	case n == 4:
		return "IV", nil
	case n >= 5 && n <= 9:
		return "V" + strings.Repeat("I", n-5), nil
	default:
		return "", errors.TOCError("cannot convert part number to roman numerals").
			WithContext("number", n).
			Build()
	}
}

func clone(parts []Part) []Part {
	out := make([]Part, len(parts))
	for i, part := range parts {
		out[i] = Part{Name: part.Name, Chapters: make([]Chapter, len(part.Chapters))}
		for j, chapter := range part.Chapters {
			chapter.Topics = slices.Clone(chapter.Topics)
			out[i].Chapters[j] = chapter
		}
	}
	return out
}
