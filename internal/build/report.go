package build

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/bookbuilder/internal/preprocess"
)

// Writing status thresholds, in words.
const (
	EmptyBelow = 50
	DraftBelow = 2000
)

// Status describes how far along a page's prose is.
type Status string

const (
	StatusEmpty Status = "empty"
	StatusDraft Status = "draft"
	StatusDone  Status = "done"
	// StatusFront marks the title and contents pages, which are not prose.
	StatusFront Status = "front"
)

// PageResult is the outcome of one page in a pass.
type PageResult struct {
	Title       string
	File        string
	Path        string
	Number      string
	Part        string
	Skipped     bool
	Words       int
	Status      Status
	Defects     preprocess.Defects
	BrokenLinks []string
	Duration    time.Duration
}

// IsChapter reports whether the page is a numbered chapter that counts
// towards the book's progress.
func (r *PageResult) IsChapter() bool {
	return r.Part != ""
}

// Report summarizes a pass.
type Report struct {
	BuildID   string
	StartTime time.Time
	Duration  time.Duration
	Pages     []*PageResult
	Built     int
	Skipped   int
}

func (r *Report) add(p *PageResult) {
	r.Pages = append(r.Pages, p)
	if p.Skipped {
		r.Skipped++
	} else {
		r.Built++
	}
}

// Defects returns the number of section defects across the built pages.
func (r *Report) Defects() int {
	n := 0
	for _, p := range r.Pages {
		n += p.Defects.Count()
	}
	return n
}

// Progress estimates how much of the book is written, from the chapters
// built in the pass.
type Progress struct {
	Chapters       int
	Unfinished     int
	TotalWords     int
	EstimatedWords int
	Percent        int
}

// Progress computes the writing progress. Only finished chapters count
// towards the total; every unfinished chapter is assumed to end up as long
// as the average finished one.
func (r *Report) Progress() Progress {
	var p Progress
	for _, page := range r.Pages {
		if page.Skipped || !page.IsChapter() {
			continue
		}
		p.Chapters++
		if page.Status == StatusDone {
			p.TotalWords += page.Words
		} else {
			p.Unfinished++
		}
	}

	p.EstimatedWords = p.TotalWords
	if finished := p.Chapters - p.Unfinished; finished > 0 {
		p.EstimatedWords += p.Unfinished * (p.TotalWords / finished)
	}
	if p.EstimatedWords > 0 {
		p.Percent = p.TotalWords * 100 / p.EstimatedWords
	}
	return p
}

func (b *Builder) classify(page *preprocess.Page, words int) Status {
	if page.Title == b.cfg.Book.TitlePage || page.Title == b.cfg.Book.ContentsPage {
		return StatusFront
	}
	switch {
	case words < EmptyBelow:
		return StatusEmpty
	case words < DraftBelow && page.Part != "":
		return StatusDraft
	default:
		return StatusDone
	}
}

// CountWords counts the words of prose in an HTML fragment. Code blocks are
// not prose and are skipped.
func CountWords(fragment string) int {
	z := html.NewTokenizer(strings.NewReader(fragment))
	words := 0
	inPre := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return words
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "pre" {
				inPre++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "pre" && inPre > 0 {
				inPre--
			}
		case html.TextToken:
			if inPre == 0 {
				words += len(strings.Fields(string(z.Text())))
			}
		}
	}
}
