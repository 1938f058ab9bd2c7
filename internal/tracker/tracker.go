// Package tracker enforces that each code section of a chapter is spliced
// into the chapter exactly once.
//
// Drift between prose and code never fails a build. Undefined, reused and
// unused sections are reported as bold error text inside the page, placed at
// the top of the chapter and at the point of reference.
package tracker

import (
	"fmt"
	"html"
	"slices"
	"strings"

	"git.home.luguber.info/inful/bookbuilder/internal/codeblock"
	"git.home.luguber.info/inful/bookbuilder/internal/sections"
)

// Outcome classifies how a code directive resolved.
type Outcome int

const (
	Resolved Outcome = iota
	Undefined
	Reused
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Undefined:
		return "undefined"
	case Reused:
		return "reused"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Resolution is the result of resolving one code directive.
type Resolution struct {
	Outcome Outcome
	Number  int
	// Banner is prepended to the chapter output.
	Banner string
	// Markup is spliced in at the directive's position.
	Markup string
}

// UndefinedMarker and the other marker helpers produce the error text embedded in pages.
func UndefinedMarker(n int) string { return fmt.Sprintf("**ERROR: Undefined section %d**\n\n", n) }
func MissingMarker(n int) string   { return fmt.Sprintf("**ERROR: Missing section %d**\n", n) }
func ReusedMarker(n int) string    { return fmt.Sprintf("**ERROR: Reused section %d**\n", n) }
func UnusedMarker(n int) string    { return fmt.Sprintf("**ERROR: Unused section %d**\n\n", n) }

// Tracker is the consumption state of one chapter build. It must not be
// shared between chapters.
type Tracker struct {
	available map[int]*sections.Section
	consumed  map[int]bool
	formatter *codeblock.Formatter
}

// New creates a tracker over a chapter's sections. The map is copied.
func New(chapter map[int]*sections.Section, formatter *codeblock.Formatter) *Tracker {
	if formatter == nil {
		formatter = codeblock.NewFormatter(nil)
	}
	available := make(map[int]*sections.Section, len(chapter))
	for n, s := range chapter {
		available[n] = s
	}
	return &Tracker{
		available: available,
		consumed:  make(map[int]bool, len(chapter)),
		formatter: formatter,
	}
}

// Len returns the number of sections defined for the chapter.
func (t *Tracker) Len() int {
	return len(t.available) + len(t.consumed)
}

// Resolve consumes the section named by a code directive argument. Malformed
// arguments return an error; missing and reused sections do not.
func (t *Tracker) Resolve(arg string) (Resolution, error) {
	req, err := ParseArgument(arg)
	if err != nil {
		return Resolution{}, err
	}

	if t.consumed[req.Number] {
		return Resolution{
			Outcome: Reused,
			Number:  req.Number,
			Banner:  ReusedMarker(req.Number) + "\n",
			Markup:  ReusedMarker(req.Number),
		}, nil
	}
	section, ok := t.available[req.Number]
	if !ok {
		return Resolution{
			Outcome: Undefined,
			Number:  req.Number,
			Banner:  UndefinedMarker(req.Number),
			Markup:  MissingMarker(req.Number),
		}, nil
	}

	delete(t.available, req.Number)
	t.consumed[req.Number] = true

	markup, err := t.render(section, req)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Outcome: Resolved, Number: req.Number, Markup: markup}, nil
}

func (t *Tracker) render(s *sections.Section, req Request) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="codehilite">`)

	if req.Before > 0 {
		before, err := t.formatter.Format(s.Language, lastN(s.ContextBefore, req.Before), codeblock.KindInsertBefore)
		if err != nil {
			return "", err
		}
		b.WriteString(before)
	}

	where := "<em>" + html.EscapeString(s.Path) + "</em>"
	if s.Location != "" {
		where += "<br>\n" + s.Location
	}
	if s.IsReplace() {
		plural := "s"
		if len(s.Removed) == 1 {
			plural = ""
		}
		where += fmt.Sprintf("<br>\nreplace %d line%s", len(s.Removed), plural)
	}
	fmt.Fprintf(&b, "<div class=\"source-file\">%s</div>\n", where)

	if len(s.Removed) > 0 && len(s.Added) == 0 {
		removed, err := t.formatter.Format(s.Language, s.Removed, codeblock.KindDelete)
		if err != nil {
			return "", err
		}
		b.WriteString(removed)
	}

	if len(s.Added) > 0 {
		kind := codeblock.KindPlain
		if req.Before > 0 || req.After > 0 {
			kind = codeblock.KindInsert
		}
		added, err := t.formatter.Format(s.Language, s.Added, kind)
		if err != nil {
			return "", err
		}
		b.WriteString(added)
	}

	if req.After > 0 {
		after, err := t.formatter.Format(s.Language, firstN(s.ContextAfter, req.After), codeblock.KindInsertAfter)
		if err != nil {
			return "", err
		}
		b.WriteString(after)
	}

	b.WriteString("</div>")
	return b.String(), nil
}

// Unused returns the numbers of sections never consumed, in ascending order.
// Chapters with at most one section are exempt: they have not been sliced up
// into sections yet.
func (t *Tracker) Unused() []int {
	if t.Len() <= 1 {
		return nil
	}
	unused := make([]int, 0, len(t.available))
	for n := range t.available {
		unused = append(unused, n)
	}
	slices.Sort(unused)
	return unused
}

func lastN(lines []string, n int) []string {
	if n >= len(lines) {
		return lines
	}
	return lines[len(lines)-n:]
}

func firstN(lines []string, n int) []string {
	if n >= len(lines) {
		return lines
	}
	return lines[:n]
}
