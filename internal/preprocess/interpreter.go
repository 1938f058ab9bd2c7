// Package preprocess interprets a chapter's markdown source line by line,
// resolving directives, numbering headers and splicing in code sections.
//
// Directive lines start with a caret:
//
//	^title Hash Tables
//	^part A Bytecode Interpreter in C
//	^template part
//	^code 4 (2 before, 1 after)
//
// An unknown command or a malformed code argument aborts the build. Problems
// with the sections themselves are written into the output instead.
package preprocess

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/bookbuilder/internal/codeblock"
	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/sections"
	"git.home.luguber.info/inful/bookbuilder/internal/toc"
	"git.home.luguber.info/inful/bookbuilder/internal/tracker"
)

const (
	directiveMarker  = "^"
	challengesMarker = "## Challenges"
	designNoteMarker = "## Design Note:"
	softHyphen       = "&shy;"
	hairSpace        = "&#8202;"
)

var headerPattern = regexp.MustCompile(`^(#{2,3})[ \t]+(.*?)[ \t]*$`)

// Interpreter preprocesses chapters against a TOC and a section provider.
// It holds no per-chapter state and can be reused for every page of a pass.
type Interpreter struct {
	toc       *toc.TOC
	provider  sections.Provider
	formatter *codeblock.Formatter
	logger    *slog.Logger
}

// New creates an Interpreter.
func New(book *toc.TOC, provider sections.Provider, formatter *codeblock.Formatter) *Interpreter {
	if formatter == nil {
		formatter = codeblock.NewFormatter(nil)
	}
	return &Interpreter{toc: book, provider: provider, formatter: formatter, logger: slog.Default()}
}

// WithLogger returns a copy of the interpreter that logs to logger.
func (in *Interpreter) WithLogger(logger *slog.Logger) *Interpreter {
	cp := *in
	cp.logger = logger
	return &cp
}

type phase int

const (
	awaitingTitle phase = iota
	inBody
)

// state is the accumulator threaded through the fold over a chapter's lines.
type state struct {
	phase         phase
	title         string
	titleHTML     string
	part          string
	template      string
	banners       []string
	out           strings.Builder
	nav           []NavEntry
	header        int
	subheader     int
	hasChallenges bool
	designNote    string
	tracker       *tracker.Tracker
	defects       Defects
}

// Interpret preprocesses one chapter's source text.
func (in *Interpreter) Interpret(source string) (*Page, error) {
	st := &state{template: DefaultTemplate}

	for i, line := range splitLines(source) {
		if err := in.step(st, line); err != nil {
			if classified, ok := errors.AsClassified(err); ok {
				return nil, classified.AtLine(st.title, i+1)
			}
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return in.finish(st)
}

func (in *Interpreter) step(st *state, line string) error {
	stripped := strings.TrimLeft(line, " \t")
	indentation := line[:len(line)-len(stripped)]

	switch {
	case strings.HasPrefix(stripped, directiveMarker):
		return in.directive(st, stripped)

	case strings.HasPrefix(stripped, challengesMarker):
		st.hasChallenges = true
		st.out.WriteString(`<h2><a href="#challenges" name="challenges">Challenges</a></h2>` + "\n")

	case strings.HasPrefix(stripped, designNoteMarker):
		st.designNote = strings.TrimSpace(strings.TrimPrefix(stripped, designNoteMarker))
		fmt.Fprintf(&st.out, `<h2><a href="#design-note" name="design-note">Design Note: %s</a></h2>`+"\n", st.designNote)

	case headerPattern.MatchString(stripped):
		return in.header(st, indentation, stripped)

	default:
		st.out.WriteString(Pretty(line + "\n"))
	}
	return nil
}

func (in *Interpreter) directive(st *state, stripped string) error {
	command, arg, _ := strings.Cut(strings.TrimPrefix(stripped, directiveMarker), " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "title":
		if st.phase == inBody {
			in.logger.Warn("Chapter declares a second title; reloading its sections",
				logfields.Chapter(st.title), slog.String("new_title", arg))
		}
		st.titleHTML = arg
		st.title = strings.ReplaceAll(arg, softHyphen, "")
		st.tracker = tracker.New(in.provider.FindAll(st.title), in.formatter)
		st.phase = inBody
	case "part":
		st.part = arg
	case "template":
		st.template = arg
	case "code":
		return in.code(st, arg)
	default:
		return errors.DirectiveError("unknown directive command").
			WithContext("command", command).
			WithContext("argument", arg).
			Build()
	}
	return nil
}

func (in *Interpreter) code(st *state, arg string) error {
	if st.tracker == nil {
		// No title yet means no sections; every reference resolves as undefined.
		st.tracker = tracker.New(nil, in.formatter)
	}
	res, err := st.tracker.Resolve(arg)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case tracker.Undefined:
		st.defects.Undefined = append(st.defects.Undefined, res.Number)
		in.logger.Warn("Undefined code section", logfields.Chapter(st.title), logfields.Section(res.Number))
	case tracker.Reused:
		st.defects.Reused = append(st.defects.Reused, res.Number)
		in.logger.Warn("Reused code section", logfields.Chapter(st.title), logfields.Section(res.Number))
	}
	if res.Banner != "" {
		st.banners = append(st.banners, res.Banner)
	}
	st.out.WriteString(res.Markup)
	if !strings.HasSuffix(res.Markup, "\n") {
		st.out.WriteString("\n")
	}
	return nil
}

func (in *Interpreter) header(st *state, indentation, stripped string) error {
	groups := headerPattern.FindStringSubmatch(stripped)
	level, raw := groups[1], groups[2]

	chapterNumber, err := in.toc.NumberOf(st.title)
	if err != nil {
		return err
	}

	text := Pretty(raw)
	anchor := in.toc.FileName(raw)

	var number string
	if len(level) == 2 {
		st.header++
		st.subheader = 0
		number = fmt.Sprintf("%s%s.%s%d", chapterNumber, hairSpace, hairSpace, st.header)
		st.nav = append(st.nav, NavEntry{Index: st.header, Text: text, Anchor: anchor})
	} else {
		st.subheader++
		number = fmt.Sprintf("%s%s.%s%d%s.%s%d", chapterNumber, hairSpace, hairSpace, st.header, hairSpace, hairSpace, st.subheader)
	}

	fmt.Fprintf(&st.out, "%s%s <a href=\"#%s\" name=\"%s\"><small>%s</small> %s</a>\n",
		indentation, level, anchor, anchor, number, text)
	return nil
}

func (in *Interpreter) finish(st *state) (*Page, error) {
	if st.phase == awaitingTitle {
		return nil, errors.DirectiveError("page has no ^title directive").Build()
	}
	number, err := in.toc.NumberOf(st.title)
	if err != nil {
		return nil, err
	}

	var body strings.Builder
	count := 0
	if st.tracker != nil {
		count = st.tracker.Len()
		st.defects.Unused = st.tracker.Unused()
		for _, n := range st.defects.Unused {
			body.WriteString(tracker.UnusedMarker(n))
		}
		if len(st.defects.Unused) > 0 {
			in.logger.Warn("Unused code sections", logfields.Chapter(st.title), slog.Any("sections", st.defects.Unused))
		}
	}
	for _, banner := range st.banners {
		body.WriteString(banner)
	}
	body.WriteString(st.out.String())

	prev, _ := in.toc.AdjacentPage(st.title, -1)
	next, _ := in.toc.AdjacentPage(st.title, 1)

	return &Page{
		Title:         st.title,
		TitleHTML:     st.titleHTML,
		Part:          st.part,
		Template:      st.template,
		Markdown:      body.String(),
		Number:        number,
		Sections:      st.nav,
		Chapters:      in.toc.ChaptersOfPart(st.title),
		DesignNote:    st.designNote,
		HasChallenges: st.hasChallenges,
		Prev:          prev,
		Next:          next,
		SectionCount:  count,
		Defects:       st.defects,
	}, nil
}

func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	if source == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(source, "\n"), "\n")
}
