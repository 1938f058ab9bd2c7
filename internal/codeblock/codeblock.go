// Package codeblock renders slices of source lines as highlighted <pre> blocks.
//
// Markdown renderers drop leading and trailing blank lines from code blocks.
// The formatter strips them itself, counts them, and puts one <br> per
// stripped line just inside the block so the vertical whitespace survives.
package codeblock

import (
	"fmt"
	"strings"
)

// Kind selects the CSS class of the rendered block.
type Kind string

const (
	KindPlain        Kind = ""
	KindInsert       Kind = "insert"
	KindDelete       Kind = "delete"
	KindInsertBefore Kind = "insert-before"
	KindInsertAfter  Kind = "insert-after"
)

// LineBreak is the marker injected for each stripped blank line.
const LineBreak = "<br>"

// Formatter turns source lines into block markup.
type Formatter struct {
	highlighter Highlighter
}

// NewFormatter returns a formatter using h, or PlainHighlighter when h is nil.
func NewFormatter(h Highlighter) *Formatter {
	if h == nil {
		h = PlainHighlighter{}
	}
	return &Formatter{highlighter: h}
}

// Format renders lines written in language as a <pre> block of the given kind.
func (f *Formatter) Format(language string, lines []string, kind Kind) (string, error) {
	body, leading, trailing := TrimBlankLines(lines)

	highlighted := ""
	if len(body) > 0 {
		var err error
		highlighted, err = f.highlighter.Highlight(language, strings.Join(body, "\n")+"\n")
		if err != nil {
			return "", fmt.Errorf("highlight %s: %w", language, err)
		}
	}

	var b strings.Builder
	if kind == KindPlain {
		b.WriteString("<pre>")
	} else {
		fmt.Fprintf(&b, `<pre class="%s">`, kind)
	}
	b.WriteString(strings.Repeat(LineBreak, leading))
	// The block is spliced into markdown as raw HTML, which ends at the first
	// blank line, so newlines are written as character references.
	b.WriteString(strings.ReplaceAll(strings.TrimSuffix(highlighted, "\n"), "\n", "&#10;"))
	b.WriteString(strings.Repeat(LineBreak, trailing))
	b.WriteString("</pre>")
	return b.String(), nil
}

// TrimBlankLines strips whitespace-only lines from both ends of lines and
// returns the remaining lines with the number stripped from each end.
func TrimBlankLines(lines []string) (body []string, leading, trailing int) {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end], start, len(lines) - end
}
