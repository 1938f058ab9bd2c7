package codeblock

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns source text into HTML suitable for the inside of a <pre>.
type Highlighter interface {
	Highlight(language, source string) (string, error)
}

// PlainHighlighter only escapes the source.
type PlainHighlighter struct{}

// Highlight implements Highlighter.
func (PlainHighlighter) Highlight(_ string, source string) (string, error) {
	return html.EscapeString(source), nil
}

// ChromaHighlighter emits class-based chroma token spans. Styling comes from
// the site stylesheet, so no inline styles are written.
type ChromaHighlighter struct {
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter that leaves the <pre> wrapper to the caller.
func NewChromaHighlighter() *ChromaHighlighter {
	return &ChromaHighlighter{
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true)),
	}
}

// Highlight implements Highlighter. Unknown languages fall back to plain text.
func (c *ChromaHighlighter) Highlight(language, source string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := c.formatter.Format(&b, styles.Fallback, iterator); err != nil {
		return "", err
	}
	return b.String(), nil
}
