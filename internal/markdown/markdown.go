// Package markdown renders preprocessed chapter bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to HTML. Raw HTML in the source is passed
// through, since code sections and numbered headers arrive as markup.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a renderer with tables, footnotes, definition lists and
// smart punctuation enabled.
func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// Render converts source to an HTML fragment.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
