package markdown

import (
	"sort"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// IsLocalPage reports whether the link points at another page of the site,
// ignoring any fragment.
func (l Link) IsLocalPage() bool {
	if l.Kind == LinkKindImage || l.Kind == LinkKindAuto {
		return false
	}
	dest, _, _ := strings.Cut(l.Destination, "#")
	return strings.HasSuffix(dest, ".html") && !strings.Contains(dest, "://") && !strings.Contains(dest, "/")
}

// PageFile returns the destination without fragment or .html extension.
func (l Link) PageFile() string {
	dest, _, _ := strings.Cut(l.Destination, "#")
	return strings.TrimSuffix(dest, ".html")
}

// ExtractLinks parses source and returns its links, images, autolinks and
// reference definitions. Links inside code spans and code blocks are ignored.
func (r *Renderer) ExtractLinks(source string) []Link {
	body := []byte(source)
	ctx := parser.NewContext()
	root := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}
