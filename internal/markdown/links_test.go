package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links := NewRenderer().ExtractLinks("See [hash tables](hash-tables.html) for details.")
	require.Len(t, links, 1)
	assert.Equal(t, LinkKindInline, links[0].Kind)
	assert.Equal(t, "hash-tables.html", links[0].Destination)
}

func TestExtractLinks_ImageAndAutoLink(t *testing.T) {
	links := NewRenderer().ExtractLinks("![Diagram](image/strings/obj.png)\n\n<https://example.com/path>\n")
	require.Len(t, links, 2)
	assert.Equal(t, Link{Kind: LinkKindImage, Destination: "image/strings/obj.png"}, links[0])
	assert.Equal(t, Link{Kind: LinkKindAuto, Destination: "https://example.com/path"}, links[1])
}

func TestExtractLinks_ReferenceDefinition(t *testing.T) {
	links := NewRenderer().ExtractLinks("See [strings][ref].\n\n[ref]: strings.html\n")
	require.Len(t, links, 2)
	assert.Equal(t, LinkKindInline, links[0].Kind)
	assert.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	assert.Equal(t, "strings.html", links[1].Destination)
}

func TestExtractLinks_SkipsCode(t *testing.T) {
	src := "Inline `[Link](ignored.html)`\n\n```\n[Link](ignored-too.html)\n```\n"
	assert.Empty(t, NewRenderer().ExtractLinks(src))
}

func TestLinkIsLocalPage(t *testing.T) {
	cases := []struct {
		link Link
		want bool
		file string
	}{
		{Link{Kind: LinkKindInline, Destination: "strings.html#concatenation"}, true, "strings"},
		{Link{Kind: LinkKindReferenceDefinition, Destination: "hash-tables.html"}, true, "hash-tables"},
		{Link{Kind: LinkKindInline, Destination: "https://example.com/a.html"}, false, ""},
		{Link{Kind: LinkKindInline, Destination: "#strings"}, false, ""},
		{Link{Kind: LinkKindInline, Destination: "../site/strings.html"}, false, ""},
		{Link{Kind: LinkKindImage, Destination: "strings.html"}, false, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.link.IsLocalPage(), tc.link.Destination)
		if tc.want {
			assert.Equal(t, tc.file, tc.link.PageFile())
		}
	}
}
