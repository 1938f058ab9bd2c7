package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

func sampleParts() []Part {
	return []Part{
		{Chapters: []Chapter{{Name: "Crafting Interpreters"}, {Name: "Table of Contents"}}},
		{Name: "Welcome", Chapters: []Chapter{
			{Name: "Introduction", DesignNote: "What's in a Name?"},
			{Name: "A Map of the Territory"},
		}},
		{Name: "A Bytecode Interpreter in C", Chapters: []Chapter{
			{Name: "Strings", Topics: []string{"Objects", "Concatenation"}},
			{Name: "Hash Tables"},
		}},
	}
}

func newSample(t *testing.T) *TOC {
	t.Helper()
	book, err := New(sampleParts(), WithTitlePage("Crafting Interpreters"), WithContentsPage("Table of Contents"))
	require.NoError(t, err)
	return book
}

func TestNumbering(t *testing.T) {
	book := newSample(t)

	cases := map[string]string{
		"Crafting Interpreters":       "",
		"Table of Contents":           "",
		"Welcome":                     "I",
		"Introduction":                "1",
		"A Map of the Territory":      "2",
		"A Bytecode Interpreter in C": "II",
		"Strings":                     "3",
		"Hash Tables":                 "4",
	}
	for name, want := range cases {
		got, err := book.NumberOf(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestNumberOfMissIsFatal(t *testing.T) {
	book := newSample(t)

	_, err := book.NumberOf("Garbage Collection")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTOC))
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, classified.IsFatal())
}

func TestNumberingIsStable(t *testing.T) {
	first := newSample(t)
	second := newSample(t)
	for _, page := range first.Pages() {
		a, errA := first.NumberOf(page)
		b, errB := second.NumberOf(page)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, a, b, page)
	}
}

func TestChaptersOfPartUsesGlobalNumbers(t *testing.T) {
	book := newSample(t)

	assert.Equal(t, []NumberedChapter{{3, "Strings"}, {4, "Hash Tables"}},
		book.ChaptersOfPart("A Bytecode Interpreter in C"))
	assert.Equal(t, []NumberedChapter{{1, "Introduction"}, {2, "A Map of the Territory"}},
		book.ChaptersOfPart("Welcome"))
	assert.Nil(t, book.ChaptersOfPart("Strings"))
	assert.Nil(t, book.ChaptersOfPart(""))
}

func TestPages(t *testing.T) {
	book := newSample(t)

	assert.Equal(t, []string{
		"Crafting Interpreters", "Table of Contents",
		"Welcome", "Introduction", "A Map of the Territory",
		"A Bytecode Interpreter in C", "Strings", "Hash Tables",
	}, book.Pages())
}

func TestAdjacentPage(t *testing.T) {
	book, err := New([]Part{{Chapters: []Chapter{{Name: "A"}, {Name: "B"}, {Name: "C"}}}})
	require.NoError(t, err)

	prev, ok := book.AdjacentPage("B", -1)
	assert.True(t, ok)
	assert.Equal(t, "A", prev)

	next, ok := book.AdjacentPage("B", 1)
	assert.True(t, ok)
	assert.Equal(t, "C", next)

	_, ok = book.AdjacentPage("A", -1)
	assert.False(t, ok)
	_, ok = book.AdjacentPage("C", 1)
	assert.False(t, ok)
	_, ok = book.AdjacentPage("D", 1)
	assert.False(t, ok)
}

func TestRoman(t *testing.T) {
	want := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "VIIII"}
	for i, numeral := range want {
		got, err := Roman(i + 1)
		require.NoError(t, err)
		assert.Equal(t, numeral, got)
	}

	for _, n := range []int{0, 10, -1} {
		_, err := Roman(n)
		require.Error(t, err, n)
		assert.True(t, errors.HasCategory(err, errors.CategoryTOC))
	}
}

func TestTooManyPartsIsFatal(t *testing.T) {
	parts := make([]Part, 10)
	for i := range parts {
		parts[i] = Part{Name: string(rune('A' + i))}
	}
	_, err := New(parts)
	require.Error(t, err)
}

func TestDuplicateChapterNames(t *testing.T) {
	_, err := New([]Part{
		{Name: "One", Chapters: []Chapter{{Name: "Closures"}}},
		{Name: "Two", Chapters: []Chapter{{Name: "Closures"}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate chapter name")
}

func TestFileName(t *testing.T) {
	book := newSample(t)

	assert.Equal(t, "index", book.FileName("Crafting Interpreters"))
	assert.Equal(t, "contents", book.FileName("Table of Contents"))
	assert.Equal(t, "hash-tables", book.FileName("Hash Tables"))
	assert.Equal(t, "a-map-of-the-territory", book.FileName("A Map of the Territory"))
	assert.Equal(t, "what's-in-a-name", book.FileName(`What's in a Name?`))
	assert.Equal(t, "", book.FileName(""))
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Hash Tables":                  "hash-tables",
		"Why learn programming?":       "why-learn-programming",
		`Design: "Statements", again!`: "design-statements-again",
		"LL(k) grammars":               "ll(k)-grammars",
		"Compile/run":                  "compilerun",
		"Cafe\u0301 Crème":             "caf\u00e9-crème",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestPartsAreCopies(t *testing.T) {
	book := newSample(t)
	parts := book.Parts()
	parts[2].Chapters[0].Topics[0] = "changed"

	chapter, ok := book.Chapter("Strings")
	require.True(t, ok)
	assert.Equal(t, "Objects", chapter.Topics[0])
}
