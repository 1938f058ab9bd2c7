package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookbuilder/internal/codeblock"
	"git.home.luguber.info/inful/bookbuilder/internal/config"
	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/metrics"
)

var examplePages = []string{"index", "contents", "welcome", "introduction", "a-tiny-interpreter", "strings", "hash-tables"}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	reloads  int
	outcomes map[metrics.BuildOutcome]int
	results  map[metrics.PageResult]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[metrics.BuildOutcome]int{}, results: map[metrics.PageResult]int{}}
}

func (r *countingRecorder) IncSectionReloads() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads++
}

func (r *countingRecorder) IncBuildOutcome(o metrics.BuildOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[o]++
}

func (r *countingRecorder) IncPageResult(p metrics.PageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[p]++
}

// exampleBook scaffolds the example book in a temp dir and ages every input
// so freshly written output is always newer.
func exampleBook(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	require.NoError(t, config.Init(path, false))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	_, err = config.Scaffold(cfg)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, filepath.WalkDir(dir, func(p string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chtimes(p, past, past)
	}))
	return cfg
}

func newBuilder(t *testing.T, cfg *config.Config, opts ...Option) *Builder {
	t.Helper()
	opts = append([]Option{WithHighlighter(codeblock.PlainHighlighter{})}, opts...)
	b, err := New(cfg, opts...)
	require.NoError(t, err)
	return b
}

func touch(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
}

func readOutput(t *testing.T, cfg *config.Config, file string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Paths.Output, file+".html"))
	require.NoError(t, err)
	return string(data)
}

func TestBuildWritesEveryPage(t *testing.T) {
	cfg := exampleBook(t)
	rec := newCountingRecorder()
	b := newBuilder(t, cfg, WithRecorder(rec))

	report, err := b.Build(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, len(examplePages), report.Built)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Defects())
	assert.NotEmpty(t, report.BuildID)

	for _, file := range examplePages {
		assert.FileExists(t, filepath.Join(cfg.Paths.Output, file+".html"))
	}

	strings := readOutput(t, cfg, "strings")
	assert.Contains(t, strings, "<title>Strings &middot; Example Book</title>")
	assert.Contains(t, strings, `<div class="codehilite">`)
	assert.Contains(t, strings, "typedef struct ObjString ObjString;")
	assert.Contains(t, strings, "replace 1 line")
	assert.Contains(t, strings, `name="object-types"`)
	assert.Contains(t, strings, `<a href="#concatenation">`)
	assert.Contains(t, strings, `href="a-tiny-interpreter.html"`)
	assert.Contains(t, strings, `href="hash-tables.html"`)
	assert.NotContains(t, strings, "ERROR")

	part := readOutput(t, cfg, "a-tiny-interpreter")
	assert.Contains(t, part, `<a href="strings.html">Strings</a>`)

	assert.Equal(t, 1, rec.reloads)
	assert.Equal(t, 1, rec.outcomes[metrics.BuildSuccess])
	assert.Equal(t, len(examplePages), rec.results[metrics.PageBuilt])
}

func TestBuildSkipsUpToDatePages(t *testing.T) {
	cfg := exampleBook(t)
	b := newBuilder(t, cfg)
	ctx := context.Background()

	_, err := b.Build(ctx, Options{SkipUpToDate: true})
	require.NoError(t, err)

	report, err := b.Build(ctx, Options{SkipUpToDate: true})
	require.NoError(t, err)
	assert.Zero(t, report.Built)
	assert.Equal(t, len(examplePages), report.Skipped)

	touch(t, cfg.ChapterPath("introduction"))
	report, err = b.Build(ctx, Options{SkipUpToDate: true})
	require.NoError(t, err)
	require.Equal(t, 1, report.Built)
	for _, page := range report.Pages {
		assert.Equal(t, page.File != "introduction", page.Skipped, page.File)
	}
}

func TestBuildTemplateChangeRebuildsEverything(t *testing.T) {
	cfg := exampleBook(t)
	b := newBuilder(t, cfg)
	ctx := context.Background()

	_, err := b.Build(ctx, Options{})
	require.NoError(t, err)

	page := filepath.Join(cfg.Paths.Templates, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<main>{{ .Body }}</main>`), 0o600))
	touch(t, page)

	report, err := b.Build(ctx, Options{SkipUpToDate: true})
	require.NoError(t, err)
	assert.Equal(t, len(examplePages), report.Built)
	assert.Contains(t, readOutput(t, cfg, "strings"), "<main>")
}

func TestBuildCodeChangeReloadsSections(t *testing.T) {
	cfg := exampleBook(t)
	rec := newCountingRecorder()
	b := newBuilder(t, cfg, WithRecorder(rec))
	ctx := context.Background()

	_, err := b.Build(ctx, Options{})
	require.NoError(t, err)
	_, err = b.Build(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.reloads, "unchanged code is not reloaded")

	manifest := filepath.Join(cfg.Paths.Code, "strings.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`chapter: Strings
sections:
  - number: 1
    path: src/object.h
    added: [int renamed;]
`), 0o600))
	touch(t, manifest)

	report, err := b.Build(ctx, Options{SkipUpToDate: true})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.reloads)
	assert.Equal(t, len(examplePages), report.Built)

	strings := readOutput(t, cfg, "strings")
	assert.Contains(t, strings, "int renamed;")
	assert.Contains(t, strings, "ERROR: Undefined section 2")
	assert.Contains(t, strings, "ERROR: Missing section 3")
	assert.Equal(t, 1, rec.outcomes[metrics.BuildWarning])
}

func TestBuildReportsDefects(t *testing.T) {
	cfg := exampleBook(t)
	require.NoError(t, os.WriteFile(cfg.ChapterPath("strings"), []byte(
		"^title Strings\n^part A Tiny Interpreter\n^code 1\n^code 1\n^code 4\n"), 0o600))

	report, err := newBuilder(t, cfg).Build(context.Background(), Options{Only: "strings"})
	require.NoError(t, err)
	require.Len(t, report.Pages, 1)

	defects := report.Pages[0].Defects
	assert.Equal(t, []int{4}, defects.Undefined)
	assert.Equal(t, []int{1}, defects.Reused)
	assert.Equal(t, []int{2, 3}, defects.Unused)
	assert.Equal(t, 4, report.Defects())

	out := readOutput(t, cfg, "strings")
	assert.Contains(t, out, "ERROR: Unused section 2")
	assert.Contains(t, out, "ERROR: Unused section 3")
	assert.Contains(t, out, "ERROR: Reused section 1")
}

func TestBuildAbortsOnFatalDirective(t *testing.T) {
	cfg := exampleBook(t)
	require.NoError(t, os.WriteFile(cfg.ChapterPath("strings"), []byte("^title Strings\n^include other.md\n"), 0o600))
	rec := newCountingRecorder()

	report, err := newBuilder(t, cfg, WithRecorder(rec)).Build(context.Background(), Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryDirective))
	assert.True(t, strings.HasPrefix(err.Error(), "Strings:2: "), err.Error())
	assert.Equal(t, 1, rec.outcomes[metrics.BuildFailed])

	// Pages before the failing one were written; later ones were not.
	assert.FileExists(t, filepath.Join(cfg.Paths.Output, "a-tiny-interpreter.html"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.Output, "strings.html"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.Output, "hash-tables.html"))
	assert.Equal(t, 5, report.Built)
}

func TestBuildMissingChapterSource(t *testing.T) {
	cfg := exampleBook(t)
	require.NoError(t, os.Remove(cfg.ChapterPath("hash-tables")))

	_, err := newBuilder(t, cfg).Build(context.Background(), Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestBuildMissingTemplate(t *testing.T) {
	cfg := exampleBook(t)
	require.NoError(t, os.WriteFile(cfg.ChapterPath("hash-tables"), []byte("^title Hash Tables\n^template appendix\n"), 0o600))

	_, err := newBuilder(t, cfg).Build(context.Background(), Options{Only: "hash-tables"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRender))
}

func TestBuildPage(t *testing.T) {
	cfg := exampleBook(t)
	b := newBuilder(t, cfg)

	report, err := b.BuildPage(context.Background(), "hash-tables")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Built)
	assert.NoFileExists(t, filepath.Join(cfg.Paths.Output, "strings.html"))

	_, err = b.BuildPage(context.Background(), "garbage-collection")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestBuildFindsBrokenLinks(t *testing.T) {
	cfg := exampleBook(t)
	require.NoError(t, os.WriteFile(cfg.ChapterPath("introduction"), []byte(
		"^title Introduction\n^part Welcome\n\nSee [strings](strings.html) and [gc](garbage-collection.html#roots).\n"), 0o600))

	report, err := newBuilder(t, cfg).Build(context.Background(), Options{Only: "introduction"})
	require.NoError(t, err)
	require.Len(t, report.Pages, 1)
	assert.Equal(t, []string{"garbage-collection.html#roots"}, report.Pages[0].BrokenLinks)
}

func TestBuildCanceled(t *testing.T) {
	cfg := exampleBook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBuilder(t, cfg).Build(ctx, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildsAreSerialized(t *testing.T) {
	cfg := exampleBook(t)
	b := newBuilder(t, cfg)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.Build(context.Background(), Options{SkipUpToDate: true})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
}

func TestPageForFile(t *testing.T) {
	b := newBuilder(t, exampleBook(t))

	page, ok := b.PageForFile("index")
	assert.True(t, ok)
	assert.Equal(t, "Example Book", page)

	_, ok = b.PageForFile("style")
	assert.False(t, ok)
}
