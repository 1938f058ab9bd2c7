package build

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bookbuilder/internal/codeblock"
	"git.home.luguber.info/inful/bookbuilder/internal/config"
	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/markdown"
	"git.home.luguber.info/inful/bookbuilder/internal/metrics"
	"git.home.luguber.info/inful/bookbuilder/internal/observability"
	"git.home.luguber.info/inful/bookbuilder/internal/preprocess"
	"git.home.luguber.info/inful/bookbuilder/internal/sections"
	"git.home.luguber.info/inful/bookbuilder/internal/templates"
	"git.home.luguber.info/inful/bookbuilder/internal/toc"
)

// Options selects what a pass builds.
type Options struct {
	// SkipUpToDate skips pages whose output is newer than all their inputs.
	SkipUpToDate bool
	// Only restricts the pass to the page with this file name (without extension).
	Only string
}

// Builder owns the state shared between passes: the section cache and the
// parsed templates.
type Builder struct {
	mu sync.Mutex

	cfg       *config.Config
	book      *toc.TOC
	loader    sections.ManifestLoader
	cache     *sections.Cache
	formatter *codeblock.Formatter
	renderer  *markdown.Renderer
	recorder  metrics.Recorder
	files     map[string]string // page file name -> page title

	templates    *templates.Set
	templatesMod time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithHighlighter replaces the chroma highlighter used for code sections.
func WithHighlighter(h codeblock.Highlighter) Option {
	return func(b *Builder) { b.formatter = codeblock.NewFormatter(h) }
}

// New creates a Builder for cfg.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	book, err := cfg.BuildTOC()
	if err != nil {
		return nil, err
	}
	loader := sections.ManifestLoader{Dir: cfg.Paths.Code}
	b := &Builder{
		cfg:       cfg,
		book:      book,
		loader:    loader,
		cache:     sections.NewCache(loader),
		formatter: codeblock.NewFormatter(codeblock.NewChromaHighlighter()),
		renderer:  markdown.NewRenderer(),
		recorder:  metrics.NoopRecorder{},
		files:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, page := range book.Pages() {
		b.files[book.FileName(page)] = page
	}
	return b, nil
}

// TOC returns the table of contents the builder works from.
func (b *Builder) TOC() *toc.TOC {
	return b.book
}

// PageForFile maps an output file name (without extension) back to its page title.
func (b *Builder) PageForFile(fileName string) (string, bool) {
	page, ok := b.files[fileName]
	return page, ok
}

// Build runs one pass. A fatal error aborts the pass; pages written before
// it stay written.
func (b *Builder) Build(ctx context.Context, opts Options) (*Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	report := &Report{BuildID: uuid.NewString(), StartTime: start}
	ctx = observability.WithBuildID(ctx, report.BuildID)

	err := b.run(ctx, opts, report)
	report.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(report.Duration)

	switch {
	case err != nil:
		b.recorder.IncBuildOutcome(metrics.BuildFailed)
		observability.ErrorContext(ctx, "Build failed", logfields.Error(err))
		return report, err
	case report.Defects() > 0:
		b.recorder.IncBuildOutcome(metrics.BuildWarning)
	default:
		b.recorder.IncBuildOutcome(metrics.BuildSuccess)
	}
	observability.InfoContext(ctx, "Build complete",
		slog.Int("built", report.Built),
		slog.Int("skipped", report.Skipped),
		slog.Int("defects", report.Defects()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// BuildPage rebuilds a single page if it is stale.
func (b *Builder) BuildPage(ctx context.Context, fileName string) (*Report, error) {
	return b.Build(ctx, Options{SkipUpToDate: true, Only: fileName})
}

func (b *Builder) run(ctx context.Context, opts Options, report *Report) error {
	if opts.Only != "" {
		if _, ok := b.files[opts.Only]; !ok {
			return errors.NewError(errors.CategoryNotFound, "no such page").
				WithContext("file", opts.Only).
				Build()
		}
	}

	codeMod, err := b.latestCodeMod()
	if err != nil {
		return err
	}
	reloaded, err := b.cache.ReloadIfStale(codeMod)
	if err != nil {
		return err
	}
	if reloaded {
		b.recorder.IncSectionReloads()
	}

	templatesMod, err := b.loadTemplates()
	if err != nil {
		return err
	}
	dependenciesMod := latest(codeMod, templatesMod)

	interpreter := preprocess.New(b.book, b.cache, b.formatter)
	for _, page := range b.book.Pages() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fileName := b.book.FileName(page)
		if opts.Only != "" && fileName != opts.Only {
			continue
		}

		pageCtx := observability.WithPage(ctx, page)
		pageStart := time.Now()
		result, err := b.buildPage(pageCtx, interpreter, page, fileName, opts.SkipUpToDate, dependenciesMod)
		if err != nil {
			b.recorder.IncPageResult(metrics.PageFailed)
			return err
		}
		result.Duration = time.Since(pageStart)
		report.add(result)

		if result.Skipped {
			b.recorder.IncPageResult(metrics.PageSkipped)
			observability.DebugContext(pageCtx, "Page up to date")
			continue
		}
		b.recorder.IncPageResult(metrics.PageBuilt)
		b.recorder.ObservePageDuration(fileName, result.Duration)
		b.recorder.AddSectionDefects(metrics.DefectUndefined, len(result.Defects.Undefined))
		b.recorder.AddSectionDefects(metrics.DefectReused, len(result.Defects.Reused))
		b.recorder.AddSectionDefects(metrics.DefectUnused, len(result.Defects.Unused))
		observability.InfoContext(pageCtx, "Page built",
			logfields.File(result.Path),
			logfields.Words(result.Words),
			slog.String("status", string(result.Status)))
	}
	return nil
}

// loadTemplates parses the templates on first use and again whenever one
// of them changed. It returns their latest modification time.
func (b *Builder) loadTemplates() (time.Time, error) {
	mod, err := templates.LatestModTime(b.cfg.Paths.Templates)
	if err != nil {
		return time.Time{}, err
	}
	if b.templates != nil && !mod.After(b.templatesMod) {
		return mod, nil
	}
	set, err := templates.Load(b.cfg.Paths.Templates, b.book.FileName)
	if err != nil {
		return time.Time{}, err
	}
	b.templates = set
	b.templatesMod = mod
	return mod, nil
}
