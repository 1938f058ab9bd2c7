package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/observability"
	"git.home.luguber.info/inful/bookbuilder/internal/preprocess"
	"git.home.luguber.info/inful/bookbuilder/internal/templates"
)

func (b *Builder) buildPage(ctx context.Context, interpreter *preprocess.Interpreter, title, fileName string,
	skipUpToDate bool, dependenciesMod time.Time,
) (*PageResult, error) {
	sourcePath := b.cfg.ChapterPath(fileName)
	outputPath := filepath.Join(b.cfg.Paths.Output, fileName+".html")
	result := &PageResult{Title: title, File: fileName, Path: outputPath}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "chapter source not found").
			WithContext(errors.ContextPage, title).
			WithContext("path", sourcePath).
			Fatal().
			Build()
	}

	if skipUpToDate {
		sourceMod := latest(info.ModTime(), dependenciesMod)
		if !IsStale(sourceMod, outputPath) {
			result.Skipped = true
			return result, nil
		}
	}

	// #nosec G304 -- the path is derived from the TOC and the configured book directory.
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read chapter source").
			WithContext("path", sourcePath).Fatal().Build()
	}

	page, err := interpreter.WithLogger(observability.Logger(ctx)).Interpret(string(source))
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext(errors.ContextPage, title).WithContext("path", sourcePath)
		}
		return nil, err
	}
	if page.Title != title {
		observability.WarnContext(ctx, "Chapter title does not match its TOC entry",
			logfields.Chapter(page.Title), logfields.Path(sourcePath))
	}

	body, err := b.renderer.Render(page.Markdown)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "render chapter").
			WithContext("path", sourcePath).Fatal().Build()
	}
	result.BrokenLinks = b.brokenLinks(page.Markdown)
	for _, link := range result.BrokenLinks {
		observability.WarnContext(ctx, "Link to unknown page", logfields.URL(link))
	}

	data := templates.NewPageData(b.cfg.Book.Title, page, body, b.book)
	var out bytes.Buffer
	if err := b.templates.Render(&out, page.Template, data); err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext(errors.ContextPage, title)
		}
		return nil, err
	}
	if _, err := templates.WritePage(b.cfg.Paths.Output, fileName, out.Bytes()); err != nil {
		return nil, err
	}

	result.Number = page.Number
	result.Part = page.Part
	result.Defects = page.Defects
	result.Words = CountWords(body)
	result.Status = b.classify(page, result.Words)
	return result, nil
}

// brokenLinks returns links to local .html pages the TOC does not produce.
func (b *Builder) brokenLinks(source string) []string {
	var broken []string
	for _, link := range b.renderer.ExtractLinks(source) {
		if !link.IsLocalPage() {
			continue
		}
		if _, ok := b.files[link.PageFile()]; !ok {
			broken = append(broken, link.Destination)
		}
	}
	return broken
}

// IsStale reports whether the output at outputPath is older than sourceMod.
// A missing output is always stale.
func IsStale(sourceMod time.Time, outputPath string) bool {
	info, err := os.Stat(outputPath)
	if err != nil {
		return true
	}
	return !sourceMod.Before(info.ModTime())
}
